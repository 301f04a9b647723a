package auth

import (
	"strings"

	"github.com/pquerna/otp/totp"
)

const totpIssuer = "SmartRecruit"

type TOTPKey struct {
	Secret string `json:"secret"`
	URL    string `json:"otpauthUrl"`
}

func GenerateTOTP(accountEmail string) (*TOTPKey, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: accountEmail,
	})
	if err != nil {
		return nil, err
	}
	return &TOTPKey{Secret: key.Secret(), URL: key.URL()}, nil
}

func ValidateTOTP(code, secret string) bool {
	if secret == "" {
		return false
	}
	return totp.Validate(strings.TrimSpace(code), secret)
}
