package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hermela-bekele/SmartRecruit-sub000/internal/apperrors"
	"github.com/hermela-bekele/SmartRecruit-sub000/internal/auth"
	"github.com/hermela-bekele/SmartRecruit-sub000/internal/dtos"
	"github.com/hermela-bekele/SmartRecruit-sub000/internal/models"
)

type authFixture struct {
	users    *fakeUserRepo
	tokens   *fakeTokenRepo
	notifier *recordingNotifier
	issuer   *auth.TokenIssuer
	svc      *AuthService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	f := &authFixture{
		users:    newFakeUserRepo(),
		tokens:   newFakeTokenRepo(),
		notifier: &recordingNotifier{ok: true},
		issuer:   auth.NewTokenIssuer("test-secret", time.Hour),
	}
	f.svc = NewAuthService(f.users, f.tokens, f.issuer, f.notifier, "http://localhost:3000/", quietLogger())
	return f
}

func (f *authFixture) register(t *testing.T) *models.User {
	t.Helper()
	user, err := f.svc.Register(context.Background(), "", &dtos.RegisterRequest{
		Email: "HR@Example.com ", Password: "s3cret-pass", FirstName: "Hana", LastName: "Reed",
	})
	require.NoError(t, err)
	return user
}

func TestRegister(t *testing.T) {
	f := newAuthFixture(t)
	user := f.register(t)

	assert.Equal(t, "hr@example.com", user.Email)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
	assert.True(t, user.Notifications.EmailNotifications)
	assert.False(t, user.Notifications.WeeklyDigest)

	_, err := f.svc.Register(context.Background(), models.RoleAdmin, &dtos.RegisterRequest{Email: "hr@example.com", Password: "another-pass"})
	assert.True(t, apperrors.Is(err, apperrors.KindConflict))
}

func TestRegisterAfterBootstrapNeedsAdmin(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t)
	req := &dtos.RegisterRequest{Email: "recruiter@example.com", Password: "password-2"}

	_, err := f.svc.Register(context.Background(), "", req)
	assert.True(t, apperrors.Is(err, apperrors.KindUnauthorized))

	_, err = f.svc.Register(context.Background(), models.RoleHR, req)
	assert.True(t, apperrors.Is(err, apperrors.KindForbidden))

	n, err := f.users.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	user, err := f.svc.Register(context.Background(), models.RoleAdmin, req)
	require.NoError(t, err)
	assert.Equal(t, models.RoleHR, user.Role)
}

func TestLogin(t *testing.T) {
	f := newAuthFixture(t)
	user := f.register(t)

	result, err := f.svc.Login(context.Background(), &dtos.LoginRequest{Email: "hr@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, result.User.ID)

	claims, err := f.issuer.Parse(result.AccessToken)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)

	_, err = f.svc.Login(context.Background(), &dtos.LoginRequest{Email: "hr@example.com", Password: "wrong-pass"})
	assert.True(t, apperrors.Is(err, apperrors.KindUnauthorized))

	_, err = f.svc.Login(context.Background(), &dtos.LoginRequest{Email: "nobody@example.com", Password: "s3cret-pass"})
	assert.True(t, apperrors.Is(err, apperrors.KindUnauthorized))
}

func TestLoginRequiresTwoFactorCode(t *testing.T) {
	f := newAuthFixture(t)
	user := f.register(t)
	key, err := auth.GenerateTOTP(user.Email)
	require.NoError(t, err)
	user.TwoFactorSecret = key.Secret
	user.TwoFactorEnabled = true
	require.NoError(t, f.users.Save(context.Background(), user))

	_, err = f.svc.Login(context.Background(), &dtos.LoginRequest{Email: user.Email, Password: "s3cret-pass"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "two-factor code required")

	_, err = f.svc.Login(context.Background(), &dtos.LoginRequest{Email: user.Email, Password: "s3cret-pass", TwoFactorCode: "000000"})
	assert.True(t, apperrors.Is(err, apperrors.KindUnauthorized))

	code, err := totp.GenerateCode(key.Secret, time.Now())
	require.NoError(t, err)
	_, err = f.svc.Login(context.Background(), &dtos.LoginRequest{Email: user.Email, Password: "s3cret-pass", TwoFactorCode: code})
	assert.NoError(t, err)
}

func TestPasswordResetFlow(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t)

	require.NoError(t, f.svc.RequestPasswordReset(context.Background(), "hr@example.com"))
	require.Len(t, f.notifier.sent, 1)
	stored := f.tokens.only()
	assert.Contains(t, f.notifier.sent[0].Body, "http://localhost:3000/reset-password?token="+stored.Token)
	assert.Equal(t, "hr@example.com", f.notifier.sent[0].To)

	err := f.svc.ConfirmPasswordReset(context.Background(), &dtos.ResetPasswordConfirmRequest{Token: stored.Token, Password: "brand-new-pass"})
	require.NoError(t, err)

	_, err = f.svc.Login(context.Background(), &dtos.LoginRequest{Email: "hr@example.com", Password: "brand-new-pass"})
	assert.NoError(t, err)

	err = f.svc.ConfirmPasswordReset(context.Background(), &dtos.ResetPasswordConfirmRequest{Token: stored.Token, Password: "third-pass-123"})
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
}

func TestPasswordResetUnknownEmailIsSilent(t *testing.T) {
	f := newAuthFixture(t)

	require.NoError(t, f.svc.RequestPasswordReset(context.Background(), "ghost@example.com"))
	assert.Empty(t, f.notifier.sent)
}

func TestPasswordResetExpiredToken(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t)
	require.NoError(t, f.svc.RequestPasswordReset(context.Background(), "hr@example.com"))
	stored := f.tokens.only()

	f.svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	err := f.svc.ConfirmPasswordReset(context.Background(), &dtos.ResetPasswordConfirmRequest{Token: stored.Token, Password: "brand-new-pass"})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))

	err = f.svc.ConfirmPasswordReset(context.Background(), &dtos.ResetPasswordConfirmRequest{Token: "bogus", Password: "brand-new-pass"})
	assert.True(t, strings.Contains(err.Error(), "invalid or expired"))
}
