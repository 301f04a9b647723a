package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/hermela-bekele/SmartRecruit-sub000/internal/apperrors"
	"github.com/hermela-bekele/SmartRecruit-sub000/internal/auth"
	"github.com/hermela-bekele/SmartRecruit-sub000/internal/dtos"
	"github.com/hermela-bekele/SmartRecruit-sub000/internal/mail"
	"github.com/hermela-bekele/SmartRecruit-sub000/internal/models"
)

const resetTokenTTL = time.Hour

type TokenIssuer interface {
	Issue(userID uint, email, role string) (string, time.Time, error)
}

type LoginResult struct {
	AccessToken string       `json:"access_token"`
	ExpiresAt   time.Time    `json:"expiresAt"`
	User        *models.User `json:"user"`
}

type AuthService struct {
	users       UserRepository
	tokens      ResetTokenRepository
	issuer      TokenIssuer
	notifier    MailNotifier
	frontendURL string
	logger      logrus.FieldLogger
	now         func() time.Time
}

func NewAuthService(users UserRepository, tokens ResetTokenRepository, issuer TokenIssuer, notifier MailNotifier, frontendURL string, logger logrus.FieldLogger) *AuthService {
	return &AuthService{
		users:       users,
		tokens:      tokens,
		issuer:      issuer,
		notifier:    notifier,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		logger:      logger,
		now:         time.Now,
	}
}

// Register creates an HR account. Only an admin may register users once any
// account exists; the very first account is created anonymously as admin.
func (s *AuthService) Register(ctx context.Context, callerRole string, req *dtos.RegisterRequest) (*models.User, error) {
	existing, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	role := models.RoleHR
	switch {
	case existing == 0:
		role = models.RoleAdmin
	case callerRole == "":
		return nil, apperrors.Unauthorized("registration requires an administrator")
	case callerRole != models.RoleAdmin:
		return nil, apperrors.Forbidden("only administrators can register users")
	}

	email := normalizeEmail(req.Email)
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.Conflict("email already registered")
	} else if !apperrors.Is(err, apperrors.KindNotFound) {
		return nil, err
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.Internal("failed to hash password", err)
	}
	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Notifications: models.NotificationPreferences{
			EmailNotifications: true,
			NewApplications:    true,
			StatusUpdates:      true,
		},
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{"user_id": user.ID, "role": role}).Info("user registered")
	return user, nil
}

// Login never reveals whether the email or the password was wrong.
func (s *AuthService) Login(ctx context.Context, req *dtos.LoginRequest) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if apperrors.Is(err, apperrors.KindNotFound) {
		return nil, apperrors.Unauthorized("invalid email or password")
	}
	if err != nil {
		return nil, err
	}
	ok, err := auth.CheckPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, apperrors.Internal("failed to verify password", err)
	}
	if !ok {
		return nil, apperrors.Unauthorized("invalid email or password")
	}
	if user.TwoFactorEnabled {
		if strings.TrimSpace(req.TwoFactorCode) == "" {
			return nil, apperrors.Unauthorized("two-factor code required")
		}
		if !auth.ValidateTOTP(req.TwoFactorCode, user.TwoFactorSecret) {
			return nil, apperrors.Unauthorized("invalid two-factor code")
		}
	}
	token, expiresAt, err := s.issuer.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, apperrors.Internal("failed to issue token", err)
	}
	s.logger.WithField("user_id", user.ID).Info("user logged in")
	return &LoginResult{AccessToken: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *AuthService) Me(ctx context.Context, userID uint) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

// RequestPasswordReset succeeds silently for unknown emails.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if apperrors.Is(err, apperrors.KindNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	token := &models.PasswordResetToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: s.now().Add(resetTokenTTL),
	}
	if err := s.tokens.Create(ctx, token); err != nil {
		return err
	}
	link := fmt.Sprintf("%s/reset-password?token=%s", s.frontendURL, url.QueryEscape(token.Token))
	s.notifier.Notify(ctx, mail.Message{
		To:      user.Email,
		Subject: "Reset your password",
		Body: fmt.Sprintf("Hello %s,\n\nUse the link below to reset your password. It expires in one hour.\n\n%s\n\nIf you did not request this, ignore this e-mail.",
			displayName(user), link),
	})
	s.logger.WithField("user_id", user.ID).Info("password reset requested")
	return nil
}

func (s *AuthService) ConfirmPasswordReset(ctx context.Context, req *dtos.ResetPasswordConfirmRequest) error {
	stored, err := s.tokens.GetByToken(ctx, strings.TrimSpace(req.Token))
	if apperrors.Is(err, apperrors.KindNotFound) {
		return apperrors.ValidationFields("reset token is invalid or expired", map[string]string{"token": "invalid"})
	}
	if err != nil {
		return err
	}
	now := s.now()
	if !stored.Usable(now) {
		return apperrors.ValidationFields("reset token is invalid or expired", map[string]string{"token": "invalid"})
	}
	user, err := s.users.GetByID(ctx, stored.UserID)
	if err != nil {
		return err
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return apperrors.Internal("failed to hash password", err)
	}
	user.PasswordHash = hash
	if err := s.users.Save(ctx, user); err != nil {
		return err
	}
	if err := s.tokens.MarkUsed(ctx, stored.ID, now); err != nil {
		return err
	}
	s.logger.WithField("user_id", user.ID).Info("password reset completed")
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func displayName(user *models.User) string {
	name := strings.TrimSpace(user.FirstName + " " + user.LastName)
	if name == "" {
		return user.Email
	}
	return name
}
