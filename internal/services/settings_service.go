package services

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/hermela-bekele/SmartRecruit-sub000/internal/apperrors"
	"github.com/hermela-bekele/SmartRecruit-sub000/internal/auth"
	"github.com/hermela-bekele/SmartRecruit-sub000/internal/dtos"
	"github.com/hermela-bekele/SmartRecruit-sub000/internal/models"
)

type SettingsService struct {
	users  UserRepository
	logger logrus.FieldLogger
}

func NewSettingsService(users UserRepository, logger logrus.FieldLogger) *SettingsService {
	return &SettingsService{users: users, logger: logger}
}

func (s *SettingsService) Profile(ctx context.Context, userID uint) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *SettingsService) UpdateProfile(ctx context.Context, userID uint, req *dtos.ProfileUpdateRequest) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	email := normalizeEmail(req.Email)
	if email != user.Email {
		existing, err := s.users.GetByEmail(ctx, email)
		if err == nil && existing.ID != user.ID {
			return nil, apperrors.Conflict("email already registered")
		}
		if err != nil && !apperrors.Is(err, apperrors.KindNotFound) {
			return nil, err
		}
	}
	user.Email = email
	user.FirstName = strings.TrimSpace(req.FirstName)
	user.LastName = strings.TrimSpace(req.LastName)
	user.Phone = strings.TrimSpace(req.Phone)
	user.Company = strings.TrimSpace(req.Company)
	user.JobTitle = strings.TrimSpace(req.JobTitle)
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *SettingsService) ChangePassword(ctx context.Context, userID uint, req *dtos.PasswordChangeRequest) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	ok, err := auth.CheckPassword(user.PasswordHash, req.CurrentPassword)
	if err != nil {
		return apperrors.Internal("failed to verify password", err)
	}
	if !ok {
		return apperrors.Unauthorized("current password is incorrect")
	}
	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return apperrors.Internal("failed to hash password", err)
	}
	user.PasswordHash = hash
	if err := s.users.Save(ctx, user); err != nil {
		return err
	}
	s.logger.WithField("user_id", userID).Info("password changed")
	return nil
}

func (s *SettingsService) UpdateNotifications(ctx context.Context, userID uint, req *dtos.NotificationSettingsRequest) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Notifications = models.NotificationPreferences{
		EmailNotifications: req.EmailNotifications,
		NewApplications:    req.NewApplications,
		StatusUpdates:      req.StatusUpdates,
		WeeklyDigest:       req.WeeklyDigest,
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// EnableTwoFactor stores a fresh secret. 2FA stays off until VerifyTwoFactor
// confirms a code generated from it.
func (s *SettingsService) EnableTwoFactor(ctx context.Context, userID uint) (*auth.TOTPKey, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.TwoFactorEnabled {
		return nil, apperrors.Conflict("two-factor authentication is already enabled")
	}
	key, err := auth.GenerateTOTP(user.Email)
	if err != nil {
		return nil, apperrors.Internal("failed to generate two-factor secret", err)
	}
	user.TwoFactorSecret = key.Secret
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return key, nil
}

func (s *SettingsService) VerifyTwoFactor(ctx context.Context, userID uint, code string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.TwoFactorSecret == "" {
		return nil, apperrors.Validation("two-factor setup has not been started")
	}
	if !auth.ValidateTOTP(code, user.TwoFactorSecret) {
		return nil, apperrors.ValidationFields("invalid two-factor code", map[string]string{"code": "invalid"})
	}
	user.TwoFactorEnabled = true
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	s.logger.WithField("user_id", userID).Info("two-factor authentication enabled")
	return user, nil
}

func (s *SettingsService) DisableTwoFactor(ctx context.Context, userID uint, code string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.TwoFactorEnabled {
		return user, nil
	}
	if !auth.ValidateTOTP(code, user.TwoFactorSecret) {
		return nil, apperrors.ValidationFields("invalid two-factor code", map[string]string{"code": "invalid"})
	}
	user.TwoFactorEnabled = false
	user.TwoFactorSecret = ""
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	s.logger.WithField("user_id", userID).Info("two-factor authentication disabled")
	return user, nil
}
