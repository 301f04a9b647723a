package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/hermela-bekele/SmartRecruit-sub000/internal/apperrors"
	"github.com/hermela-bekele/SmartRecruit-sub000/internal/models"
	"github.com/hermela-bekele/SmartRecruit-sub000/internal/services"
)

type UserRepository struct {
	DB *gorm.DB
}

var _ services.UserRepository = (*UserRepository)(nil)

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	err := r.DB.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.Conflict("email already registered")
	}
	if err != nil {
		return apperrors.Internal("failed to create user", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.DB.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("user not found")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load user", err)
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.DB.WithContext(ctx).Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("user not found")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load user", err)
	}
	return &user, nil
}

func (r *UserRepository) Save(ctx context.Context, user *models.User) error {
	err := r.DB.WithContext(ctx).Save(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.Conflict("email already registered")
	}
	if err != nil {
		return apperrors.Internal("failed to update user", err)
	}
	return nil
}

type ResetTokenRepository struct {
	DB *gorm.DB
}

var _ services.ResetTokenRepository = (*ResetTokenRepository)(nil)

func NewResetTokenRepository(db *gorm.DB) *ResetTokenRepository {
	return &ResetTokenRepository{DB: db}
}

func (r *ResetTokenRepository) Create(ctx context.Context, token *models.PasswordResetToken) error {
	if err := r.DB.WithContext(ctx).Create(token).Error; err != nil {
		return apperrors.Internal("failed to store reset token", err)
	}
	return nil
}

func (r *ResetTokenRepository) GetByToken(ctx context.Context, token string) (*models.PasswordResetToken, error) {
	var stored models.PasswordResetToken
	err := r.DB.WithContext(ctx).Where("token = ?", token).First(&stored).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("reset token not found")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load reset token", err)
	}
	return &stored, nil
}

func (r *ResetTokenRepository) MarkUsed(ctx context.Context, id uint, at time.Time) error {
	err := r.DB.WithContext(ctx).Model(&models.PasswordResetToken{}).
		Where("id = ?", id).
		Update("used_at", at).Error
	if err != nil {
		return apperrors.Internal("failed to mark reset token used", err)
	}
	return nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.User{}).Count(&n).Error; err != nil {
		return 0, apperrors.Internal("failed to count users", err)
	}
	return n, nil
}
