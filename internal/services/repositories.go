package services

import (
	"context"
	"time"

	"github.com/hermela-bekele/SmartRecruit-sub000/internal/models"
)

// Repositories return *apperrors.Error with KindNotFound for missing rows.

type JobFilter struct {
	Statuses []string
}

type JobRepository interface {
	Create(ctx context.Context, job *models.Job) error
	GetByID(ctx context.Context, id uint) (*models.Job, error)
	List(ctx context.Context, filter JobFilter) ([]models.Job, error)
	Save(ctx context.Context, job *models.Job) error
	// Delete removes the job; the schema cascades to its applications.
	Delete(ctx context.Context, id uint) error
	AdjustApplicationCount(ctx context.Context, id uint, delta int) error
}

type ApplicationFilter struct {
	Status string
	JobID  uint
	Query  string
}

type ApplicationRepository interface {
	Create(ctx context.Context, app *models.Application) error
	GetByID(ctx context.Context, id uint) (*models.Application, error)
	List(ctx context.Context, filter ApplicationFilter) ([]models.Application, error)
	Save(ctx context.Context, app *models.Application) error
	Delete(ctx context.Context, id uint) error
	ResumePathsByJob(ctx context.Context, jobID uint) ([]string, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Save(ctx context.Context, user *models.User) error
	Count(ctx context.Context) (int64, error)
}

type ResetTokenRepository interface {
	Create(ctx context.Context, token *models.PasswordResetToken) error
	GetByToken(ctx context.Context, token string) (*models.PasswordResetToken, error)
	MarkUsed(ctx context.Context, id uint, at time.Time) error
}
