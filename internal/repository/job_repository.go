package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/hermela-bekele/SmartRecruit-sub000/internal/apperrors"
	"github.com/hermela-bekele/SmartRecruit-sub000/internal/models"
	"github.com/hermela-bekele/SmartRecruit-sub000/internal/services"
)

type JobRepository struct {
	DB *gorm.DB
}

var _ services.JobRepository = (*JobRepository)(nil)

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{DB: db}
}

func (r *JobRepository) Create(ctx context.Context, job *models.Job) error {
	if err := r.DB.WithContext(ctx).Create(job).Error; err != nil {
		return apperrors.Internal("failed to create job", err)
	}
	return nil
}

func (r *JobRepository) GetByID(ctx context.Context, id uint) (*models.Job, error) {
	var job models.Job
	err := r.DB.WithContext(ctx).First(&job, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("job not found")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load job", err)
	}
	return &job, nil
}

func (r *JobRepository) List(ctx context.Context, filter services.JobFilter) ([]models.Job, error) {
	query := r.DB.WithContext(ctx).Order("posting_date DESC, id DESC")
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	var jobs []models.Job
	if err := query.Find(&jobs).Error; err != nil {
		return nil, apperrors.Internal("failed to list jobs", err)
	}
	return jobs, nil
}

func (r *JobRepository) Save(ctx context.Context, job *models.Job) error {
	// Omit the counter so a stale copy never overwrites concurrent increments.
	if err := r.DB.WithContext(ctx).Omit("application_count", "Applications").Save(job).Error; err != nil {
		return apperrors.Internal("failed to update job", err)
	}
	return nil
}

func (r *JobRepository) Delete(ctx context.Context, id uint) error {
	result := r.DB.WithContext(ctx).Delete(&models.Job{}, id)
	if result.Error != nil {
		return apperrors.Internal("failed to delete job", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("job not found")
	}
	return nil
}

// AdjustApplicationCount applies delta in SQL and never drops the counter below zero.
func (r *JobRepository) AdjustApplicationCount(ctx context.Context, id uint, delta int) error {
	result := r.DB.WithContext(ctx).Model(&models.Job{}).
		Where("id = ?", id).
		Update("application_count", gorm.Expr("GREATEST(application_count + ?, 0)", delta))
	if result.Error != nil {
		return apperrors.Internal("failed to update application count", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("job not found")
	}
	return nil
}
