package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/hermela-bekele/SmartRecruit-sub000/internal/apperrors"
	"github.com/hermela-bekele/SmartRecruit-sub000/internal/models"
	"github.com/hermela-bekele/SmartRecruit-sub000/internal/services"
)

type ApplicationRepository struct {
	DB *gorm.DB
}

var _ services.ApplicationRepository = (*ApplicationRepository)(nil)

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{DB: db}
}

func (r *ApplicationRepository) Create(ctx context.Context, app *models.Application) error {
	if err := r.DB.WithContext(ctx).Omit("Job").Create(app).Error; err != nil {
		return apperrors.Internal("failed to create application", err)
	}
	return nil
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id uint) (*models.Application, error) {
	var app models.Application
	err := r.DB.WithContext(ctx).Preload("Job").First(&app, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("application not found")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load application", err)
	}
	return &app, nil
}

func (r *ApplicationRepository) List(ctx context.Context, filter services.ApplicationFilter) ([]models.Application, error) {
	query := r.DB.WithContext(ctx).Preload("Job").Order("applied_date DESC, id DESC")
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.JobID != 0 {
		query = query.Where("job_id = ?", filter.JobID)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		like := containsPattern(q)
		query = query.Where(
			`name ILIKE ? ESCAPE '\' OR email ILIKE ? ESCAPE '\' OR position ILIKE ? ESCAPE '\' OR company ILIKE ? ESCAPE '\' OR resume_text ILIKE ? ESCAPE '\'`,
			like, like, like, like, like,
		)
	}
	var apps []models.Application
	if err := query.Find(&apps).Error; err != nil {
		return nil, apperrors.Internal("failed to list applications", err)
	}
	return apps, nil
}

func (r *ApplicationRepository) Save(ctx context.Context, app *models.Application) error {
	if err := r.DB.WithContext(ctx).Omit("Job").Save(app).Error; err != nil {
		return apperrors.Internal("failed to update application", err)
	}
	return nil
}

func (r *ApplicationRepository) Delete(ctx context.Context, id uint) error {
	result := r.DB.WithContext(ctx).Delete(&models.Application{}, id)
	if result.Error != nil {
		return apperrors.Internal("failed to delete application", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("application not found")
	}
	return nil
}

func (r *ApplicationRepository) ResumePathsByJob(ctx context.Context, jobID uint) ([]string, error) {
	var paths []string
	err := r.DB.WithContext(ctx).Model(&models.Application{}).
		Where("job_id = ? AND resume_path <> ''", jobID).
		Pluck("resume_path", &paths).Error
	if err != nil {
		return nil, apperrors.Internal("failed to list resume paths", err)
	}
	return paths, nil
}

func (r *ApplicationRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := r.DB.WithContext(ctx).Model(&models.Application{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Internal("failed to count applications", err)
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern matches q literally anywhere in a column.
func containsPattern(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}
