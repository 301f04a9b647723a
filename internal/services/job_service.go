package services

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hermela-bekele/SmartRecruit-sub000/internal/apperrors"
	"github.com/hermela-bekele/SmartRecruit-sub000/internal/dtos"
	"github.com/hermela-bekele/SmartRecruit-sub000/internal/models"
)

// FileRemover deletes stored resume files.
type FileRemover interface {
	Remove(path string) error
}

type JobService struct {
	Jobs    JobRepository
	Apps    ApplicationRepository
	Resumes FileRemover
	Logger  logrus.FieldLogger
	now     func() time.Time
}

func NewJobService(jobs JobRepository, apps ApplicationRepository, resumes FileRemover, logger logrus.FieldLogger) *JobService {
	return &JobService{
		Jobs:    jobs,
		Apps:    apps,
		Resumes: resumes,
		Logger:  logger,
		now:     time.Now,
	}
}

func (s *JobService) CreateJob(ctx context.Context, req *dtos.JobCreationRequest) (*models.Job, error) {
	job := &models.Job{
		Title:          strings.TrimSpace(req.Title),
		Description:    req.Description,
		Department:     strings.TrimSpace(req.Department),
		Location:       strings.TrimSpace(req.Location),
		Company:        strings.TrimSpace(req.Company),
		EmploymentType: strings.TrimSpace(req.EmploymentType),
		Requirements:   req.Requirements,
		SalaryRange:    strings.TrimSpace(req.SalaryRange),
		Status:         models.JobStatusActive,
		PostingDate:    s.now(),
	}
	if job.Title == "" {
		return nil, apperrors.ValidationFields("title is required", map[string]string{"title": "required"})
	}
	if req.Status != "" {
		if !models.IsJobStatus(req.Status) {
			return nil, invalidJobStatus()
		}
		job.Status = req.Status
	}
	if req.PostingDate != "" {
		posted, err := parseDate("postingDate", req.PostingDate)
		if err != nil {
			return nil, err
		}
		job.PostingDate = posted
	}
	if req.ExpirationDate != "" {
		expires, err := parseDate("expirationDate", req.ExpirationDate)
		if err != nil {
			return nil, err
		}
		job.ExpirationDate = &expires
	}

	if err := s.Jobs.Create(ctx, job); err != nil {
		return nil, err
	}
	s.Logger.WithFields(logrus.Fields{"job_id": job.ID, "title": job.Title}).Info("job created")
	return job, nil
}

func (s *JobService) GetJob(ctx context.Context, id uint) (*models.Job, error) {
	return s.Jobs.GetByID(ctx, id)
}

func (s *JobService) ListJobs(ctx context.Context, status string) ([]models.Job, error) {
	var filter JobFilter
	if status != "" {
		filter.Statuses = []string{status}
	}
	return s.Jobs.List(ctx, filter)
}

// ListPublicJobs returns the postings candidates can still apply to.
func (s *JobService) ListPublicJobs(ctx context.Context) ([]models.Job, error) {
	return s.Jobs.List(ctx, JobFilter{Statuses: []string{models.JobStatusActive, models.JobStatusClosingSoon}})
}

func (s *JobService) UpdateJob(ctx context.Context, id uint, req *dtos.JobUpdateRequest) (*models.Job, error) {
	job, err := s.Jobs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, apperrors.ValidationFields("title must not be empty", map[string]string{"title": "required"})
		}
		job.Title = title
	}
	if req.Description != nil {
		job.Description = *req.Description
	}
	if req.Department != nil {
		job.Department = strings.TrimSpace(*req.Department)
	}
	if req.Location != nil {
		job.Location = strings.TrimSpace(*req.Location)
	}
	if req.Company != nil {
		job.Company = strings.TrimSpace(*req.Company)
	}
	if req.EmploymentType != nil {
		job.EmploymentType = strings.TrimSpace(*req.EmploymentType)
	}
	if req.Requirements != nil {
		job.Requirements = *req.Requirements
	}
	if req.SalaryRange != nil {
		job.SalaryRange = strings.TrimSpace(*req.SalaryRange)
	}
	if req.PostingDate != nil {
		posted, err := parseDate("postingDate", *req.PostingDate)
		if err != nil {
			return nil, err
		}
		job.PostingDate = posted
	}
	if req.ExpirationDate != nil {
		if strings.TrimSpace(*req.ExpirationDate) == "" {
			job.ExpirationDate = nil
		} else {
			expires, err := parseDate("expirationDate", *req.ExpirationDate)
			if err != nil {
				return nil, err
			}
			job.ExpirationDate = &expires
		}
	}
	if req.Status != nil {
		if !models.IsJobStatus(*req.Status) {
			return nil, invalidJobStatus()
		}
		job.Status = *req.Status
	}

	if err := s.Jobs.Save(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

func (s *JobService) CloseJob(ctx context.Context, id uint) (*models.Job, error) {
	return s.setStatus(ctx, id, models.JobStatusClosed)
}

func (s *JobService) ReopenJob(ctx context.Context, id uint) (*models.Job, error) {
	return s.setStatus(ctx, id, models.JobStatusActive)
}

func (s *JobService) setStatus(ctx context.Context, id uint, status string) (*models.Job, error) {
	job, err := s.Jobs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	job.Status = status
	if err := s.Jobs.Save(ctx, job); err != nil {
		return nil, err
	}
	s.Logger.WithFields(logrus.Fields{"job_id": id, "status": status}).Info("job status changed")
	return job, nil
}

// DeleteJob removes the job and, through the schema cascade, its
// applications. Their resume files are removed afterwards, best effort.
func (s *JobService) DeleteJob(ctx context.Context, id uint) error {
	if _, err := s.Jobs.GetByID(ctx, id); err != nil {
		return err
	}
	paths, err := s.Apps.ResumePathsByJob(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Jobs.Delete(ctx, id); err != nil {
		return err
	}
	for _, path := range paths {
		if err := s.Resumes.Remove(path); err != nil {
			s.Logger.WithError(err).WithField("path", path).Warn("failed to remove resume of deleted job")
		}
	}
	s.Logger.WithFields(logrus.Fields{"job_id": id, "resumes_removed": len(paths)}).Info("job deleted")
	return nil
}

func invalidJobStatus() error {
	return apperrors.ValidationFields("status must be one of Active, Closed, Closing Soon",
		map[string]string{"status": "invalid"})
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", models.TimelineDateLayout}

func parseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, apperrors.ValidationFields(field+" must be a date (YYYY-MM-DD or RFC 3339)",
		map[string]string{field: "invalid date"})
}
