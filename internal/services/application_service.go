package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hermela-bekele/SmartRecruit-sub000/internal/apperrors"
	"github.com/hermela-bekele/SmartRecruit-sub000/internal/dtos"
	"github.com/hermela-bekele/SmartRecruit-sub000/internal/mail"
	"github.com/hermela-bekele/SmartRecruit-sub000/internal/models"
	"github.com/hermela-bekele/SmartRecruit-sub000/internal/storage"
)

type ResumeStorage interface {
	Validate(filename string, size int64) error
	Save(filename string, r io.Reader) (string, error)
	Remove(path string) error
	Exists(path string) bool
}

type MailNotifier interface {
	Notify(ctx context.Context, msg mail.Message) bool
}

type ResumeUpload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

type SubmitApplicationInput struct {
	Name        string
	Email       string
	Position    string
	Company     string
	Phone       string
	Skills      []string
	CoverLetter string
	JobID       uint
}

type ResumeFile struct {
	Path        string
	FileName    string
	ContentType string
}

type ApplicationServiceDeps struct {
	Apps     ApplicationRepository
	Jobs     JobRepository
	Resumes  ResumeStorage
	Notifier MailNotifier
	Policy   *StatusPolicy
	Logger   logrus.FieldLogger
	// ExtractText defaults to storage.ExtractText.
	ExtractText func(path string) (string, error)
}

type ApplicationService struct {
	apps        ApplicationRepository
	jobs        JobRepository
	resumes     ResumeStorage
	notifier    MailNotifier
	policy      *StatusPolicy
	logger      logrus.FieldLogger
	extractText func(path string) (string, error)
	now         func() time.Time
}

func NewApplicationService(deps ApplicationServiceDeps) *ApplicationService {
	extract := deps.ExtractText
	if extract == nil {
		extract = storage.ExtractText
	}
	return &ApplicationService{
		apps:        deps.Apps,
		jobs:        deps.Jobs,
		resumes:     deps.Resumes,
		notifier:    deps.Notifier,
		policy:      deps.Policy,
		logger:      deps.Logger,
		extractText: extract,
		now:         time.Now,
	}
}

// Submit stores a candidate application. The resume is validated before the
// job lookup and removed again if anything after the write fails. A row that
// was inserted before the failure is deleted first; if that delete fails too
// the resume is kept so the row never points at a missing file.
func (s *ApplicationService) Submit(ctx context.Context, in SubmitApplicationInput, resume *ResumeUpload) (app *models.Application, err error) {
	if resume != nil {
		if err := s.resumes.Validate(resume.Filename, resume.Size); err != nil {
			return nil, err
		}
	}

	job, err := s.jobs.GetByID(ctx, in.JobID)
	if err != nil {
		return nil, err
	}

	var (
		resumePath string
		keepResume bool
	)
	if resume != nil {
		resumePath, err = s.resumes.Save(resume.Filename, resume.Content)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err == nil || keepResume {
				return
			}
			if rmErr := s.resumes.Remove(resumePath); rmErr != nil {
				s.logger.WithError(rmErr).WithField("path", resumePath).Warn("failed to clean up resume after failed submission")
			}
		}()
	}

	app = &models.Application{
		Name:        strings.TrimSpace(in.Name),
		Email:       strings.TrimSpace(in.Email),
		Position:    strings.TrimSpace(in.Position),
		Company:     strings.TrimSpace(in.Company),
		Phone:       strings.TrimSpace(in.Phone),
		Skills:      in.Skills,
		CoverLetter: in.CoverLetter,
		ResumePath:  resumePath,
		JobID:       job.ID,
	}
	if app.Skills == nil {
		app.Skills = []string{}
	}
	if resumePath != "" {
		text, extractErr := s.extractText(resumePath)
		if extractErr != nil {
			s.logger.WithError(extractErr).WithField("path", resumePath).Warn("resume text extraction failed")
		}
		app.ResumeText = text
	}
	now := s.now()
	app.AppliedDate = now
	app.AppendTimeline(models.StatusReceived, now)

	if err = s.apps.Create(ctx, app); err != nil {
		return nil, err
	}
	// Not transactional with the insert above; concurrent submissions may
	// briefly leave the counter stale.
	if err = s.jobs.AdjustApplicationCount(ctx, job.ID, 1); err != nil {
		if delErr := s.apps.Delete(ctx, app.ID); delErr != nil {
			keepResume = true
			s.logger.WithError(delErr).WithField("application_id", app.ID).Error("failed to roll back application after count update failed")
		}
		return nil, err
	}
	job.ApplicationCount++
	app.Job = job

	s.logger.WithFields(logrus.Fields{
		"application_id": app.ID,
		"job_id":         job.ID,
		"has_resume":     resumePath != "",
	}).Info("application submitted")
	return app, nil
}

func (s *ApplicationService) Get(ctx context.Context, id uint) (*models.Application, error) {
	return s.apps.GetByID(ctx, id)
}

func (s *ApplicationService) List(ctx context.Context, query dtos.ApplicationQuery) ([]models.Application, error) {
	return s.apps.List(ctx, ApplicationFilter{
		Status: strings.TrimSpace(query.Status),
		JobID:  query.JobID,
		Query:  query.Query,
	})
}

// UpdateStatus appends a timeline entry and replaces the status. Any status
// string may follow any other unless a StatusPolicy is configured. Mail is
// sent only when both subject and content are given; a failed send does not
// fail the update.
func (s *ApplicationService) UpdateStatus(ctx context.Context, id uint, req *dtos.StatusUpdateRequest) (*models.Application, error) {
	status := strings.TrimSpace(req.Status)
	if status == "" {
		return nil, apperrors.ValidationFields("status is required", map[string]string{"status": "required"})
	}

	app, err := s.apps.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	allowed, err := s.policy.Allows(app.Status, status)
	if err != nil {
		return nil, apperrors.Internal("failed to evaluate status transition rule", err)
	}
	if !allowed {
		return nil, apperrors.ValidationFields(
			fmt.Sprintf("status transition from %s to %s is not allowed", app.Status, status),
			map[string]string{"status": "transition not allowed"})
	}

	previous := app.Status
	app.AppendTimeline(status, s.now())
	if err := s.apps.Save(ctx, app); err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"application_id": app.ID,
		"from":           previous,
		"to":             status,
	}).Info("application status changed")

	if strings.TrimSpace(req.EmailSubject) != "" && strings.TrimSpace(req.EmailContent) != "" {
		vars := templateVars(app)
		s.notifier.Notify(ctx, mail.Message{
			To:      app.Email,
			Subject: mail.Render(req.EmailSubject, vars),
			Body:    mail.Render(req.EmailContent, vars),
		})
	}
	return app, nil
}

// Update writes fields directly. A status set here does not touch the
// timeline, unlike UpdateStatus.
func (s *ApplicationService) Update(ctx context.Context, id uint, req *dtos.ApplicationUpdateRequest) (*models.Application, error) {
	app, err := s.apps.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		app.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		app.Email = strings.TrimSpace(*req.Email)
	}
	if req.Position != nil {
		app.Position = strings.TrimSpace(*req.Position)
	}
	if req.Company != nil {
		app.Company = strings.TrimSpace(*req.Company)
	}
	if req.Phone != nil {
		app.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Skills != nil {
		app.Skills = *req.Skills
	}
	if req.CoverLetter != nil {
		app.CoverLetter = *req.CoverLetter
	}
	if req.Status != nil {
		status := strings.TrimSpace(*req.Status)
		if status == "" {
			return nil, apperrors.ValidationFields("status must not be empty", map[string]string{"status": "required"})
		}
		app.Status = status
	}
	if app.Name == "" || app.Email == "" || app.Position == "" || app.Company == "" {
		return nil, apperrors.Validation("name, email, position and company must not be empty")
	}
	if err := s.apps.Save(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

func (s *ApplicationService) Delete(ctx context.Context, id uint) error {
	app, err := s.apps.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.apps.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.jobs.AdjustApplicationCount(ctx, app.JobID, -1); err != nil && !apperrors.Is(err, apperrors.KindNotFound) {
		return err
	}
	if err := s.resumes.Remove(app.ResumePath); err != nil {
		s.logger.WithError(err).WithField("path", app.ResumePath).Warn("failed to remove resume of deleted application")
	}
	s.logger.WithFields(logrus.Fields{"application_id": id, "job_id": app.JobID}).Info("application deleted")
	return nil
}

func (s *ApplicationService) Resume(ctx context.Context, id uint) (*ResumeFile, error) {
	app, err := s.apps.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.ResumePath == "" {
		return nil, apperrors.NotFound("no resume uploaded for this application")
	}
	if !s.resumes.Exists(app.ResumePath) {
		return nil, apperrors.NotFound("resume file not found")
	}
	return &ResumeFile{
		Path:        app.ResumePath,
		FileName:    filepath.Base(app.ResumePath),
		ContentType: storage.ContentType(app.ResumePath),
	}, nil
}

var exportHeader = []string{"id", "name", "email", "phone", "position", "company", "status", "appliedDate", "jobId"}

func (s *ApplicationService) ExportCSV(ctx context.Context, query dtos.ApplicationQuery, w io.Writer) error {
	apps, err := s.List(ctx, query)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, app := range apps {
		record := []string{
			strconv.FormatUint(uint64(app.ID), 10),
			app.Name,
			app.Email,
			app.Phone,
			app.Position,
			app.Company,
			app.Status,
			app.AppliedDate.Format(models.TimelineDateLayout),
			strconv.FormatUint(uint64(app.JobID), 10),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func templateVars(app *models.Application) map[string]string {
	return map[string]string{
		"name":          app.Name,
		"candidateName": app.Name,
		"email":         app.Email,
		"position":      app.Position,
		"company":       app.Company,
		"status":        app.Status,
	}
}
