package services

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/hermela-bekele/SmartRecruit-sub000/internal/apperrors"
	"github.com/hermela-bekele/SmartRecruit-sub000/internal/mail"
	"github.com/hermela-bekele/SmartRecruit-sub000/internal/models"
)

func quietLogger() logrus.FieldLogger {
	logger, _ := test.NewNullLogger()
	return logger
}

// store backs both fake repositories so job deletes can cascade.
type store struct {
	mu     sync.Mutex
	jobs   map[uint]models.Job
	apps   map[uint]models.Application
	nextID uint

	adjustErr error
	deleteErr error
}

func newStore() *store {
	return &store{jobs: map[uint]models.Job{}, apps: map[uint]models.Application{}}
}

func (s *store) id() uint {
	s.nextID++
	return s.nextID
}

type fakeJobRepo struct{ *store }

func (r fakeJobRepo) Create(_ context.Context, job *models.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job.ID = r.id()
	job.CreatedAt = time.Now()
	r.jobs[job.ID] = *job
	return nil
}

func (r fakeJobRepo) GetByID(_ context.Context, id uint) (*models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, apperrors.NotFound("job not found")
	}
	return &job, nil
}

func (r fakeJobRepo) List(_ context.Context, filter JobFilter) ([]models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Job{}
	for _, job := range r.jobs {
		if len(filter.Statuses) > 0 && !contains(filter.Statuses, job.Status) {
			continue
		}
		out = append(out, job)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r fakeJobRepo) Save(_ context.Context, job *models.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.jobs[job.ID]
	if !ok {
		return apperrors.NotFound("job not found")
	}
	saved := *job
	saved.ApplicationCount = stored.ApplicationCount
	r.jobs[job.ID] = saved
	return nil
}

func (r fakeJobRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[id]; !ok {
		return apperrors.NotFound("job not found")
	}
	delete(r.jobs, id)
	for appID, app := range r.apps {
		if app.JobID == id {
			delete(r.apps, appID)
		}
	}
	return nil
}

func (r fakeJobRepo) AdjustApplicationCount(_ context.Context, id uint, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.adjustErr != nil {
		return r.adjustErr
	}
	job, ok := r.jobs[id]
	if !ok {
		return apperrors.NotFound("job not found")
	}
	job.ApplicationCount = max(job.ApplicationCount+delta, 0)
	r.jobs[id] = job
	return nil
}

type fakeAppRepo struct{ *store }

func (r fakeAppRepo) Create(_ context.Context, app *models.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	app.ID = r.id()
	r.apps[app.ID] = cloneApp(*app)
	return nil
}

func (r fakeAppRepo) GetByID(_ context.Context, id uint) (*models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok {
		return nil, apperrors.NotFound("application not found")
	}
	app = cloneApp(app)
	return &app, nil
}

func (r fakeAppRepo) List(_ context.Context, filter ApplicationFilter) ([]models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q := strings.ToLower(strings.TrimSpace(filter.Query))
	out := []models.Application{}
	for _, app := range r.apps {
		if filter.Status != "" && app.Status != filter.Status {
			continue
		}
		if filter.JobID != 0 && app.JobID != filter.JobID {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(app.Name+" "+app.Email+" "+app.ResumeText), q) {
			continue
		}
		out = append(out, cloneApp(app))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r fakeAppRepo) Save(_ context.Context, app *models.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.apps[app.ID]; !ok {
		return apperrors.NotFound("application not found")
	}
	r.apps[app.ID] = cloneApp(*app)
	return nil
}

func (r fakeAppRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.apps[id]; !ok {
		return apperrors.NotFound("application not found")
	}
	delete(r.apps, id)
	return nil
}

func (r fakeAppRepo) ResumePathsByJob(_ context.Context, jobID uint) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var paths []string
	for _, app := range r.apps {
		if app.JobID == jobID && app.ResumePath != "" {
			paths = append(paths, app.ResumePath)
		}
	}
	return paths, nil
}

func (r fakeAppRepo) CountByStatus(context.Context) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[string]int64{}
	for _, app := range r.apps {
		counts[app.Status]++
	}
	return counts, nil
}

func cloneApp(app models.Application) models.Application {
	app.Timeline = append([]models.TimelineEntry(nil), app.Timeline...)
	app.Job = nil
	return app
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// fakeResumes records saved and removed paths without touching disk.
type fakeResumes struct {
	mu      sync.Mutex
	saved   map[string]string
	removed []string
	saveErr error
	maxSize int64
}

func newFakeResumes() *fakeResumes {
	return &fakeResumes{saved: map[string]string{}, maxSize: 5 * 1024 * 1024}
}

func (f *fakeResumes) Validate(filename string, size int64) error {
	switch strings.ToLower(filename[strings.LastIndex(filename, ".")+1:]) {
	case "pdf", "doc", "docx":
	default:
		return apperrors.ValidationFields("resume must be a PDF, DOC or DOCX file", map[string]string{"resume": "invalid type"})
	}
	if size > f.maxSize {
		return apperrors.ValidationFields("resume must not exceed 5 MB", map[string]string{"resume": "too large"})
	}
	return nil
}

func (f *fakeResumes) Save(filename string, r io.Reader) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	path := "/uploads/" + filename
	f.saved[path] = string(data)
	return path, nil
}

func (f *fakeResumes) Remove(path string) error {
	if path == "" {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.saved, path)
	f.removed = append(f.removed, path)
	return nil
}

func (f *fakeResumes) Exists(path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.saved[path]
	return ok
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []mail.Message
	ok   bool
}

func (n *recordingNotifier) Notify(_ context.Context, msg mail.Message) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
	return n.ok
}

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[uint]models.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]models.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return apperrors.Conflict("email already registered")
		}
	}
	r.nextID++
	user.ID = r.nextID
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.NotFound("user not found")
	}
	return &u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, apperrors.NotFound("user not found")
}

func (r *fakeUserRepo) Save(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) Count(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

type fakeTokenRepo struct {
	mu     sync.Mutex
	tokens map[uint]models.PasswordResetToken
	nextID uint
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: map[uint]models.PasswordResetToken{}}
}

func (r *fakeTokenRepo) Create(_ context.Context, token *models.PasswordResetToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	token.ID = r.nextID
	r.tokens[token.ID] = *token
	return nil
}

func (r *fakeTokenRepo) GetByToken(_ context.Context, token string) (*models.PasswordResetToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		if t.Token == token {
			return &t, nil
		}
	}
	return nil, apperrors.NotFound("reset token not found")
}

func (r *fakeTokenRepo) MarkUsed(_ context.Context, id uint, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := r.tokens[id]
	t.UsedAt = &at
	r.tokens[id] = t
	return nil
}

func (r *fakeTokenRepo) only() models.PasswordResetToken {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		return t
	}
	return models.PasswordResetToken{}
}
