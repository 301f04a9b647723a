package models

import (
	"time"

	"github.com/lib/pq"
)

// Job posting statuses. "Closing Soon" is a manual label only.
const (
	JobStatusActive      = "Active"
	JobStatusClosed      = "Closed"
	JobStatusClosingSoon = "Closing Soon"
)

// Conventional application statuses. Storage does not enforce them.
const (
	StatusReceived    = "Received"
	StatusUnderReview = "UnderReview"
	StatusShortlisted = "Shortlisted"
	StatusAssessment  = "Assessment"
	StatusInterview   = "Interview"
	StatusOffer       = "Offer"
	StatusHired       = "Hired"
	StatusReject      = "Reject"
)

// TimelineDateLayout is the day precision used for timeline entries.
const TimelineDateLayout = "2006-01-02"

func IsJobStatus(status string) bool {
	switch status {
	case JobStatusActive, JobStatusClosed, JobStatusClosingSoon:
		return true
	}
	return false
}

type Job struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Title          string         `gorm:"not null" json:"title"`
	Department     string         `json:"department"`
	Location       string         `json:"location"`
	Company        string         `json:"company"`
	EmploymentType string         `json:"employmentType"`
	Description    string         `gorm:"type:text" json:"description"`
	Requirements   pq.StringArray `gorm:"type:text[]" json:"requirements"`
	SalaryRange    string         `json:"salaryRange,omitempty"`
	PostingDate    time.Time      `json:"postingDate"`
	ExpirationDate *time.Time     `json:"expirationDate,omitempty"`
	Status         string         `gorm:"default:'Active';index" json:"status"`

	// Maintained by application create/delete only.
	ApplicationCount int `gorm:"not null;default:0" json:"applicationCount"`

	Applications []Application `gorm:"constraint:OnDelete:CASCADE" json:"applications,omitempty"`
}

type TimelineEntry struct {
	Date   string `json:"date"`
	Status string `json:"status"`
}

type Application struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	AppliedDate time.Time `gorm:"autoCreateTime" json:"appliedDate"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Name        string         `gorm:"not null" json:"name"`
	Email       string         `gorm:"not null;index" json:"email"`
	Position    string         `gorm:"not null" json:"position"`
	Company     string         `gorm:"not null" json:"company"`
	Phone       string         `json:"phone,omitempty"`
	Skills      pq.StringArray `gorm:"type:text[]" json:"skills"`
	CoverLetter string         `gorm:"type:text" json:"coverLetter,omitempty"`
	ResumePath  string         `json:"resumePath,omitempty"`
	ResumeText  string         `gorm:"type:text" json:"-"`

	Status   string          `gorm:"not null;default:'Received';index" json:"status"`
	Timeline []TimelineEntry `gorm:"type:jsonb;serializer:json" json:"timeline"`

	JobID uint `gorm:"not null;index" json:"jobId"`
	// Association: repositories Preload() it on reads.
	Job *Job `json:"job,omitempty"`
}

// AppendTimeline records a status change. Entries are never edited or removed.
func (a *Application) AppendTimeline(status string, at time.Time) {
	a.Timeline = append(a.Timeline, TimelineEntry{
		Date:   at.Format(TimelineDateLayout),
		Status: status,
	})
	a.Status = status
}
