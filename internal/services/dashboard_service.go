package services

import (
	"context"
	"math"
	"time"

	"github.com/hermela-bekele/SmartRecruit-sub000/internal/models"
)

const (
	openPositionsLimit         = 5
	defaultDaysUntilExpiration = 30
)

type OpenPosition struct {
	ID               uint   `json:"id"`
	Title            string `json:"title"`
	Department       string `json:"department"`
	Location         string `json:"location"`
	ApplicationCount int    `json:"applicationCount"`
	DaysRemaining    int    `json:"daysRemaining"`
}

type DashboardStats struct {
	TotalApplications   int64          `json:"totalApplications"`
	UnderReview         int64          `json:"underReview"`
	Interview           int64          `json:"interview"`
	Offer               int64          `json:"offer"`
	Hired               int64          `json:"hired"`
	Rejected            int64          `json:"rejected"`
	AverageTimeToHire   float64        `json:"averageTimeToHire"`
	CostPerHire         float64        `json:"costPerHire"`
	OfferAcceptanceRate float64        `json:"offerAcceptanceRate"`
	OpenPositions       []OpenPosition `json:"openPositions"`
}

type DashboardService struct {
	apps        ApplicationRepository
	jobs        JobRepository
	costPerHire float64
	now         func() time.Time
}

func NewDashboardService(apps ApplicationRepository, jobs JobRepository, costPerHire float64) *DashboardService {
	return &DashboardService{apps: apps, jobs: jobs, costPerHire: costPerHire, now: time.Now}
}

// Stats aggregates the dashboard. Time to hire is measured from the
// application date to now for every hired application, not to the hire event.
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	counts, err := s.apps.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	stats := &DashboardStats{
		UnderReview: counts[models.StatusUnderReview],
		Interview:   counts[models.StatusInterview],
		Offer:       counts[models.StatusOffer],
		Hired:       counts[models.StatusHired],
		Rejected:    counts[models.StatusReject],
		CostPerHire: s.costPerHire,
	}
	for _, n := range counts {
		stats.TotalApplications += n
	}

	now := s.now()
	hired, err := s.apps.List(ctx, ApplicationFilter{Status: models.StatusHired})
	if err != nil {
		return nil, err
	}
	if len(hired) > 0 {
		var totalDays float64
		for _, app := range hired {
			totalDays += now.Sub(app.AppliedDate).Hours() / 24
		}
		stats.AverageTimeToHire = roundTenth(totalDays / float64(len(hired)))
	}

	if stats.Offer > 0 {
		stats.OfferAcceptanceRate = roundTenth(float64(stats.Hired) / float64(stats.Offer) * 100)
	}

	jobs, err := s.jobs.List(ctx, JobFilter{Statuses: []string{models.JobStatusActive}})
	if err != nil {
		return nil, err
	}
	stats.OpenPositions = make([]OpenPosition, 0, openPositionsLimit)
	for _, job := range jobs {
		if len(stats.OpenPositions) == openPositionsLimit {
			break
		}
		stats.OpenPositions = append(stats.OpenPositions, OpenPosition{
			ID:               job.ID,
			Title:            job.Title,
			Department:       job.Department,
			Location:         job.Location,
			ApplicationCount: job.ApplicationCount,
			DaysRemaining:    daysRemaining(job.ExpirationDate, now),
		})
	}
	return stats, nil
}

func daysRemaining(expiration *time.Time, now time.Time) int {
	if expiration == nil {
		return defaultDaysUntilExpiration
	}
	days := int(math.Ceil(expiration.Sub(now).Hours() / 24))
	if days < 0 {
		return 0
	}
	return days
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
