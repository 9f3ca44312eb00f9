package services

import (
	"context"
	"math"
	"sort"
	"time"

	"aeroclean/internal/adapters/persistence/models"
	"aeroclean/internal/adapters/persistence/repositories"
)

// DashboardService aggregates submission statistics
type DashboardService struct {
	submissionRepo repositories.SubmissionRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(submissionRepo repositories.SubmissionRepository) *DashboardService {
	return &DashboardService{submissionRepo: submissionRepo}
}

// LocationCount is one entry of the submissions-by-location breakdown
type LocationCount struct {
	LocationName string `json:"location__name"`
	Count        int64  `json:"count"`
}

// DashboardStats represents the aggregated dashboard numbers
type DashboardStats struct {
	SubmissionCount       int64           `json:"submission_count"`
	AvgCompletionRate     float64         `json:"avg_completion_rate"`
	ActiveUsers           int             `json:"active_users"`
	SubmissionsByLocation []LocationCount `json:"submissions_by_location"`
}

// LocationStats represents stats scoped to a single location
type LocationStats struct {
	SubmissionCount   int64                            `json:"submission_count"`
	AvgCompletionRate float64                          `json:"avg_completion_rate"`
	StaffCount        int                              `json:"staff_count"`
	RecentSubmissions []*models.SubmissionListResponse `json:"recent_submissions"`
}

// DefaultStatsDays is the default lookback window for stats
const DefaultStatsDays = 30

// GetStats computes dashboard stats over the last `days` days
func (s *DashboardService) GetStats(ctx context.Context, days int) (*DashboardStats, error) {
	submissions, err := s.listWindow(ctx, repositories.SubmissionFilter{}, days)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		SubmissionCount:       int64(len(submissions)),
		SubmissionsByLocation: []LocationCount{},
	}

	staff := make(map[uint]bool)
	byLocation := make(map[string]int64)
	totalRate := 0

	for _, sub := range submissions {
		totalRate += sub.CompletionRate()
		staff[sub.StaffID] = true
		if sub.Location != nil {
			byLocation[sub.Location.Name]++
		}
	}

	stats.ActiveUsers = len(staff)
	if len(submissions) > 0 {
		stats.AvgCompletionRate = roundRate(float64(totalRate) / float64(len(submissions)))
	}

	for name, count := range byLocation {
		stats.SubmissionsByLocation = append(stats.SubmissionsByLocation, LocationCount{
			LocationName: name,
			Count:        count,
		})
	}
	// Busiest locations first, name as tiebreak for a stable order
	sort.Slice(stats.SubmissionsByLocation, func(i, j int) bool {
		a, b := stats.SubmissionsByLocation[i], stats.SubmissionsByLocation[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.LocationName < b.LocationName
	})

	return stats, nil
}

// GetLocationStats computes stats for one location over the last `days` days
func (s *DashboardService) GetLocationStats(ctx context.Context, locationID uint, days int) (*LocationStats, error) {
	submissions, err := s.listWindow(ctx, repositories.SubmissionFilter{LocationID: locationID}, days)
	if err != nil {
		return nil, err
	}

	stats := &LocationStats{
		SubmissionCount:   int64(len(submissions)),
		RecentSubmissions: []*models.SubmissionListResponse{},
	}

	staff := make(map[uint]bool)
	totalRate := 0
	for _, sub := range submissions {
		totalRate += sub.CompletionRate()
		staff[sub.StaffID] = true
	}

	stats.StaffCount = len(staff)
	if len(submissions) > 0 {
		stats.AvgCompletionRate = roundRate(float64(totalRate) / float64(len(submissions)))
	}

	// ListAll returns newest first
	for i, sub := range submissions {
		if i == 5 {
			break
		}
		stats.RecentSubmissions = append(stats.RecentSubmissions, sub.ToListResponse())
	}

	return stats, nil
}

func (s *DashboardService) listWindow(ctx context.Context, filter repositories.SubmissionFilter, days int) ([]*models.Submission, error) {
	if days <= 0 {
		days = DefaultStatsDays
	}
	from := time.Now().AddDate(0, 0, -days)
	filter.From = &from
	return s.submissionRepo.ListAll(ctx, filter)
}

// roundRate rounds to one decimal place
func roundRate(v float64) float64 {
	return math.Round(v*10) / 10
}
