package services

import (
	"context"
	"testing"
	"time"

	"aeroclean/internal/adapters/persistence/models"
	"aeroclean/internal/adapters/persistence/repositories"
)

// fakeSubmissionRepo serves canned submissions for stats tests
type fakeSubmissionRepo struct {
	repositories.SubmissionRepository
	submissions []*models.Submission
	lastFilter  repositories.SubmissionFilter
}

func (f *fakeSubmissionRepo) ListAll(ctx context.Context, filter repositories.SubmissionFilter) ([]*models.Submission, error) {
	f.lastFilter = filter
	return f.submissions, nil
}

func ratedSubmission(staffID uint, locationName string, ratings ...int) *models.Submission {
	s := &models.Submission{
		StaffID:  staffID,
		Location: &models.Location{Name: locationName},
	}
	for _, r := range ratings {
		s.TaskRatings = append(s.TaskRatings, models.TaskRating{Rating: r})
	}
	return s
}

func TestGetStats(t *testing.T) {
	repo := &fakeSubmissionRepo{submissions: []*models.Submission{
		ratedSubmission(1, "Departure Hall", 10, 10), // 100%
		ratedSubmission(1, "Departure Hall", 5, 5),   // 50%
		ratedSubmission(2, "Arrival Hall", 8, 8),     // 80%
	}}
	svc := NewDashboardService(repo)

	stats, err := svc.GetStats(context.Background(), 30)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}

	if stats.SubmissionCount != 3 {
		t.Errorf("SubmissionCount = %d, want 3", stats.SubmissionCount)
	}
	if stats.ActiveUsers != 2 {
		t.Errorf("ActiveUsers = %d, want 2", stats.ActiveUsers)
	}
	// (100 + 50 + 80) / 3 = 76.666 -> 76.7
	if stats.AvgCompletionRate != 76.7 {
		t.Errorf("AvgCompletionRate = %v, want 76.7", stats.AvgCompletionRate)
	}

	if len(stats.SubmissionsByLocation) != 2 {
		t.Fatalf("locations = %d, want 2", len(stats.SubmissionsByLocation))
	}
	// Busiest first
	if stats.SubmissionsByLocation[0].LocationName != "Departure Hall" || stats.SubmissionsByLocation[0].Count != 2 {
		t.Errorf("first = %+v", stats.SubmissionsByLocation[0])
	}
	if stats.SubmissionsByLocation[1].LocationName != "Arrival Hall" || stats.SubmissionsByLocation[1].Count != 1 {
		t.Errorf("second = %+v", stats.SubmissionsByLocation[1])
	}
}

func TestGetStatsEmpty(t *testing.T) {
	svc := NewDashboardService(&fakeSubmissionRepo{})

	stats, err := svc.GetStats(context.Background(), 30)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats.SubmissionCount != 0 || stats.AvgCompletionRate != 0 || stats.ActiveUsers != 0 {
		t.Errorf("stats = %+v, want zeros", stats)
	}
	if stats.SubmissionsByLocation == nil {
		t.Error("SubmissionsByLocation should be an empty slice, not nil")
	}
}

func TestGetStatsDefaultWindow(t *testing.T) {
	repo := &fakeSubmissionRepo{}
	svc := NewDashboardService(repo)

	if _, err := svc.GetStats(context.Background(), 0); err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if repo.lastFilter.From == nil {
		t.Fatal("filter.From not set")
	}
	wantFrom := time.Now().AddDate(0, 0, -DefaultStatsDays)
	if diff := repo.lastFilter.From.Sub(wantFrom); diff < -time.Minute || diff > time.Minute {
		t.Errorf("From = %v, want about %v", repo.lastFilter.From, wantFrom)
	}
}

func TestGetLocationStats(t *testing.T) {
	repo := &fakeSubmissionRepo{submissions: []*models.Submission{
		ratedSubmission(1, "Departure Hall", 10),
		ratedSubmission(2, "Departure Hall", 6),
		ratedSubmission(1, "Departure Hall", 4),
	}}
	svc := NewDashboardService(repo)

	stats, err := svc.GetLocationStats(context.Background(), 4, 7)
	if err != nil {
		t.Fatalf("GetLocationStats: %v", err)
	}
	if repo.lastFilter.LocationID != 4 {
		t.Errorf("filter location = %d, want 4", repo.lastFilter.LocationID)
	}
	if stats.SubmissionCount != 3 {
		t.Errorf("SubmissionCount = %d, want 3", stats.SubmissionCount)
	}
	if stats.StaffCount != 2 {
		t.Errorf("StaffCount = %d, want 2", stats.StaffCount)
	}
	// (100 + 60 + 40) / 3 = 66.666 -> 66.7
	if stats.AvgCompletionRate != 66.7 {
		t.Errorf("AvgCompletionRate = %v, want 66.7", stats.AvgCompletionRate)
	}
	if len(stats.RecentSubmissions) != 3 {
		t.Errorf("RecentSubmissions = %d, want 3", len(stats.RecentSubmissions))
	}
}
