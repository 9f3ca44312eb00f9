package services

import (
	"context"
	"log"
	"time"

	"aeroclean/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// CronService runs scheduled maintenance jobs
type CronService struct {
	refreshTokenRepo repositories.RefreshTokenRepository
	submissionRepo   repositories.SubmissionRepository
	cron             *cron.Cron
}

// NewCronService creates a new cron service
func NewCronService(
	refreshTokenRepo repositories.RefreshTokenRepository,
	submissionRepo repositories.SubmissionRepository,
) *CronService {
	return &CronService{
		refreshTokenRepo: refreshTokenRepo,
		submissionRepo:   submissionRepo,
		cron:             cron.New(),
	}
}

// Start registers and starts the scheduled jobs
func (s *CronService) Start() error {
	// Purge expired refresh tokens every night at 02:00
	if _, err := s.cron.AddFunc("0 2 * * *", s.purgeExpiredTokens); err != nil {
		return err
	}

	// Log a daily submissions summary just before midnight
	if _, err := s.cron.AddFunc("55 23 * * *", s.logDailySummary); err != nil {
		return err
	}

	s.cron.Start()
	log.Println("✅ Cron jobs scheduled")
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 Cron jobs stopped")
}

func (s *CronService) purgeExpiredTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	deleted, err := s.refreshTokenRepo.DeleteExpired(ctx)
	if err != nil {
		log.Printf("❌ Expired token purge failed: %v", err)
		return
	}
	log.Printf("✅ Purged %d expired refresh tokens", deleted)
}

func (s *CronService) logDailySummary() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	today := time.Now().Truncate(24 * time.Hour)
	submissions, err := s.submissionRepo.ListAll(ctx, repositories.SubmissionFilter{Date: &today})
	if err != nil {
		log.Printf("❌ Daily summary failed: %v", err)
		return
	}

	totalRate := 0
	for _, sub := range submissions {
		totalRate += sub.CompletionRate()
	}
	avg := 0
	if len(submissions) > 0 {
		avg = totalRate / len(submissions)
	}
	log.Printf("📊 Daily summary: %d submissions, avg completion %d%%", len(submissions), avg)
}
