package services

import (
	"context"
	"log"
	"time"

	"ruralbuild/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// Retention for soft-deleted accounts before permanent removal
const purgeRetentionDays = 90

// CronService runs scheduled maintenance jobs
type CronService struct {
	cron     *cron.Cron
	userRepo repositories.UserRepository
}

// NewCronService creates a new cron service
func NewCronService(userRepo repositories.UserRepository) *CronService {
	return &CronService{
		cron:     cron.New(),
		userRepo: userRepo,
	}
}

// Start schedules and launches all jobs
func (s *CronService) Start() {
	// Nightly maintenance at 02:30
	if _, err := s.cron.AddFunc("30 2 * * *", s.runNightlyMaintenance); err != nil {
		log.Printf("❌ Failed to schedule nightly maintenance: %v", err)
		return
	}

	s.cron.Start()
	log.Println("🚀 CronService started (nightly maintenance at 02:30)")
}

// Stop gracefully stops the scheduler
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 CronService stopped")
}

// runNightlyMaintenance purges long-deleted accounts and logs an
// account status summary
func (s *CronService) runNightlyMaintenance() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cutoff := time.Now().AddDate(0, 0, -purgeRetentionDays)
	purged, err := s.userRepo.PurgeDeletedBefore(ctx, cutoff)
	if err != nil {
		log.Printf("❌ Account purge failed: %v", err)
	} else if purged > 0 {
		log.Printf("🧹 Purged %d accounts deleted before %s", purged, cutoff.Format("2006-01-02"))
	}

	active, disabled, err := s.userRepo.CountByStatus(ctx)
	if err != nil {
		log.Printf("❌ Account summary failed: %v", err)
		return
	}
	log.Printf("📊 Account summary: %d active, %d disabled", active, disabled)
}
