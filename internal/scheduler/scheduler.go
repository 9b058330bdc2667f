package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the recurring maintenance jobs: the stale-row sweep and
// the daily analytics report.
type Scheduler struct {
	cron       *cron.Cron
	ctx        context.Context
	cancel     context.CancelFunc
	sweepFunc  func(ctx context.Context) error
	reportFunc func(ctx context.Context) error
}

func New() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		ctx:    ctx,
		cancel: cancel,
	}
}

// SetSweepFunction installs the stale-session sweep job.
func (s *Scheduler) SetSweepFunction(f func(ctx context.Context) error) {
	s.sweepFunc = f
}

// SetReportFunction installs the daily report job.
func (s *Scheduler) SetReportFunction(f func(ctx context.Context) error) {
	s.reportFunc = f
}

// Start registers the cron entries and starts the scheduler. Missing
// jobs are skipped with a warning, not treated as errors.
func (s *Scheduler) Start() error {
	if s.sweepFunc != nil {
		// Hourly sweep of abandoned and orphaned rows.
		_, err := s.cron.AddFunc("0 * * * *", func() {
			if err := s.sweepFunc(s.ctx); err != nil {
				log.Printf("❌ Stale session sweep failed: %v", err)
			}
		})
		if err != nil {
			return err
		}
	} else {
		log.Println("⚠️ Sweep function not set, stale rows will not be cleaned up")
	}

	if s.reportFunc != nil {
		// Daily at 21:00 UTC.
		_, err := s.cron.AddFunc("0 21 * * *", func() {
			log.Println("🕘 Triggered daily report generation at 21:00 UTC")
			if err := s.reportFunc(s.ctx); err != nil {
				log.Printf("❌ Daily report generation failed: %v", err)
			}
		})
		if err != nil {
			return err
		}
	} else {
		log.Println("⚠️ Report function not set, scheduler will not generate reports")
	}

	s.cron.Start()
	log.Println("📅 Scheduler started - hourly sweep, daily report at 21:00 UTC")
	return nil
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
	if s.cancel != nil {
		s.cancel()
	}
	log.Println("📅 Scheduler stopped")
}

// IsRunning reports whether any jobs are registered and scheduled.
func (s *Scheduler) IsRunning() bool {
	return s.cron != nil && len(s.cron.Entries()) > 0
}
