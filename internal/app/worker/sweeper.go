package worker

import (
	"context"
	"log"
	"time"

	"studyhub/internal/domain/repository"

	"github.com/go-co-op/gocron/v2"
)

// AttemptSweeper periodically fails verification attempts that never left the
// "checking" state, e.g. when the process died mid-verification. The redis
// lock expires on its own; the database row does not.
type AttemptSweeper struct {
	verifRepo repository.VerificationRepository
	interval  time.Duration
	maxAge    time.Duration

	scheduler gocron.Scheduler
}

func NewAttemptSweeper(verifRepo repository.VerificationRepository, interval, maxAge time.Duration) *AttemptSweeper {
	return &AttemptSweeper{
		verifRepo: verifRepo,
		interval:  interval,
		maxAge:    maxAge,
	}
}

func (s *AttemptSweeper) Start(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	s.scheduler = scheduler

	_, err = scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(s.sweep, ctx),
	)
	if err != nil {
		return err
	}

	scheduler.Start()
	log.Printf("Attempt sweeper started (interval %s, max age %s)", s.interval, s.maxAge)
	return nil
}

func (s *AttemptSweeper) Stop() {
	if s.scheduler == nil {
		return
	}
	if err := s.scheduler.Shutdown(); err != nil {
		log.Printf("WARN: sweeper shutdown: %v", err)
	}
}

func (s *AttemptSweeper) sweep(ctx context.Context) {
	cutoff := time.Now().Add(-s.maxAge)
	n, err := s.verifRepo.FailStuckAttempts(ctx, cutoff)
	if err != nil {
		log.Printf("WARN: sweeping stuck verification attempts: %v", err)
		return
	}
	if n > 0 {
		log.Printf("Swept %d stuck verification attempt(s)", n)
	}
}
