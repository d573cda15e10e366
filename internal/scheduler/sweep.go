// Package scheduler runs the store's periodic cache sweep on a cron schedule.
// The sweep is a memory-bound safeguard, not a correctness requirement: the
// store's read path already revalidates against modification time.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"bookvault/internal/store"
)

// SweepScheduler drops stale cache entries from a store on a fixed schedule.
type SweepScheduler struct {
	store  *store.Store
	maxAge time.Duration
	log    *slog.Logger

	cron      *cron.Cron
	entryID   cron.EntryID
	mu        sync.Mutex
	isRunning bool
}

// NewSweepScheduler creates a scheduler sweeping entries older than maxAge.
func NewSweepScheduler(st *store.Store, maxAge time.Duration, logger *slog.Logger) *SweepScheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SweepScheduler{
		store:  st,
		maxAge: maxAge,
		log:    logger.With("component", "scheduler"),
		cron:   cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler with the given cron expression. Idempotent.
func (s *SweepScheduler) Start(ctx context.Context, schedule string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	entryID, err := s.cron.AddFunc(schedule, func() {
		dropped := s.store.Sweep(s.maxAge)
		if dropped > 0 {
			s.log.Info("cache sweep", "dropped", dropped)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule cache sweep %q: %w", schedule, err)
	}
	s.entryID = entryID

	s.cron.Start()
	s.isRunning = true
	s.log.Info("cache sweep scheduler started", "schedule", schedule, "max_age", s.maxAge)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

// Stop halts the scheduler. Idempotent.
func (s *SweepScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}
	s.cron.Remove(s.entryID)
	s.cron.Stop()
	s.isRunning = false
	s.log.Info("cache sweep scheduler stopped")
}

// IsRunning reports whether the scheduler is active.
func (s *SweepScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// NextRun returns the next scheduled sweep time, or the zero time when the
// scheduler is idle.
func (s *SweepScheduler) NextRun() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return time.Time{}
	}
	return s.cron.Entry(s.entryID).Next
}
