package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/reel/internal/auth/store"
)

// HousekeepingService periodically deletes expired sessions and SQL-backed
// challenges. Validation already expires sessions lazily; this only keeps the
// tables from growing without bound.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration
	Now      func() time.Time

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a new housekeeping service with the given interval.
// If interval is 0 or negative, defaults to 1 hour.
func NewHousekeepingService(store store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Store:    store,
		Logger:   logger,
		Interval: interval,
		Now:      time.Now,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker. Call Stop() to shut it down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop blocks until the worker has finished any in-progress cleanup.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run cleanup immediately on startup
	s.Cleanup(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Cleanup(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Cleanup runs one sweep. Each deletion is independent, a failure in one does
// not stop the other.
func (s *HousekeepingService) Cleanup(ctx context.Context) {
	now := s.Now().UTC()

	sessions, err := s.Store.Sessions().DeleteExpiredSessions(ctx, now)
	if err != nil {
		s.Logger.Error("failed to delete expired sessions", "error", err)
	}

	challenges, err := s.Store.Challenges().DeleteExpiredChallenges(ctx, now)
	if err != nil {
		s.Logger.Error("failed to delete expired challenges", "error", err)
	}

	s.Logger.Info("housekeeping cleanup completed",
		"expired_sessions", sessions,
		"expired_challenges", challenges,
	)
}
