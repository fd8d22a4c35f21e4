package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/azmin8744/soliloquio/internal/auth/store"
)

// HousekeepingService periodically deletes expired refresh and verification
// token rows so the tables don't grow without bound. It backs up the
// opportunistic sweeps the flows already run; nothing depends on it for
// correctness.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a housekeeping worker. A non-positive
// interval defaults to 1 hour.
func NewHousekeepingService(st store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}
	return &HousekeepingService{
		Store:    st,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker. Non-blocking; call Stop to shut down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping started", "interval", s.Interval)
}

// Stop shuts the worker down, blocking until any in-progress sweep ends.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Sweep once on startup.
	s.sweep()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

// sweep deletes expired rows. Each sweep is independent; a failure in one
// table doesn't stop the other.
func (s *HousekeepingService) sweep() {
	ctx := context.Background()
	now := time.Now().UTC()

	if n, err := s.Store.RefreshTokens().DeleteExpiredRefreshTokens(ctx, now); err != nil {
		s.Logger.Error("failed to sweep refresh tokens", "error", err)
	} else if n > 0 {
		s.Logger.Debug("swept expired refresh tokens", "deleted", n)
	}

	if n, err := s.Store.VerificationTokens().DeleteExpiredVerificationTokens(ctx, now); err != nil {
		s.Logger.Error("failed to sweep verification tokens", "error", err)
	} else if n > 0 {
		s.Logger.Debug("swept expired verification tokens", "deleted", n)
	}
}
