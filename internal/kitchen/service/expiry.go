package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/tabletopkitchen/kitchen/internal/kitchen/domain"
	"github.com/tabletopkitchen/kitchen/internal/kitchen/store"
)

// ExpirySweeper periodically scans pantry items whose expiry date falls
// within the warning window and logs a per-user summary. It is the
// lightweight stand-in for user-facing notifications.
type ExpirySweeper struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration
	Window   time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewExpirySweeper creates a sweeper. A non-positive interval defaults to
// 12 hours, a non-positive window to 3 days.
func NewExpirySweeper(st store.Store, logger *slog.Logger, interval, window time.Duration) *ExpirySweeper {
	if interval <= 0 {
		interval = 12 * time.Hour
	}
	if window <= 0 {
		window = 72 * time.Hour
	}

	return &ExpirySweeper{
		Store:    st,
		Logger:   logger,
		Interval: interval,
		Window:   window,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker. Non-blocking; call Stop to shut it
// down gracefully.
func (s *ExpirySweeper) Start() {
	go s.run()
	s.Logger.Info("expiry sweeper started", "interval", s.Interval, "window", s.Window)
}

// Stop shuts down the worker and blocks until any in-progress sweep
// finishes.
func (s *ExpirySweeper) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("expiry sweeper stopped")
}

func (s *ExpirySweeper) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Sweep immediately on startup
	s.Sweep(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Sweep(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Sweep runs one pass over the expiry window and logs a warning per user
// listing their soon-to-expire ingredients.
func (s *ExpirySweeper) Sweep(ctx context.Context) {
	now := time.Now().UTC()
	items, err := s.Store.Pantry().FindExpiring(ctx, now, now.Add(s.Window))
	if err != nil {
		s.Logger.Error("expiry sweep failed", "error", err)
		return
	}
	if len(items) == 0 {
		s.Logger.Debug("expiry sweep completed", "expiring_items", 0)
		return
	}

	for userID, names := range groupByUser(items) {
		s.Logger.Warn("pantry items expiring soon",
			"user_id", userID,
			"count", len(names),
			"ingredients", names)
	}
	s.Logger.Info("expiry sweep completed", "expiring_items", len(items))
}

func groupByUser(items []domain.PantryItem) map[int64][]string {
	out := make(map[int64][]string)
	for _, item := range items {
		out[item.UserID] = append(out[item.UserID], item.IngredientName)
	}
	return out
}
