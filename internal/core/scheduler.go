package core

// scheduler.go runs the idle-session sweeper. Sessions hold a whole decoded
// workbook in memory, so sessions not touched within the TTL are dropped.

import (
	"context"
	"log/slog"
	"time"
)

// DefaultSweepInterval is used when StartSweeper gets a non-positive interval.
const DefaultSweepInterval = time.Minute

// StartSweeper removes idle sessions every interval until ctx is cancelled.
// It blocks; run it in its own goroutine.
func (s *Service) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	slog.Info("session sweeper started",
		"interval", interval.String(),
		"session_ttl", s.cfg.SessionTTL.String(),
	)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("session sweeper stopped")
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Sweep removes every session idle for longer than the TTL and returns how
// many were removed.
func (s *Service) Sweep() int {
	cutoff := s.now().Add(-s.cfg.SessionTTL)

	s.mu.Lock()
	var expired []string
	for id, sess := range s.sessions {
		if sess.lastSeen().Before(cutoff) {
			expired = append(expired, id)
			delete(s.sessions, id)
		}
	}
	remaining := len(s.sessions)
	s.mu.Unlock()

	for _, id := range expired {
		slog.Info("session expired", "session_id", id)
	}
	if len(expired) > 0 {
		slog.Debug("sweep completed", "expired", len(expired), "remaining", remaining)
	}
	return len(expired)
}
