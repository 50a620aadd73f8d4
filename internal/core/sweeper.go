package core

// sweeper.go evicts idle table sessions.
//
// Sessions live in memory and every open table pins its dataset, so a tab
// the user walked away from must not hold rows forever. The sweeper is
// long-running and context-aware for graceful shutdown.

import (
	"context"
	"log/slog"
	"time"
)

// SweepConfig holds configuration for the session sweeper.
type SweepConfig struct {
	TTL      time.Duration // Idle time before a session is evicted (default: 30m)
	Interval time.Duration // How often to sweep (default: 1m)
}

// StartSessionSweeper runs until ctx is cancelled, evicting sessions idle
// longer than cfg.TTL every cfg.Interval.
func (s *Service) StartSessionSweeper(ctx context.Context, cfg SweepConfig) {
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Minute
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}

	slog.Info("session sweeper started", "ttl", cfg.TTL, "interval", cfg.Interval)

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("session sweeper stopped")
			return
		case <-ticker.C:
			s.evictIdle(cfg.TTL)
		}
	}
}

// evictIdle removes sessions not used within ttl and returns how many went.
func (s *Service) evictIdle(ttl time.Duration) int {
	cutoff := s.now().Add(-ttl).UnixNano()

	s.mu.Lock()
	var evicted []*session
	for id, sess := range s.sessions {
		if sess.lastUsed.Load() < cutoff {
			delete(s.sessions, id)
			evicted = append(evicted, sess)
		}
	}
	count := len(s.sessions)
	s.mu.Unlock()

	if len(evicted) == 0 {
		return 0
	}

	s.metrics.setSessions(count)
	for _, sess := range evicted {
		slog.Info("session evicted", "session_id", sess.id, "table", sess.def.Info.Key)
	}
	slog.Debug("sweep completed", "evicted", len(evicted), "remaining", count)
	return len(evicted)
}
