// Package logutil provides a time-windowed log suppressor so that bursts of
// identical failure classes (e.g. a flood of malformed consent strings from
// one traffic category) do not spam the log.
package logutil

import (
	"log/slog"
	"sync"
	"time"
)

// DefaultWindow bounds each category to one emitted line per window.
const DefaultWindow = 10 * time.Second

// Suppressor emits at most one log line per key per window. Events arriving
// inside an open window are counted and the count is attached to the next
// emitted line, so no failure class disappears silently. Safe for concurrent
// use from arbitrarily many in-flight requests.
type Suppressor struct {
	logger *slog.Logger
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	windows map[string]*logWindow
}

type logWindow struct {
	openedAt   time.Time
	suppressed int
}

// Option configures the Suppressor.
type Option func(*Suppressor)

// WithWindow overrides the suppression window.
func WithWindow(window time.Duration) Option {
	return func(s *Suppressor) {
		if window > 0 {
			s.window = window
		}
	}
}

// WithClock injects a time source for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(s *Suppressor) {
		s.now = now
	}
}

// New creates a suppressor writing through the given logger.
func New(logger *slog.Logger, opts ...Option) *Suppressor {
	s := &Suppressor{
		logger:  logger,
		window:  DefaultWindow,
		now:     time.Now,
		windows: make(map[string]*logWindow),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Warn logs msg at warning level unless the key's window is still open, in
// which case the event is only counted.
func (s *Suppressor) Warn(key, msg string, args ...any) {
	suppressed, emit := s.admit(key)
	if !emit {
		return
	}
	if suppressed > 0 {
		args = append(args, "suppressed", suppressed)
	}
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}

// admit decides whether an event for key may be logged, rolling the window
// when it has expired. Returns the number of events swallowed since the last
// emitted line.
func (s *Suppressor) admit(key string) (suppressed int, emit bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	w, ok := s.windows[key]
	if !ok || now.Sub(w.openedAt) >= s.window {
		var prior int
		if ok {
			prior = w.suppressed
		}
		s.windows[key] = &logWindow{openedAt: now}
		return prior, true
	}

	w.suppressed++
	return 0, false
}
