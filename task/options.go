package task

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Option is a function that configures a Service
type Option func(*Service) error

// WithClock sets the source of "today" for overdue and reminder views.
// Defaults to time.Now in the local time zone.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) error {
		if clock == nil {
			return fmt.Errorf("clock cannot be nil")
		}
		s.clock = clock
		return nil
	}
}

// WithLogger sets the logger used for debug-level lifecycle events.
// Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		s.logger = logger
		return nil
	}
}
