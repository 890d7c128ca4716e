package usecase

import (
	"context"
	"log/slog"
	"time"
)

// RotationScheduler runs RotatePending on a fixed interval.
type RotationScheduler struct {
	rotator  Rotator
	interval time.Duration
	logger   *slog.Logger
}

// NewRotationScheduler creates a RotationScheduler.
func NewRotationScheduler(rotator Rotator, interval time.Duration, logger *slog.Logger) *RotationScheduler {
	return &RotationScheduler{
		rotator:  rotator,
		interval: interval,
		logger:   logger,
	}
}

// Start blocks, rotating once per interval until ctx is cancelled. Rotation
// errors are logged and the loop keeps going.
func (s *RotationScheduler) Start(ctx context.Context) error {
	s.logger.Info("starting rotation scheduler", slog.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("stopping rotation scheduler")
			return ctx.Err()
		case <-ticker.C:
			report, err := s.rotator.RotatePending(ctx)
			if err != nil {
				s.logger.Error("scheduled rotation failed", slog.Any("error", err))
				continue
			}
			if report.Degraded() {
				s.logger.Error("scheduled rotation left the active stage degraded",
					slog.String("run_id", report.RunID.String()),
				)
			}
		}
	}
}
