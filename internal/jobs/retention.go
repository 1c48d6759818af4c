package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"fleettrack/internal/service"
)

// RetentionSweeper deletes telemetry older than the configured window on a
// nightly schedule.
type RetentionSweeper struct {
	telemetry     service.TelemetryService
	retentionDays int
	cron          *cron.Cron
	log           zerolog.Logger
}

func NewRetentionSweeper(telemetry service.TelemetryService, retentionDays int, log zerolog.Logger) *RetentionSweeper {
	return &RetentionSweeper{
		telemetry:     telemetry,
		retentionDays: retentionDays,
		cron:          cron.New(),
		log:           log,
	}
}

// Start schedules the sweep and kicks off the cron loop. A retention of
// zero or less disables the job.
func (s *RetentionSweeper) Start() error {
	if s.retentionDays <= 0 {
		s.log.Info().Msg("telemetry retention disabled")
		return nil
	}

	_, err := s.cron.AddFunc("30 2 * * *", s.sweep)
	if err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info().Int("retention_days", s.retentionDays).Msg("telemetry retention sweeper started")
	return nil
}

func (s *RetentionSweeper) Stop() {
	s.cron.Stop()
}

func (s *RetentionSweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cutoff := time.Now().AddDate(0, 0, -s.retentionDays)
	deleted, err := s.telemetry.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		s.log.Error().Err(err).Msg("telemetry retention sweep failed")
		return
	}
	s.log.Info().Int64("deleted", deleted).Time("cutoff", cutoff).Msg("telemetry retention sweep")
}
