package monitoring

import (
	"context"
	"fmt"
	"time"

	"github.com/isdelr/planner-be/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// rotationTimeout bounds a single rotation run.
const rotationTimeout = time.Minute

// Rotator advances the todo lists by one day.
type Rotator interface {
	Rotate(ctx context.Context) (services.RotationResult, error)
}

// Scheduler fires the todo rotation on a cron schedule.
type Scheduler struct {
	cron    *cron.Cron
	rotator Rotator
	loc     *time.Location
	now     func() time.Time
}

// NewScheduler creates a scheduler that runs rotator on spec, a standard
// five-field cron expression evaluated in loc.
func NewScheduler(rotator Rotator, spec string, loc *time.Location) (*Scheduler, error) {
	s := &Scheduler{rotator: rotator, loc: loc, now: time.Now}
	s.cron = cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.Recover(cronLogger{}), cron.SkipIfStillRunning(cronLogger{})),
	)
	if _, err := s.cron.AddFunc(spec, s.RunOnce); err != nil {
		return nil, fmt.Errorf("invalid rotation schedule %q: %w", spec, err)
	}
	return s, nil
}

// Run starts the scheduler in its own goroutine.
func (s *Scheduler) Run() {
	log.Info().Msg("Starting todo rotation scheduler...")
	s.cron.Start()
}

// Stop halts the scheduler and waits for a running rotation to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Info().Msg("Stopped todo rotation scheduler.")
}

// Next reports when the rotation fires next.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	if !entries[0].Next.IsZero() {
		return entries[0].Next
	}
	return entries[0].Schedule.Next(s.now().In(s.loc))
}

// RunOnce performs one rotation. A failed rotation changes nothing and is
// retried at the next firing.
func (s *Scheduler) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), rotationTimeout)
	defer cancel()

	start := s.now()
	result, err := s.rotator.Rotate(ctx)
	RecordRotation(err == nil, start)
	if err != nil {
		log.Error().Err(err).Msg("Scheduler: todo rotation failed")
		return
	}
	log.Info().
		Int64("deleted", result.Deleted).
		Int64("promoted", result.Promoted).
		Dur("took", s.now().Sub(start)).
		Msg("Scheduler: rotated todos")
}

// cronLogger routes cron's internal logging through zerolog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	log.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	log.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
