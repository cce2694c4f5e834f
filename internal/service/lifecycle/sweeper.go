// internal/service/lifecycle/sweeper.go
package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// RuleStore is the slice of the rule repository the sweeper drives. Both
// operations are bulk conditional updates: only records matching the
// transition's precondition are touched, so a tick is idempotent and two
// overlapping ticks cannot corrupt a record.
type RuleStore interface {
	// ActivateDue flips scheduled rules whose start date has arrived to active.
	ActivateDue(ctx context.Context, now time.Time) (int64, error)
	// ExpireDue flips active and paused rules whose end date has passed to
	// expired. Paused rules still expire on schedule.
	ExpireDue(ctx context.Context, now time.Time) (int64, error)
}

// Sweeper advances rule status with wall-clock time on a fixed cadence,
// independent of any checkout request. It never enters or leaves paused:
// that transition belongs to explicit owner actions only.
type Sweeper struct {
	store       RuleStore
	logger      *zap.Logger
	interval    time.Duration
	tickTimeout time.Duration
	scheduler   gocron.Scheduler
	now         func() time.Time
}

func NewSweeper(store RuleStore, logger *zap.Logger, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{
		store:       store,
		logger:      logger,
		interval:    interval,
		tickTimeout: 30 * time.Second,
		now:         time.Now,
	}
}

// Start schedules the recurring sweep. Call once at process boot.
func (s *Sweeper) Start() error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create sweep scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(s.tick),
	)
	if err != nil {
		return fmt.Errorf("failed to register sweep job: %w", err)
	}

	scheduler.Start()
	s.scheduler = scheduler
	s.logger.Info("lifecycle sweeper started", zap.Duration("interval", s.interval))
	return nil
}

// Stop shuts the scheduler down, waiting for an in-flight tick.
func (s *Sweeper) Stop() {
	if s.scheduler == nil {
		return
	}
	if err := s.scheduler.Shutdown(); err != nil {
		s.logger.Warn("sweep scheduler shutdown failed", zap.Error(err))
	}
}

// tick runs one sweep with a store timeout. Errors are logged and the tick
// abandoned; the next scheduled tick retries independently, so a failure
// costs at most one interval of status lag.
func (s *Sweeper) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), s.tickTimeout)
	defer cancel()

	if err := s.Sweep(ctx); err != nil {
		s.logger.Error("lifecycle sweep failed", zap.Error(err))
	}
}

// Sweep performs a single pass of the state machine against now:
// scheduled -> active when the start date has arrived, and
// active|paused -> expired when a set end date has passed.
func (s *Sweeper) Sweep(ctx context.Context) error {
	now := s.now()

	activated, err := s.store.ActivateDue(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to activate due rules: %w", err)
	}

	expired, err := s.store.ExpireDue(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to expire due rules: %w", err)
	}

	if activated > 0 || expired > 0 {
		s.logger.Info("lifecycle sweep applied transitions",
			zap.Int64("activated", activated),
			zap.Int64("expired", expired),
		)
	}
	return nil
}
