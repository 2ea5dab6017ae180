package failover

import (
	"log/slog"
	"sync"
	"time"

	"github.com/angeloszaimis/influxcluster/internal/instance"
	"github.com/angeloszaimis/influxcluster/internal/metrics"
)

// DefaultCooldown is how long a demoted instance sits out before it
// is offered to callers again.
const DefaultCooldown = 60 * time.Second

// Promoter re-admits an instance into rotation. It reports whether
// the instance was actually moved; a false return means the instance
// was no longer sitting out, which the scheduler treats as benign.
type Promoter interface {
	Promote(instance.Instance) bool
}

// Scheduler re-admits demoted instances after a cooldown. Each
// demotion arms its own one-shot timer; timers are independent and
// never cancelled. If an instance is demoted again while a timer for
// it is still pending, the extra promote attempt simply finds nothing
// to promote.
type Scheduler struct {
	mutex     sync.RWMutex
	cooldown  time.Duration
	promoter  Promoter
	logger    *slog.Logger
	collector *metrics.Collector
}

// NewScheduler creates a scheduler that calls promoter after each
// cooldown expires. The collector may be nil.
func NewScheduler(promoter Promoter, cooldown time.Duration, logger *slog.Logger, collector *metrics.Collector) *Scheduler {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}

	return &Scheduler{
		cooldown:  cooldown,
		promoter:  promoter,
		logger:    logger,
		collector: collector,
	}
}

// Cooldown returns the current cooldown duration.
func (s *Scheduler) Cooldown() time.Duration {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.cooldown
}

// SetCooldown changes the cooldown for timers armed after the call.
// Timers already pending keep the duration they were armed with.
func (s *Scheduler) SetCooldown(cooldown time.Duration) {
	s.mutex.Lock()
	s.cooldown = cooldown
	s.mutex.Unlock()
}

// Demoted arms a one-shot re-admission timer for inst. The cooldown
// is captured now, so a later SetCooldown does not affect this timer.
func (s *Scheduler) Demoted(inst instance.Instance) {
	cooldown := s.Cooldown()

	s.logger.Info("Scheduling instance re-admission",
		slog.String("instance", inst.String()),
		slog.Duration("cooldown", cooldown))

	time.AfterFunc(cooldown, func() {
		if !s.promoter.Promote(inst) {
			// Already re-admitted, or demoted again with its own
			// timer pending. Nothing to do either way.
			s.logger.Debug("Instance not in disabled set, skipping re-admission",
				slog.String("instance", inst.String()))
			return
		}

		s.logger.Info("Instance re-admitted",
			slog.String("instance", inst.String()))

		if s.collector != nil {
			s.collector.Emit(metrics.Event{
				Type:      metrics.EventInstancePromoted,
				Timestamp: time.Now(),
				Instance:  inst.String(),
			})
		}
	})
}
