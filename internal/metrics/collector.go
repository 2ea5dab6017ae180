package metrics

import (
	"context"
	"log/slog"
	"time"
)

type EventType string

const (
	EventRequestSubmitted  EventType = "request_submitted"
	EventInstanceSelected  EventType = "instance_selected"
	EventInstanceDemoted   EventType = "instance_demoted"
	EventInstancePromoted  EventType = "instance_promoted"
	EventResponseCompleted EventType = "response_completed"
)

type Event struct {
	Type       EventType
	Timestamp  time.Time
	Instance   string
	Duration   time.Duration
	StatusCode int
}

type Collector struct {
	eventCh chan Event
	metrics *Metrics
	logger  *slog.Logger
}

func NewCollector(bufferSize int, logger *slog.Logger) *Collector {
	return &Collector{
		eventCh: make(chan Event, bufferSize),
		metrics: NewMetrics(),
		logger:  logger,
	}
}

// Emit records an event without blocking the caller. Events are
// dropped when the buffer is full.
func (c *Collector) Emit(event Event) {
	select {
	case c.eventCh <- event:
	default:
	}
}

func (c *Collector) Start(ctx context.Context) {
	go c.run(ctx)
}

func (c *Collector) run(ctx context.Context) {
	c.logger.Info("Metrics collector started")
	defer c.logger.Info("Metrics collector stopped")

	for {
		select {
		case event := <-c.eventCh:
			c.processEvent(event)
		case <-ctx.Done():
			// Drain remaining events before shutdown
			c.drain()
			return
		}
	}
}

func (c *Collector) processEvent(event Event) {
	switch event.Type {
	case EventRequestSubmitted:
		c.metrics.IncrementRequests(event.Instance)

	case EventInstanceSelected:
		c.metrics.RecordSelection(event.Instance)

	case EventInstanceDemoted:
		c.metrics.RecordDemotion(event.Instance)

	case EventInstancePromoted:
		c.metrics.RecordPromotion(event.Instance)

	case EventResponseCompleted:
		c.metrics.RecordResponse(event.Instance, event.Duration, event.StatusCode)
	}
}

func (c *Collector) drain() {
	for {
		select {
		case event := <-c.eventCh:
			c.processEvent(event)
		default:
			return
		}
	}
}

func (c *Collector) Snapshot() Snapshot {
	return c.metrics.Snapshot()
}
