package metrics_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/influxcluster/internal/metrics"
	"github.com/angeloszaimis/influxcluster/pkg/logger"
)

var _ = Describe("Collector", func() {
	var (
		collector *metrics.Collector
		ctx       context.Context
		cancel    context.CancelFunc
	)

	BeforeEach(func() {
		collector = metrics.NewCollector(100, logger.Discard())
		ctx, cancel = context.WithCancel(context.Background())
		collector.Start(ctx)
	})

	AfterEach(func() {
		cancel()
	})

	It("should process emitted events", func() {
		collector.Emit(metrics.Event{
			Type:      metrics.EventRequestSubmitted,
			Timestamp: time.Now(),
			Instance:  "http://a.local:8086",
		})
		collector.Emit(metrics.Event{
			Type:      metrics.EventInstanceSelected,
			Timestamp: time.Now(),
			Instance:  "http://a.local:8086",
		})

		Eventually(func() int64 {
			return collector.Snapshot().TotalRequests
		}).Should(Equal(int64(1)))

		Eventually(func() int64 {
			return collector.Snapshot().Instances["http://a.local:8086"].Selections
		}).Should(Equal(int64(1)))
	})

	It("should record response events with status and duration", func() {
		collector.Emit(metrics.Event{
			Type:       metrics.EventResponseCompleted,
			Timestamp:  time.Now(),
			Instance:   "http://a.local:8086",
			Duration:   25 * time.Millisecond,
			StatusCode: 204,
		})

		Eventually(func() int64 {
			return collector.Snapshot().Instances["http://a.local:8086"].StatusCodes[204]
		}).Should(Equal(int64(1)))
	})

	It("should record failover events", func() {
		collector.Emit(metrics.Event{
			Type:      metrics.EventInstanceDemoted,
			Timestamp: time.Now(),
			Instance:  "http://a.local:8086",
		})
		collector.Emit(metrics.Event{
			Type:      metrics.EventInstancePromoted,
			Timestamp: time.Now(),
			Instance:  "http://a.local:8086",
		})

		Eventually(func() metrics.InstanceMetrics {
			return collector.Snapshot().Instances["http://a.local:8086"]
		}).Should(SatisfyAll(
			HaveField("Demotions", int64(1)),
			HaveField("Promotions", int64(1)),
		))
	})

	It("should not block the emitter when the buffer is full", func() {
		small := metrics.NewCollector(1, logger.Discard())

		done := make(chan struct{})
		go func() {
			defer close(done)
			for i := 0; i < 100; i++ {
				small.Emit(metrics.Event{Type: metrics.EventRequestSubmitted, Instance: "x"})
			}
		}()

		Eventually(done).Should(BeClosed())
	})
})
