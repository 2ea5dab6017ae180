package metrics_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/influxcluster/internal/metrics"
)

func TestMetrics(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Metrics Suite")
}

var _ = Describe("Metrics", func() {
	var m *metrics.Metrics

	BeforeEach(func() {
		m = metrics.NewMetrics()
	})

	Describe("Snapshot", func() {
		It("should total requests across instances", func() {
			m.IncrementRequests("http://a.local:8086")
			m.IncrementRequests("http://a.local:8086")
			m.IncrementRequests("http://b.local:8086")

			snap := m.Snapshot()
			Expect(snap.TotalRequests).To(Equal(int64(3)))
			Expect(snap.Instances).To(HaveLen(2))
			Expect(snap.Instances["http://a.local:8086"].Requests).To(Equal(int64(2)))
		})

		It("should track demotions and promotions", func() {
			m.RecordDemotion("http://a.local:8086")
			m.RecordDemotion("http://a.local:8086")
			m.RecordPromotion("http://a.local:8086")

			im := m.Snapshot().Instances["http://a.local:8086"]
			Expect(im.Demotions).To(Equal(int64(2)))
			Expect(im.Promotions).To(Equal(int64(1)))
		})

		It("should compute response time percentiles", func() {
			for i := 1; i <= 100; i++ {
				m.RecordResponse("http://a.local:8086", time.Duration(i)*time.Millisecond, 200)
			}

			im := m.Snapshot().Instances["http://a.local:8086"]
			Expect(im.P50Response).To(BeNumerically("~", 50*time.Millisecond, 2*time.Millisecond))
			Expect(im.P95Response).To(BeNumerically("~", 95*time.Millisecond, 2*time.Millisecond))
			Expect(im.P99Response).To(BeNumerically("~", 99*time.Millisecond, 2*time.Millisecond))
			Expect(im.StatusCodes[200]).To(Equal(int64(100)))
		})

		It("should not mutate a returned snapshot on later recording", func() {
			m.RecordResponse("http://a.local:8086", time.Millisecond, 200)

			im := m.Snapshot().Instances["http://a.local:8086"]
			Expect(im.StatusCodes[200]).To(Equal(int64(1)))

			m.RecordResponse("http://a.local:8086", time.Millisecond, 200)
			m.RecordResponse("http://a.local:8086", time.Millisecond, 503)

			Expect(im.StatusCodes[200]).To(Equal(int64(1)))
			Expect(im.StatusCodes).NotTo(HaveKey(503))
		})

		It("should cap stored response times", func() {
			for i := 0; i < 1500; i++ {
				m.RecordResponse("http://a.local:8086", time.Millisecond, 200)
			}

			im := m.Snapshot().Instances["http://a.local:8086"]
			Expect(im.StatusCodes[200]).To(Equal(int64(1500)))
			Expect(im.AvgResponse).To(Equal(time.Millisecond))
		})
	})
})
