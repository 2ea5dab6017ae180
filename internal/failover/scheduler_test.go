package failover_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/influxcluster/internal/failover"
	"github.com/angeloszaimis/influxcluster/internal/instance"
	"github.com/angeloszaimis/influxcluster/internal/pool"
	"github.com/angeloszaimis/influxcluster/pkg/logger"
)

func TestFailover(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Failover Suite")
}

var _ = Describe("Scheduler", func() {
	var (
		p    *pool.Pool
		s    *failover.Scheduler
		a, b instance.Instance
	)

	BeforeEach(func() {
		p = pool.New()
		a = instance.Instance{Scheme: instance.SchemeHTTP, Host: "a.local", Port: 8086}
		b = instance.Instance{Scheme: instance.SchemeHTTP, Host: "b.local", Port: 8086}

		s = failover.NewScheduler(p, 50*time.Millisecond, logger.Discard(), nil)
	})

	Describe("Demoted", func() {
		It("should re-admit the instance after the cooldown", func() {
			p.Add(a)
			p.Demote(a)

			s.Demoted(a)

			Expect(p.Disabled()).To(Equal([]instance.Instance{a}))
			Eventually(p.Available, "1s", "10ms").Should(Equal([]instance.Instance{a}))
			Expect(p.Disabled()).To(BeEmpty())
		})

		It("should not re-admit before the cooldown elapses", func() {
			p.Add(a)
			p.Demote(a)

			s.Demoted(a)

			Consistently(p.Available, "30ms", "5ms").Should(BeEmpty())
		})

		It("should run an independent timer per instance", func() {
			p.Add(a)
			p.Add(b)
			p.Demote(a)
			p.Demote(b)

			s.Demoted(a)
			s.Demoted(b)

			Eventually(p.Len, "1s", "10ms").Should(Equal(2))
			Expect(p.DisabledLen()).To(Equal(0))
		})

		It("should tolerate the instance already being promoted", func() {
			p.Add(a)
			p.Demote(a)

			s.Demoted(a)
			p.Promote(a)

			Consistently(func() int {
				return p.Len() + p.DisabledLen()
			}, "150ms", "10ms").Should(Equal(1))
			Expect(p.Available()).To(Equal([]instance.Instance{a}))
		})

		It("should tolerate two pending timers for one instance", func() {
			p.Add(a)
			p.Demote(a)
			s.Demoted(a)
			s.Demoted(a)

			Eventually(p.Available, "1s", "10ms").Should(Equal([]instance.Instance{a}))
			Consistently(p.Len, "150ms", "10ms").Should(Equal(1))
		})
	})

	Describe("SetCooldown", func() {
		It("should only affect timers armed afterwards", func() {
			p.Add(a)
			p.Add(b)
			p.Demote(a)
			s.Demoted(a)

			s.SetCooldown(10 * time.Minute)
			p.Demote(b)
			s.Demoted(b)

			// The first timer keeps its 50ms cooldown.
			Eventually(p.Available, "1s", "10ms").Should(Equal([]instance.Instance{a}))
			Consistently(p.Disabled, "100ms", "10ms").Should(Equal([]instance.Instance{b}))
		})

		It("should report the current cooldown", func() {
			Expect(s.Cooldown()).To(Equal(50 * time.Millisecond))
			s.SetCooldown(time.Second)
			Expect(s.Cooldown()).To(Equal(time.Second))
		})
	})

	Describe("NewScheduler", func() {
		It("should fall back to the default cooldown", func() {
			s = failover.NewScheduler(p, 0, logger.Discard(), nil)
			Expect(s.Cooldown()).To(Equal(failover.DefaultCooldown))
		})
	})
})
