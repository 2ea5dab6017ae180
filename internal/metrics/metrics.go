package metrics

import (
	"sort"
	"sync"
	"time"
)

type Metrics struct {
	mutex         sync.RWMutex
	requests      map[string]int64
	selections    map[string]int64
	demotions     map[string]int64
	promotions    map[string]int64
	responseTimes map[string][]time.Duration
	statusCodes   map[string]map[int]int64
	startTime     time.Time
}

type Snapshot struct {
	TotalRequests int64                      `json:"total_requests"`
	Uptime        time.Duration              `json:"uptime"`
	Instances     map[string]InstanceMetrics `json:"instances"`
}

type InstanceMetrics struct {
	Requests    int64         `json:"requests"`
	Selections  int64         `json:"selections"`
	Demotions   int64         `json:"demotions"`
	Promotions  int64         `json:"promotions"`
	AvgResponse time.Duration `json:"avg_response"`
	P50Response time.Duration `json:"p50_response"`
	P95Response time.Duration `json:"p95_response"`
	P99Response time.Duration `json:"p99_response"`
	StatusCodes map[int]int64 `json:"status_codes"`
}

func (m *Metrics) IncrementRequests(inst string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.requests[inst]++
}

func (m *Metrics) RecordSelection(inst string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.selections[inst]++
}

func (m *Metrics) RecordDemotion(inst string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.demotions[inst]++
}

func (m *Metrics) RecordPromotion(inst string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.promotions[inst]++
}

func (m *Metrics) RecordResponse(inst string, duration time.Duration, statusCode int) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.responseTimes[inst] = append(m.responseTimes[inst], duration)

	if len(m.responseTimes[inst]) > 1000 {
		m.responseTimes[inst] = m.responseTimes[inst][1:]
	}

	if m.statusCodes[inst] == nil {
		m.statusCodes[inst] = make(map[int]int64)
	}
	m.statusCodes[inst][statusCode]++
}

func (m *Metrics) Snapshot() Snapshot {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	snap := Snapshot{
		Uptime:    time.Since(m.startTime),
		Instances: make(map[string]InstanceMetrics),
	}

	// Collect every instance that appears in any series
	all := make(map[string]bool)
	for inst := range m.requests {
		all[inst] = true
	}
	for inst := range m.selections {
		all[inst] = true
	}
	for inst := range m.demotions {
		all[inst] = true
	}
	for inst := range m.promotions {
		all[inst] = true
	}
	for inst := range m.responseTimes {
		all[inst] = true
	}

	for inst := range all {
		snap.TotalRequests += m.requests[inst]

		im := InstanceMetrics{
			Requests:   m.requests[inst],
			Selections: m.selections[inst],
			Demotions:  m.demotions[inst],
			Promotions: m.promotions[inst],
		}

		if codes := m.statusCodes[inst]; len(codes) > 0 {
			im.StatusCodes = make(map[int]int64, len(codes))
			for code, count := range codes {
				im.StatusCodes[code] = count
			}
		}

		durations := m.responseTimes[inst]
		if len(durations) > 0 {
			sorted := make([]time.Duration, len(durations))
			copy(sorted, durations)
			sort.Slice(sorted, func(i, j int) bool {
				return sorted[i] < sorted[j]
			})

			im.AvgResponse = average(sorted)
			im.P50Response = percentile(sorted, 0.50)
			im.P95Response = percentile(sorted, 0.95)
			im.P99Response = percentile(sorted, 0.99)
		}

		snap.Instances[inst] = im
	}

	return snap
}

func NewMetrics() *Metrics {
	return &Metrics{
		requests:      make(map[string]int64),
		selections:    make(map[string]int64),
		demotions:     make(map[string]int64),
		promotions:    make(map[string]int64),
		responseTimes: make(map[string][]time.Duration),
		statusCodes:   make(map[string]map[int]int64),
		startTime:     time.Now(),
	}
}

func average(durations []time.Duration) time.Duration {
	if len(durations) == 0 {
		return 0
	}

	var sum time.Duration
	for _, d := range durations {
		sum += d
	}

	return sum / time.Duration(len(durations))
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}

	index := int(float64(len(sorted)) * p)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}

	return sorted[index]
}
