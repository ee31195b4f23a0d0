package llm

import (
	"sync"
	"time"
)

// emaAlpha is the smoothing factor for the rolling latency average.
const emaAlpha = 0.1

// Stats tracks rolling request counters for one client. Every call attempt,
// success or failure, is recorded.
type Stats struct {
	mu sync.Mutex

	total      int64
	successful int64
	failed     int64
	avgLatency time.Duration
	lastAt     time.Time
}

func (s *Stats) Record(success bool, latency time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.total++
	s.lastAt = time.Now().UTC()
	if success {
		s.successful++
	} else {
		s.failed++
	}

	if s.total == 1 {
		s.avgLatency = latency
		return
	}
	s.avgLatency = time.Duration(emaAlpha*float64(latency) + (1-emaAlpha)*float64(s.avgLatency))
}

// StatsSnapshot is a read-only view for health reporting.
type StatsSnapshot struct {
	TotalRequests      int64      `json:"total_requests"`
	SuccessfulRequests int64      `json:"successful_requests"`
	FailedRequests     int64      `json:"failed_requests"`
	SuccessRate        float64    `json:"success_rate"`
	AverageLatencyMS   int64      `json:"average_latency_ms"`
	LastRequestTime    *time.Time `json:"last_request_time,omitempty"`
}

func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := StatsSnapshot{
		TotalRequests:      s.total,
		SuccessfulRequests: s.successful,
		FailedRequests:     s.failed,
		AverageLatencyMS:   s.avgLatency.Milliseconds(),
	}
	if s.total > 0 {
		snap.SuccessRate = float64(s.successful) / float64(s.total) * 100
	}
	if !s.lastAt.IsZero() {
		t := s.lastAt
		snap.LastRequestTime = &t
	}
	return snap
}
