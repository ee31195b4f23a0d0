package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStatsFirstRecordSetsAverage(t *testing.T) {
	s := &Stats{}
	s.Record(true, 200*time.Millisecond)

	snap := s.Snapshot()
	require.Equal(t, int64(1), snap.TotalRequests)
	require.Equal(t, int64(1), snap.SuccessfulRequests)
	require.Equal(t, int64(200), snap.AverageLatencyMS)
	require.Equal(t, 100.0, snap.SuccessRate)
	require.NotNil(t, snap.LastRequestTime)
}

func TestStatsExponentialMovingAverage(t *testing.T) {
	s := &Stats{}
	s.Record(true, 100*time.Millisecond)
	s.Record(true, 200*time.Millisecond)

	// 0.1*200ms + 0.9*100ms = 110ms
	require.Equal(t, int64(110), s.Snapshot().AverageLatencyMS)
}

func TestStatsSuccessRate(t *testing.T) {
	s := &Stats{}
	s.Record(true, time.Millisecond)
	s.Record(true, time.Millisecond)
	s.Record(false, time.Millisecond)
	s.Record(false, time.Millisecond)

	snap := s.Snapshot()
	require.Equal(t, int64(4), snap.TotalRequests)
	require.Equal(t, int64(2), snap.FailedRequests)
	require.Equal(t, 50.0, snap.SuccessRate)
}

func TestStatsEmptySnapshot(t *testing.T) {
	snap := (&Stats{}).Snapshot()
	require.Zero(t, snap.TotalRequests)
	require.Zero(t, snap.SuccessRate)
	require.Nil(t, snap.LastRequestTime)
}
