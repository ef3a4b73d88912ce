package stats

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatistics(t *testing.T) {
	s := New()
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	t.Run("TrackVisitor", func(t *testing.T) {
		s.TrackVisitor("10.0.0.1")
		s.TrackVisitor("10.0.0.2")
		s.TrackVisitor("10.0.0.1")
		assert.Equal(t, 2, s.UniqueVisitors())

		now = now.Add(25 * time.Hour)
		s.TrackVisitor("10.0.0.3")
		assert.Equal(t, 1, s.UniqueVisitors())
	})

	t.Run("TrackAnalysis", func(t *testing.T) {
		s.TrackAnalysis("https://example.com/", 100, false)
		s.TrackAnalysis("https://example.com", 300, true)
		s.TrackAnalysis("https://shop.example.com/cart/", 200, false)
		s.TrackAnalysis("http://localhost:8082/", 50, false)

		assert.Equal(t, 25.0, s.ErrorRate())
		assert.Equal(t, []PopularURL{
			{URL: "https://example.com", Count: 2},
			{URL: "https://shop.example.com/cart", Count: 1},
		}, s.PopularURLs(5))
		assert.Len(t, s.PopularURLs(1), 1)
	})

	t.Run("Snapshot", func(t *testing.T) {
		summary := s.Snapshot(false)
		assert.Equal(t, 4, summary.TotalRequests)
		assert.Equal(t, 162.5, summary.AverageLoadTime)
		assert.Nil(t, summary.PopularURLs)

		detailed := s.Snapshot(true)
		require.Len(t, detailed.PopularURLs, 2)
	})
}

func TestStatisticsEmpty(t *testing.T) {
	snap := New().Snapshot(true)

	assert.Zero(t, snap.TotalRequests)
	assert.Zero(t, snap.ErrorRate)
	assert.Zero(t, snap.AverageLoadTime)
	assert.Empty(t, snap.PopularURLs)
}

func TestCleanURL(t *testing.T) {
	tests := map[string]string{
		"https://example.com/blog/?q=1": "https://example.com/blog",
		"https://example.com":           "https://example.com",
		"http://127.0.0.1:9000/page":    "",
		"https://example.com/api/v1":    "",
		"not a url":                     "",
	}
	for in, want := range tests {
		assert.Equal(t, want, cleanURL(in), in)
	}
}

func TestStatisticsConcurrentAccess(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.TrackAnalysis("https://example.com/page", 1, j%2 == 0)
				s.TrackVisitor("10.0.0.1")
				s.Snapshot(true)
			}
		}()
	}
	wg.Wait()

	snap := s.Snapshot(true)
	assert.Equal(t, 1000, snap.TotalRequests)
	assert.Equal(t, 50.0, snap.ErrorRate)
	assert.Equal(t, []PopularURL{{URL: "https://example.com/page", Count: 1000}}, snap.PopularURLs)
}
