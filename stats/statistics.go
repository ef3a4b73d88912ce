// Package stats keeps in-memory usage statistics and Prometheus metrics for
// the audit API. Nothing is written to disk.
package stats

import (
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"
)

// Statistics represents the collected request statistics.
type Statistics struct {
	mutex            sync.RWMutex
	uniqueVisitors   map[string]time.Time // IP -> last visit
	analysisRequests int
	errorCount       int
	popularURLs      map[string]int
	totalLoadTime    float64
	now              func() time.Time
}

// PopularURL is one entry of the most-audited list.
type PopularURL struct {
	URL   string `json:"url"`
	Count int    `json:"count"`
}

// Snapshot is the read-only view returned by the statistics endpoint.
type Snapshot struct {
	UniqueVisitors24h int          `json:"uniqueVisitors24h"`
	TotalRequests     int          `json:"totalRequests"`
	ErrorRate         float64      `json:"errorRate"`
	AverageLoadTime   float64      `json:"averageLoadTime"`
	PopularURLs       []PopularURL `json:"popularUrls,omitempty"`
}

func New() *Statistics {
	return &Statistics{
		uniqueVisitors: make(map[string]time.Time),
		popularURLs:    make(map[string]int),
		now:            time.Now,
	}
}

// TrackVisitor records a visit from ip.
func (s *Statistics) TrackVisitor(ip string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.uniqueVisitors[ip] = s.now()
}

// cleanURL reduces an audited URL to scheme, host and path. Loopback hosts
// and API paths return "" and are not tracked.
func cleanURL(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil || u.Host == "" {
		return ""
	}

	if strings.Contains(u.Host, "localhost") ||
		strings.Contains(u.Host, "127.0.0.1") ||
		strings.Contains(strings.ToLower(u.Path), "/api/") {
		return ""
	}

	cleaned := u.Scheme + "://" + u.Host
	if u.Path != "" && u.Path != "/" {
		cleaned += u.Path
	}
	return strings.TrimSuffix(cleaned, "/")
}

// TrackAnalysis records one audit of target taking loadTime milliseconds.
func (s *Statistics) TrackAnalysis(target string, loadTime float64, hasError bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.analysisRequests++
	if cleaned := cleanURL(target); cleaned != "" {
		s.popularURLs[cleaned]++
	}
	if hasError {
		s.errorCount++
	}
	s.totalLoadTime += loadTime
}

// UniqueVisitors returns the number of distinct visitors in the last 24 hours.
func (s *Statistics) UniqueVisitors() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.uniqueVisitorsLocked()
}

func (s *Statistics) uniqueVisitorsLocked() int {
	cutoff := s.now().Add(-24 * time.Hour)
	count := 0
	for _, lastVisit := range s.uniqueVisitors {
		if lastVisit.After(cutoff) {
			count++
		}
	}
	return count
}

// PopularURLs returns the n most audited URLs, most frequent first. Equal
// counts are ordered by URL.
func (s *Statistics) PopularURLs(n int) []PopularURL {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.popularURLsLocked(n)
}

func (s *Statistics) popularURLsLocked(n int) []PopularURL {
	urls := make([]PopularURL, 0, len(s.popularURLs))
	for u, count := range s.popularURLs {
		urls = append(urls, PopularURL{URL: u, Count: count})
	}
	sort.Slice(urls, func(i, j int) bool {
		if urls[i].Count != urls[j].Count {
			return urls[i].Count > urls[j].Count
		}
		return urls[i].URL < urls[j].URL
	})
	if len(urls) > n {
		urls = urls[:n]
	}
	return urls
}

// ErrorRate returns failed audits as a percentage of all audits.
func (s *Statistics) ErrorRate() float64 {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.errorRateLocked()
}

func (s *Statistics) errorRateLocked() float64 {
	if s.analysisRequests == 0 {
		return 0
	}
	return float64(s.errorCount) / float64(s.analysisRequests) * 100
}

// Snapshot copies the current statistics. Popular URLs are only included
// when detailed is true.
func (s *Statistics) Snapshot(detailed bool) Snapshot {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	snap := Snapshot{
		UniqueVisitors24h: s.uniqueVisitorsLocked(),
		TotalRequests:     s.analysisRequests,
		ErrorRate:         s.errorRateLocked(),
	}
	if s.analysisRequests > 0 {
		snap.AverageLoadTime = s.totalLoadTime / float64(s.analysisRequests)
	}
	if detailed {
		snap.PopularURLs = s.popularURLsLocked(5)
	}
	return snap
}
