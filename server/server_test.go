package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seo-optimizer/seoaudit/analyzer"
	"github.com/seo-optimizer/seoaudit/middleware"
	"github.com/seo-optimizer/seoaudit/stats"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAuditor struct {
	report *analyzer.Report
	err    error
	urls   []string
}

func (f *fakeAuditor) Analyze(_ context.Context, url string) (*analyzer.Report, error) {
	f.urls = append(f.urls, url)
	return f.report, f.err
}

func newTestRouter(auditor Auditor, limiter *middleware.RateLimiter) (*gin.Engine, *stats.Statistics) {
	s := stats.New()
	return NewRouter(Deps{
		Auditor:    auditor,
		Statistics: s,
		Metrics:    stats.NewMetrics(),
		Limiter:    limiter,
		DevMode:    true,
	}), s
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(&fakeAuditor{}, nil)

	rec := do(r, http.MethodGet, "/api/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestAnalyzeReturnsReport(t *testing.T) {
	auditor := &fakeAuditor{report: &analyzer.Report{
		URL:        "https://example.com/",
		StatusCode: 200,
		Facts: analyzer.PageFacts{
			Title:    "Example",
			Indexing: analyzer.Noindex,
			Headings: map[int][]string{1: {"Home"}},
		},
	}}
	r, s := newTestRouter(auditor, nil)

	rec := do(r, http.MethodPost, "/api/analyze", `{"url":"https://example.com/"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	facts := body["facts"].(map[string]any)
	assert.Equal(t, "Example", facts["title"])
	assert.Equal(t, "Noindex", facts["indexing"])
	assert.Equal(t, []string{"https://example.com/"}, auditor.urls)
	assert.Equal(t, 1, s.Snapshot(false).TotalRequests)
}

func TestAnalyzeRejectsBadInput(t *testing.T) {
	auditor := &fakeAuditor{}
	r, _ := newTestRouter(auditor, nil)

	for _, body := range []string{`{}`, `not json`, `{"url":"ftp://example.com"}`} {
		rec := do(r, http.MethodPost, "/api/analyze", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
	assert.Empty(t, auditor.urls)
}

func TestAnalyzeFetchFailure(t *testing.T) {
	r, s := newTestRouter(&fakeAuditor{err: errors.New("dial tcp: no such host")}, nil)

	rec := do(r, http.MethodPost, "/api/analyze", `{"url":"https://unreachable.example"}`)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to analyze URL")
	assert.Equal(t, 100.0, s.ErrorRate())
}

func TestStatisticsAndMetrics(t *testing.T) {
	r, _ := newTestRouter(&fakeAuditor{report: &analyzer.Report{}}, nil)
	do(r, http.MethodPost, "/api/analyze", `{"url":"https://example.com/shop"}`)

	rec := do(r, http.MethodGet, "/api/statistics", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var snap stats.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, 1, snap.TotalRequests)
	assert.Equal(t, []stats.PopularURL{{URL: "https://example.com/shop", Count: 1}}, snap.PopularURLs)

	metrics := do(r, http.MethodGet, "/metrics", "")
	assert.Contains(t, metrics.Body.String(), `seoaudit_audits_total{outcome="success"} 1`)
}

func TestRateLimitApplies(t *testing.T) {
	r, _ := newTestRouter(&fakeAuditor{}, middleware.NewRateLimiter(0.001, 1))

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/health", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, http.MethodGet, "/api/health", "").Code)
}
