package stats

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seo-optimizer/seoaudit/analyzer"
)

func TestMetricsObserveReport(t *testing.T) {
	m := NewMetrics()
	size := int64(100)
	m.ObserveReport(&analyzer.Report{
		Duration: 1500 * time.Millisecond,
		Links:    []analyzer.LinkRecord{{URL: "https://example.com/a"}},
		Images: []analyzer.ImageRecord{
			{SourceURL: "https://example.com/a.png", SizeBytes: &size, Verdict: analyzer.VerdictOptimized},
			{SourceURL: "https://example.com/b.png", Verdict: analyzer.VerdictUnknown},
		},
	})
	m.ObserveFailure()
	m.ObserveFailure()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.audits.WithLabelValues("success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.audits.WithLabelValues("failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.images.WithLabelValues("Optimized")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.images.WithLabelValues("Unknown")))
}

func TestMetricsHandler(t *testing.T) {
	m := NewMetrics()
	m.ObserveFailure()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `seoaudit_audits_total{outcome="failure"} 1`)
}
