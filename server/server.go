// Package server exposes the audit pipeline over HTTP with gin.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/seo-optimizer/seoaudit/analyzer"
	"github.com/seo-optimizer/seoaudit/middleware"
	"github.com/seo-optimizer/seoaudit/stats"
)

// Auditor runs a single page audit.
type Auditor interface {
	Analyze(ctx context.Context, url string) (*analyzer.Report, error)
}

// Deps carries everything the router needs.
type Deps struct {
	Auditor    Auditor
	Statistics *stats.Statistics
	Metrics    *stats.Metrics
	Limiter    *middleware.RateLimiter
	Logger     *zap.Logger
	// DevMode adds popular URLs to the statistics response.
	DevMode bool
}

type analyzeRequest struct {
	URL string `json:"url" binding:"required"`
}

type handler struct {
	Deps
}

// NewRouter builds the gin engine with middleware and API routes.
func NewRouter(d Deps) *gin.Engine {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	h := &handler{Deps: d}

	r := gin.New()
	r.Use(middleware.ErrorHandler(d.Logger))
	if d.Limiter != nil {
		r.Use(d.Limiter.RateLimit())
	}
	r.Use(middleware.CORS())
	r.Use(middleware.TrackVisitors(d.Statistics))

	api := r.Group("/api")
	{
		api.GET("/health", h.health)
		api.POST("/analyze", h.analyze)
		api.GET("/statistics", h.statistics)
	}
	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	return r
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *handler) analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid URL provided"})
		return
	}
	if _, err := analyzer.ParseTarget(req.URL); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid URL provided"})
		return
	}

	start := time.Now()
	report, err := h.Auditor.Analyze(c.Request.Context(), req.URL)
	elapsed := float64(time.Since(start).Milliseconds())
	h.Statistics.TrackAnalysis(req.URL, elapsed, err != nil)

	if err != nil {
		h.Metrics.ObserveFailure()
		h.Logger.Warn("audit failed", zap.String("url", req.URL), zap.Error(err))
		status := http.StatusBadGateway
		if errors.Is(err, analyzer.ErrInvalidURL) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": "Failed to analyze URL: " + err.Error()})
		return
	}

	h.Metrics.ObserveReport(report)
	c.JSON(http.StatusOK, report)
}

func (h *handler) statistics(c *gin.Context) {
	c.JSON(http.StatusOK, h.Statistics.Snapshot(h.DevMode))
}
