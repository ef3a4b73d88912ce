package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/seo-optimizer/seoaudit/analyzer"
	"github.com/seo-optimizer/seoaudit/middleware"
	"github.com/seo-optimizer/seoaudit/server"
	"github.com/seo-optimizer/seoaudit/stats"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve audits over HTTP",
		Long: `serve starts a JSON API: POST /api/analyze audits the URL in the
request body, GET /api/statistics and GET /metrics report usage.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	rt, err := runtimeFrom(cmd.Context())
	if err != nil {
		return err
	}
	cfg := rt.cfg.Server
	gin.SetMode(cfg.GinMode)

	router := server.NewRouter(server.Deps{
		Auditor:    analyzer.New(rt.cfg.Analyzer, rt.logger),
		Statistics: stats.New(),
		Metrics:    stats.NewMetrics(),
		Limiter:    middleware.NewRateLimiter(cfg.RatePerSecond, cfg.Burst),
		Logger:     rt.logger,
		DevMode:    cfg.DevMode,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		rt.logger.Info("server starting", zap.String("addr", "http://localhost:"+cfg.Port))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	rt.logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
