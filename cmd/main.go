// Command main runs the stub prediction backend: the dashboard pages plus
// canned answers for the fact, prediction, advice and statistics endpoints.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/riskboard/internal/adapters/http/api"
	"github.com/okian/riskboard/internal/config"
	"github.com/okian/riskboard/pkg/logger"
	"github.com/okian/riskboard/pkg/metrics"
)

// HTTP server timeout constants. Advice answers can be slow on a real
// backend, so writes get more room than reads.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 60 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	processMetricsInterval    = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	fx, err := api.LoadFixtures(cfg.FixturesPath)
	if err != nil {
		log.Error(ctx, "failed to load fixtures", logger.String("path", cfg.FixturesPath), logger.Error(err))
		os.Exit(1)
	}

	go startProcessMetricsUpdater(ctx)

	srv := newHTTPServer(ctx, cfg.Addr, api.NewServer(fx, api.WithLogger(logger.Named("api"))))

	go func() {
		log.Info(ctx, "starting stub backend",
			logger.String("addr", cfg.Addr),
			logger.Int("facts", len(fx.Facts)),
			logger.Int("stats_attributes", len(fx.Stats)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// newHTTPServer wraps the stub routes in a server with bounded timeouts.
func newHTTPServer(ctx context.Context, addr string, s *api.Server) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.Routes(ctx),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

// startProcessMetricsUpdater samples runtime statistics until ctx ends.
func startProcessMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(processMetricsInterval)
	defer ticker.Stop()

	updateProcessMetrics()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateProcessMetrics()
		}
	}
}

func updateProcessMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateMemoryUsage(m.Alloc)
	metrics.UpdateGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordGCPauseTime(avgPauseMs)
	}
}
