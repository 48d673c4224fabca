// Command server starts the candidate-job matching engine HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/novapeople/match-engine/internal/adapter/insight"
	"github.com/novapeople/match-engine/internal/adapter/observability"
	"github.com/novapeople/match-engine/internal/app"
	"github.com/novapeople/match-engine/internal/config"
	"github.com/novapeople/match-engine/internal/domain"
	"github.com/novapeople/match-engine/internal/match"

	httpserver "github.com/novapeople/match-engine/internal/adapter/httpserver"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	observability.InitMetrics()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	ctx := context.Background()

	// Insight enrichment client: explicitly constructed, passed down, no
	// hidden process-wide instance. Optional by configuration.
	var provider domain.InsightProvider
	var insightCheck func(context.Context) error
	if cfg.InsightEnabled {
		cli := insight.New(cfg)
		provider = cli
		insightCheck = cli.Health
		go app.ProbeInsight(ctx, cfg, cli)
	} else {
		slog.Info("insight enrichment disabled by configuration")
	}

	ranker := match.NewRanker(match.NewCalculator(), provider, match.RankerOptions{
		ScoreConcurrency:  cfg.ScoreConcurrency,
		EnrichConcurrency: cfg.InsightConcurrency,
		EnrichTimeout:     cfg.InsightTimeout,
	})

	srv := httpserver.NewServer(cfg, ranker, insightCheck)
	handler := app.BuildRouter(cfg, srv)

	srvHTTP := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", slog.Int("port", cfg.Port))
		errCh <- srvHTTP.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	_ = srvHTTP.Shutdown(shutdownCtx)
}
