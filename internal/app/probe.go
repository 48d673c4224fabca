package app

import (
	"context"
	"log/slog"

	backoff "github.com/cenkalti/backoff/v4"

	"github.com/novapeople/match-engine/internal/config"
	"github.com/novapeople/match-engine/internal/domain"
)

// ProbeInsight pings the insight service with exponential backoff at startup.
// The service is an optional collaborator, so exhausting the backoff is
// logged and tolerated; the numeric ranking pipeline starts regardless.
func ProbeInsight(ctx context.Context, cfg config.Config, provider domain.InsightProvider) {
	if provider == nil {
		return
	}
	maxElapsed, initial, maxInterval := cfg.ProbeBackoff()
	expo := backoff.NewExponentialBackOff()
	expo.MaxElapsedTime = maxElapsed
	expo.InitialInterval = initial
	expo.MaxInterval = maxInterval

	op := func() error { return provider.Health(ctx) }
	if err := backoff.Retry(op, backoff.WithContext(expo, ctx)); err != nil {
		slog.Warn("insight service unreachable at startup; enrichment will degrade to null insights",
			slog.String("base_url", cfg.InsightBaseURL),
			slog.Any("error", err))
		return
	}
	slog.Info("insight service reachable", slog.String("base_url", cfg.InsightBaseURL))
}
