// Package insight implements the HTTP client for the external reasoning
// service that attaches qualitative commentary to computed matches.
package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/novapeople/match-engine/internal/adapter/observability"
	"github.com/novapeople/match-engine/internal/config"
	"github.com/novapeople/match-engine/internal/domain"
)

// maxInsightBody caps how much commentary we accept from the service.
const maxInsightBody = 1 << 20

// CallState models the lifecycle of one enrichment call:
// Idle -> Requesting -> {Succeeded, Failed, TimedOut}.
// Failed and TimedOut are terminal but non-fatal; callers degrade to a nil
// insight instead of propagating.
type CallState int

// Call states, in lifecycle order.
const (
	StateIdle CallState = iota
	StateRequesting
	StateSucceeded
	StateFailed
	StateTimedOut
)

// String returns the metric/log label for the state. The mapping is
// exhaustive; anything unrecognized is a programmer error and reads "unknown".
func (s CallState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRequesting:
		return "requesting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	case StateTimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

// Client implements domain.InsightProvider against the reasoning service's
// /ai/match endpoint. Construct once and reuse; there is no hidden
// process-wide instance.
type Client struct {
	baseURL string
	hc      *http.Client
}

// New constructs a Client. The per-call timeout comes from configuration and
// the transport is traced so enrichment shows up in request traces.
func New(cfg config.Config) *Client {
	return &Client{
		baseURL: cfg.InsightBaseURL,
		hc: &http.Client{
			Timeout:   cfg.InsightTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Comment posts the computed match to the reasoning service and returns the
// response body verbatim. The service only comments on the score; it never
// recomputes it. Timeouts, connection failures and non-2xx responses map to
// domain sentinels and the caller attaches no insight.
func (c *Client) Comment(ctx context.Context, req domain.InsightRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("%w: marshal insight request: %v", domain.ErrInternal, err)
	}

	callID := uuid.NewString()
	state := StateRequesting
	start := time.Now()
	defer func() {
		observability.ObserveInsight(state.String(), time.Since(start))
	}()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/ai/match", bytes.NewReader(body))
	if err != nil {
		state = StateFailed
		return "", fmt.Errorf("%w: build insight request: %v", domain.ErrInternal, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Call-Id", callID)

	resp, err := c.hc.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			state = StateTimedOut
			return "", fmt.Errorf("%w: insight call %s: %v", domain.ErrUpstreamTimeout, callID, err)
		}
		state = StateFailed
		return "", fmt.Errorf("%w: insight call %s: %v", domain.ErrUpstreamUnavailable, callID, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		state = StateFailed
		snippet := readSnippet(resp.Body, 512)
		slog.Debug("insight service returned non-success",
			slog.String("call_id", callID),
			slog.Int("status", resp.StatusCode),
			slog.String("body", snippet))
		return "", fmt.Errorf("%w: insight call %s: status %d", domain.ErrUpstreamUnavailable, callID, resp.StatusCode)
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxInsightBody))
	if err != nil {
		state = StateFailed
		return "", fmt.Errorf("%w: read insight response: %v", domain.ErrUpstreamUnavailable, err)
	}

	state = StateSucceeded
	return string(payload), nil
}

// Health probes the reasoning service health endpoint.
func (c *Client) Health(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("%w: build health request: %v", domain.ErrInternal, err)
	}
	resp, err := c.hc.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: insight health: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: insight health: status %d", domain.ErrUpstreamUnavailable, resp.StatusCode)
	}
	return nil
}

func isTimeout(err error) bool {
	var ne interface{ Timeout() bool }
	return errors.As(err, &ne) && ne.Timeout()
}

// readSnippet reads up to n bytes from r for log context.
func readSnippet(r io.Reader, n int) string {
	if r == nil || n <= 0 {
		return ""
	}
	buf, _ := io.ReadAll(io.LimitReader(r, int64(n)))
	return string(buf)
}
