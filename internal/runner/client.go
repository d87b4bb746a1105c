// Package runner executes cypher queries against a remote graph-query service
// with a bounded execution window.
package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/AdaWorldAPI/cypherdoc/internal/directive"
	"github.com/AdaWorldAPI/cypherdoc/internal/telemetry"
)

// QueryPath is the execution route relative to a block's endpoint.
const QueryPath = "/api/v1/cypher"

// DefaultTimeout bounds a single query execution when no override is set.
const DefaultTimeout = 10 * time.Second

var tracer = otel.Tracer("cypherdoc/runner")

// Client submits queries to a remote graph-query service. All methods are
// safe for concurrent use; in-flight queries share nothing but the transport.
type Client struct {
	httpClient      *http.Client
	timeout         time.Duration
	defaultEndpoint string
	logger          *slog.Logger

	queryCount    metric.Int64Counter
	queryDuration metric.Float64Histogram
}

// Config holds the settings needed to construct a Client.
type Config struct {
	// DefaultEndpoint is the process-wide endpoint tier, consulted when a
	// call passes no per-block endpoint. May be empty; the hardcoded
	// fallback address is the final tier.
	DefaultEndpoint string

	// Timeout bounds each execution. Defaults to DefaultTimeout.
	Timeout time.Duration

	// HTTPClient is an optional custom transport. If nil, a dedicated
	// client is used. Per-request timeouts come from the derived context,
	// so the transfer itself is abandoned when the window closes.
	HTTPClient *http.Client

	Logger *slog.Logger
}

// New creates a query execution client.
func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	meter := telemetry.Meter("cypherdoc/runner")
	count, _ := meter.Int64Counter("cypherdoc.query.count",
		metric.WithDescription("Queries executed"),
	)
	duration, _ := meter.Float64Histogram("cypherdoc.query.duration",
		metric.WithDescription("Query execution time (ms)"),
		metric.WithUnit("ms"),
	)

	return &Client{
		httpClient:      httpClient,
		timeout:         timeout,
		defaultEndpoint: cfg.DefaultEndpoint,
		logger:          logger,
		queryCount:      count,
		queryDuration:   duration,
	}
}

// Timeout returns the execution window applied to each query.
func (c *Client) Timeout() time.Duration { return c.timeout }

// Run submits query text verbatim to the endpoint's execution route and
// decodes the response. endpoint may be empty, in which case the precedence
// chain falls through to the process default and then the fallback address.
//
// A single attempt is made. The request is bounded by the client timeout via
// a derived context, so a response arriving after the window closes is
// discarded along with the underlying transfer. The returned error covers
// transport failures, timeouts, non-success statuses, and undecodable
// bodies; an application-level failure arrives as a Result with a non-empty
// Error field and a nil error.
func (c *Client) Run(ctx context.Context, endpoint, query string) (*Result, error) {
	endpoint = directive.ResolveEndpoint(endpoint, c.defaultEndpoint)
	url := strings.TrimRight(endpoint, "/") + QueryPath

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ctx, span := tracer.Start(ctx, "runner.Run",
		trace.WithAttributes(attribute.String("cypherdoc.endpoint", endpoint)),
	)
	defer span.End()

	start := time.Now()
	result, err := c.submit(ctx, url, query)
	elapsed := time.Since(start)

	status := "ok"
	switch {
	case err != nil:
		status = "error"
	case result.Error != "":
		status = "application_error"
	}
	attrs := metric.WithAttributes(
		attribute.String("cypherdoc.endpoint", endpoint),
		attribute.String("cypherdoc.status", status),
	)
	c.queryCount.Add(ctx, 1, attrs)
	c.queryDuration.Record(ctx, float64(elapsed.Milliseconds()), attrs)

	if err != nil {
		c.logger.Warn("query failed", "endpoint", endpoint, "duration_ms", elapsed.Milliseconds(), "error", err)
		return nil, err
	}
	c.logger.Debug("query executed", "endpoint", endpoint, "duration_ms", elapsed.Milliseconds(), "rows", len(result.Rows))
	return result, nil
}

func (c *Client) submit(ctx context.Context, url, query string) (*Result, error) {
	body, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, fmt.Errorf("runner: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("runner: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("runner: timeout after %s", c.timeout)
		}
		return nil, fmt.Errorf("runner: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, statusText(resp))
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("runner: timeout after %s", c.timeout)
		}
		return nil, fmt.Errorf("runner: decode response: %w", err)
	}
	return &result, nil
}

// statusText reports the reason phrase the remote actually sent, falling back
// to the canonical text when the status line carried none.
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}
