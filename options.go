package cypherdoc

import (
	"log/slog"
	"net/http"
	"time"
)

// AssetRegistrar is the collaborator the build pass asks — exactly once — to
// attach the companion script and stylesheet to the output document.
type AssetRegistrar interface {
	RegisterScript(name string, content []byte) error
	RegisterStylesheet(name string, content []byte) error
}

// Option configures an Extractor or Runner.
type Option func(*resolvedOptions)

// resolvedOptions holds all extension points after applying defaults.
// Unexported — callers use the With* functions.
type resolvedOptions struct {
	target          string
	defaultEndpoint string
	timeout         time.Duration
	httpClient      *http.Client
	logger          *slog.Logger
	registrar       AssetRegistrar
}

func applyOptions(opts []Option) resolvedOptions {
	o := resolvedOptions{target: "html"}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithTarget sets the publishing target. Blocks are only rewritten when the
// target is "html"; any other value makes the extractor a pass-through.
func WithTarget(target string) Option {
	return func(o *resolvedOptions) { o.target = target }
}

// WithDefaultEndpoint sets the process-wide endpoint tier of the resolution
// chain (usually the CYPHERDOC_ENDPOINT environment variable).
func WithDefaultEndpoint(endpoint string) Option {
	return func(o *resolvedOptions) { o.defaultEndpoint = endpoint }
}

// WithTimeout bounds each query execution. Defaults to 10 seconds.
func WithTimeout(d time.Duration) Option {
	return func(o *resolvedOptions) { o.timeout = d }
}

// WithHTTPClient sets a custom transport for the Runner.
func WithHTTPClient(c *http.Client) Option {
	return func(o *resolvedOptions) { o.httpClient = c }
}

// WithLogger sets the structured logger. If not set, the default slog
// logger is used.
func WithLogger(logger *slog.Logger) Option {
	return func(o *resolvedOptions) { o.logger = logger }
}

// WithAssetRegistrar sets the collaborator that receives the one-time asset
// registration. If not set, registration is a no-op (the host attaches the
// assets itself).
func WithAssetRegistrar(r AssetRegistrar) Option {
	return func(o *resolvedOptions) { o.registrar = r }
}
