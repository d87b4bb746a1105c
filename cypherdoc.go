// Package cypherdoc is the public API for embedding the cypher documentation
// toolchain in a host document tool.
//
// Hosts that drive their own document pipeline use the Extractor to rewrite
// tagged blocks at build time and the Runner to execute queries at request
// time, without shelling out to the CLI:
//
//	ex := cypherdoc.NewExtractor(
//	    cypherdoc.WithDefaultEndpoint(os.Getenv("CYPHERDOC_ENDPOINT")),
//	    cypherdoc.WithAssetRegistrar(myRegistrar),
//	)
//	published, err := ex.Process(block)
//
// The import graph enforces a strict no-cycle rule: cypherdoc (root) imports
// internal/*, but internal/* never imports the root. Public types (Block,
// Result, Stats) are standalone structs; conversion helpers live here because
// this is the only file that sees both sides of the boundary.
package cypherdoc

import (
	"context"

	"github.com/AdaWorldAPI/cypherdoc/internal/directive"
	"github.com/AdaWorldAPI/cypherdoc/internal/document"
	"github.com/AdaWorldAPI/cypherdoc/internal/render"
	"github.com/AdaWorldAPI/cypherdoc/internal/runner"
)

// Block is one fenced code region: raw source text plus the tag classes and
// key/value attributes the host document tool tracks for it.
type Block struct {
	Text    string
	Classes []string
	Attrs   map[string]string
}

// Result is a query execution result as returned by the remote service.
type Result struct {
	Columns []string
	Rows    []map[string]any
	Stats   *Stats
	Error   string
}

// Stats is the optional execution metadata attached to a Result. Nil fields
// were not reported by the service.
type Stats struct {
	NodesCreated         *int
	RelationshipsCreated *int
	PropertiesSet        *int
	ExecutionTimeMS      *float64
}

// Extractor rewrites tagged blocks into published form. One Extractor holds
// the state of one build pass; create a fresh one per build.
type Extractor struct {
	inner *document.Extractor
	bc    *document.BuildContext
}

// NewExtractor creates an Extractor with the state for a single build pass.
func NewExtractor(opts ...Option) *Extractor {
	o := applyOptions(opts)
	return &Extractor{
		inner: document.NewExtractor(document.Target(o.target), o.logger),
		bc:    document.NewBuildContext(o.registrar, o.defaultEndpoint),
	}
}

// Process transforms a single block. Non-cypher blocks, and all blocks when
// the publish target does not support embedded scripts, pass through
// unchanged. See the package documentation for the rewrite semantics.
func (e *Extractor) Process(b Block) (Block, error) {
	out, err := e.inner.Process(e.bc, document.Block{
		Text:    b.Text,
		Classes: b.Classes,
		Attrs:   b.Attrs,
	})
	if err != nil {
		return Block{}, err
	}
	return Block{Text: out.Text, Classes: out.Classes, Attrs: out.Attrs}, nil
}

// Runner executes queries against a remote graph-query service.
type Runner struct {
	inner *runner.Client
}

// NewRunner creates a query runner.
func NewRunner(opts ...Option) *Runner {
	o := applyOptions(opts)
	return &Runner{inner: runner.New(runner.Config{
		DefaultEndpoint: o.defaultEndpoint,
		Timeout:         o.timeout,
		HTTPClient:      o.httpClient,
		Logger:          o.logger,
	})}
}

// Run executes query text against the endpoint. An empty endpoint falls
// through the precedence chain (process default, then fallback address).
// A Result with a non-empty Error field is an application-level failure;
// a non-nil error is a transport-level one.
func (r *Runner) Run(ctx context.Context, endpoint, query string) (*Result, error) {
	res, err := r.inner.Run(ctx, endpoint, query)
	if err != nil {
		return nil, err
	}
	return toPublicResult(res), nil
}

// RenderHTML renders a Result as the HTML fragment shown in a block's result
// region: table plus optional statistics line, the empty-result notice, or
// the application-error box.
func RenderHTML(res *Result) string {
	return render.Fragment(toInternalResult(res))
}

// RenderErrorHTML renders a transport-level failure message as an HTML
// fragment, prefixed with the standard source label and escaped.
func RenderErrorHTML(msg string) string {
	return render.ErrorFragment(msg)
}

// ResolveEndpoint applies the endpoint precedence chain: block directive,
// then processDefault, then the hardcoded fallback address.
func ResolveEndpoint(fromDirective, processDefault string) string {
	return directive.ResolveEndpoint(fromDirective, processDefault)
}

func toPublicResult(res *runner.Result) *Result {
	if res == nil {
		return nil
	}
	out := &Result{
		Columns: res.Columns,
		Rows:    res.Rows,
		Error:   res.Error,
	}
	if res.Stats != nil {
		out.Stats = &Stats{
			NodesCreated:         res.Stats.NodesCreated,
			RelationshipsCreated: res.Stats.RelationshipsCreated,
			PropertiesSet:        res.Stats.PropertiesSet,
			ExecutionTimeMS:      res.Stats.ExecutionTimeMS,
		}
	}
	return out
}

func toInternalResult(res *Result) *runner.Result {
	if res == nil {
		return nil
	}
	out := &runner.Result{
		Columns: res.Columns,
		Rows:    res.Rows,
		Error:   res.Error,
	}
	if res.Stats != nil {
		out.Stats = &runner.Stats{
			NodesCreated:         res.Stats.NodesCreated,
			RelationshipsCreated: res.Stats.RelationshipsCreated,
			PropertiesSet:        res.Stats.PropertiesSet,
			ExecutionTimeMS:      res.Stats.ExecutionTimeMS,
		}
	}
	return out
}
