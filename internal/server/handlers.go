package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/AdaWorldAPI/cypherdoc/internal/render"
	"github.com/AdaWorldAPI/cypherdoc/internal/runner"
)

// Handlers holds the dependencies of the HTTP handlers.
type Handlers struct {
	runner              *runner.Client
	logger              *slog.Logger
	version             string
	maxRequestBodyBytes int64
}

// runRequest is the body the embedded page script posts: the block's query
// text verbatim plus its resolved endpoint attribute (may be empty, in which
// case the runner's precedence chain applies).
type runRequest struct {
	Query    string `json:"query"`
	Endpoint string `json:"endpoint"`
}

// HandleRun executes one query and responds with the rendered HTML fragment
// for the block's result region. Every failure mode still yields a fragment:
// errors are local to the triggering block, never fatal to the page.
func (h *Handlers) HandleRun(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxRequestBodyBytes)

	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFragment(w, render.ErrorFragment("invalid request body"))
		return
	}

	result, err := h.runner.Run(r.Context(), req.Endpoint, req.Query)
	if err != nil {
		h.logger.Warn("run failed",
			"request_id", RequestIDFromContext(r.Context()),
			"error", err,
		)
		writeFragment(w, render.ErrorFragment(err.Error()))
		return
	}
	writeFragment(w, render.Fragment(result))
}

// HandleHealth reports liveness.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"version": h.version,
	})
}

func writeFragment(w http.ResponseWriter, fragment string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(fragment))
}
