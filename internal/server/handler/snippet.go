// Package handler provides the HTTP handlers of the snippet engine.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/sevigo/snippet-engine/internal/core"
	"github.com/sevigo/snippet-engine/internal/engine"
	"github.com/sevigo/snippet-engine/internal/logger"
)

const maxBodyBytes = 1 << 20

// Pipeline runs snippet operations. It is satisfied by *pipeline.Service.
type Pipeline interface {
	Parse(ctx context.Context, version core.Version, content string) error
	Lint(ctx context.Context, version core.Version, content string, cfg engine.LintConfig) ([]core.LintResult, error)
	Format(ctx context.Context, version core.Version, content string, cfg engine.FormatConfig) (string, error)
	Interpret(ctx context.Context, version core.Version, content string, input engine.InputProvider) ([]string, error)
}

// SnippetHandler serves the synchronous snippet operations.
type SnippetHandler struct {
	pipeline Pipeline
	logger   *slog.Logger
}

// NewSnippetHandler creates a SnippetHandler.
func NewSnippetHandler(p Pipeline, logger *slog.Logger) *SnippetHandler {
	return &SnippetHandler{pipeline: p, logger: logger}
}

// Parse checks that a snippet parses.
func (h *SnippetHandler) Parse(w http.ResponseWriter, r *http.Request) {
	var req core.ParseSnippetRequest
	version, log, ok := h.decode(w, r, &req, &req.Version, core.ParseSnippetResponse{ResultType: core.ResultFailure})
	if !ok {
		return
	}

	resp := core.ParseSnippetResponse{ResultType: core.ResultSuccess}
	if err := h.pipeline.Parse(r.Context(), version, req.SnippetContent); err != nil {
		log.Info("snippet does not parse", "error", err)
		resp.ResultType = core.ResultFailure
	}
	writeJSON(w, http.StatusOK, resp)
}

// Interpret runs a snippet against the scripted inputs and returns what it
// printed. A failed run returns no output at all.
func (h *SnippetHandler) Interpret(w http.ResponseWriter, r *http.Request) {
	var req core.InterpretSnippetRequest
	failure := core.InterpretSnippetResponse{Results: []string{}, ResultType: core.ResultFailure}
	version, log, ok := h.decode(w, r, &req, &req.Version, failure)
	if !ok {
		return
	}

	out, err := h.pipeline.Interpret(r.Context(), version, req.SnippetContent, engine.NewScriptedInput(req.Inputs))
	if err != nil {
		log.Info("snippet interpretation failed", "kind", core.Classify(err), "error", err)
		writeJSON(w, http.StatusOK, failure)
		return
	}
	if out == nil {
		out = []string{}
	}
	writeJSON(w, http.StatusOK, core.InterpretSnippetResponse{Results: out, ResultType: core.ResultSuccess})
}

// Lint returns the rule violations of a snippet.
func (h *SnippetHandler) Lint(w http.ResponseWriter, r *http.Request) {
	var req core.LintSnippetRequest
	failure := core.LintSnippetResponse{Results: []core.LintResult{}, ResultType: core.ResultFailure}
	version, log, ok := h.decode(w, r, &req, &req.Version, failure)
	if !ok {
		return
	}

	cfg := engine.LintConfigFromRules(req.UserRules, req.AllRules)
	results, err := h.pipeline.Lint(r.Context(), version, req.SnippetContent, cfg)
	if err != nil {
		log.Info("snippet lint failed", "kind", core.Classify(err), "error", err)
		writeJSON(w, http.StatusOK, failure)
		return
	}
	writeJSON(w, http.StatusOK, core.LintSnippetResponse{Results: results, ResultType: core.ResultSuccess})
}

// Format returns the formatted snippet.
func (h *SnippetHandler) Format(w http.ResponseWriter, r *http.Request) {
	var req core.FormatSnippetRequest
	failure := core.FormatSnippetResponse{ResultType: core.ResultFailure}
	version, log, ok := h.decode(w, r, &req, &req.Version, failure)
	if !ok {
		return
	}

	cfg := engine.FormatConfigFromRules(req.UserRules, req.AllRules)
	formatted, err := h.pipeline.Format(r.Context(), version, req.SnippetContent, cfg)
	if err != nil {
		log.Info("snippet format failed", "kind", core.Classify(err), "error", err)
		writeJSON(w, http.StatusOK, failure)
		return
	}
	writeJSON(w, http.StatusOK, core.FormatSnippetResponse{Formatted: formatted, ResultType: core.ResultSuccess})
}

// decode reads the JSON body into req and resolves the requested version. On
// failure it writes a 400 carrying failure and returns ok=false.
func (h *SnippetHandler) decode(w http.ResponseWriter, r *http.Request, req any, version *string, failure any) (core.Version, *slog.Logger, bool) {
	log := logger.FromContext(r.Context(), h.logger).With("path", r.URL.Path)
	if id := middleware.GetReqID(r.Context()); id != "" {
		log = log.With("request_id", id)
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(req); err != nil {
		log.Warn("invalid request body", "error", err)
		writeJSON(w, http.StatusBadRequest, failure)
		return "", nil, false
	}

	v, err := core.ParseVersion(*version)
	if err != nil {
		log.Warn("invalid request", "error", err)
		writeJSON(w, http.StatusBadRequest, failure)
		return "", nil, false
	}
	return v, log.With("version", v), true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
