package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/snippet-engine/internal/config"
	"github.com/sevigo/snippet-engine/internal/core"
	"github.com/sevigo/snippet-engine/internal/engine"
	"github.com/sevigo/snippet-engine/internal/engine/printscript"
	"github.com/sevigo/snippet-engine/internal/metrics"
	"github.com/sevigo/snippet-engine/internal/pipeline"
)

func newTestRouter(t *testing.T) (http.Handler, *metrics.Metrics) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := engine.NewRegistry()
	printscript.Register(registry)
	m := metrics.New()
	svc := pipeline.NewService(registry, pipeline.NewDriver(pipeline.DefaultBatchSize), m, log)
	return NewRouter(svc, m, log), m
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Health(t *testing.T) {
	h, _ := newTestRouter(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestRouter_Parse(t *testing.T) {
	h, _ := newTestRouter(t)

	tests := []struct {
		name string
		body string
		code int
		want core.ResultType
	}{
		{"valid", `{"snippetContent":"let x: number = 1;","version":"1.0"}`, http.StatusOK, core.ResultSuccess},
		{"syntax error", `{"snippetContent":"let = ;","version":"1.0"}`, http.StatusOK, core.ResultFailure},
		{"const needs 1.1", `{"snippetContent":"const x: number = 1;","version":"1.0"}`, http.StatusOK, core.ResultFailure},
		{"unknown version", `{"snippetContent":"println(1);","version":"3.0"}`, http.StatusBadRequest, core.ResultFailure},
		{"broken json", `{"snippetContent":`, http.StatusBadRequest, core.ResultFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, h, "/snippet/parse", tt.body)
			require.Equal(t, tt.code, rec.Code)

			var resp core.ParseSnippetResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.want, resp.ResultType)
		})
	}
}

func TestRouter_Interpret(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := post(t, h, "/snippet/interpret",
		`{"snippetContent":"let name: string = readInput(\"name?\"); println(\"hi \" + name);","version":"1.1","inputs":["ada"]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp core.InterpretSnippetResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, core.ResultSuccess, resp.ResultType)
	assert.Equal(t, []string{"hi ada"}, resp.Results)
}

func TestRouter_InterpretFailureHasEmptyResults(t *testing.T) {
	h, _ := newTestRouter(t)

	for _, body := range []string{
		`{"snippetContent":"println(1); println(missing);","version":"1.0"}`,
		`{"snippetContent":"println(1);","version":"0.9"}`,
	} {
		rec := post(t, h, "/snippet/interpret", body)
		assert.JSONEq(t, `{"results":[],"resultType":"FAILURE"}`, rec.Body.String())
	}
}

func TestRouter_InterpretWithoutOutput(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := post(t, h, "/snippet/interpret", `{"snippetContent":"let x: number = 1;","version":"1.0"}`)
	assert.JSONEq(t, `{"results":[],"resultType":"SUCCESS"}`, rec.Body.String())
}

func TestRouter_Lint(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := post(t, h, "/snippet/lint", `{
		"snippetContent":"let my_var: number = 1;\nprintln(my_var + 1);",
		"version":"1.0",
		"userRules":[{"ruleName":"identifier_format","value":"camel case"},{"ruleName":"println_arguments"}],
		"allRules":["identifier_format","println_arguments"]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp core.LintSnippetResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, core.ResultSuccess, resp.ResultType)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, core.LintResult{Message: "identifier 'my_var' does not match camel case", Line: 1, Column: 5}, resp.Results[0])
	assert.Equal(t, 2, resp.Results[1].Line)
}

func TestRouter_LintCleanSnippet(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := post(t, h, "/snippet/lint", `{"snippetContent":"println(1);","version":"1.0","userRules":[],"allRules":[]}`)
	assert.JSONEq(t, `{"results":[],"resultType":"SUCCESS"}`, rec.Body.String())
}

func TestRouter_Format(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := post(t, h, "/snippet/format", `{"snippetContent":"let x:number=1;","version":"1.0","userRules":[],"allRules":[]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp core.FormatSnippetResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, core.ResultSuccess, resp.ResultType)
	assert.Equal(t, "let x: number = 1;", resp.Formatted)
}

func TestRouter_Metrics(t *testing.T) {
	h, _ := newTestRouter(t)
	post(t, h, "/snippet/parse", `{"snippetContent":"println(1);","version":"1.0"}`)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "snippet_engine_pipeline_runs_total")
}

func TestRouter_CorrelationHeader(t *testing.T) {
	h, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Correlation-ID", "corr-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "corr-1", rec.Header().Get("X-Correlation-ID"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.NotEmpty(t, rec.Header().Get("X-Correlation-ID"))
}

func TestServer_StopBeforeStart(t *testing.T) {
	cfg := &config.Config{Server: config.ServerConfig{Port: "0"}}
	s := NewServer(cfg, nil, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, s.Stop())
	assert.NoError(t, s.Start())
}
