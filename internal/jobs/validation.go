package jobs

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/sevigo/snippet-engine/internal/core"
)

//go:embed schemas/*.json
var schemaFS embed.FS

var (
	lintRequestSchema   = mustLoadSchema("schemas/lint_request.json")
	formatRequestSchema = mustLoadSchema("schemas/format_request.json")
)

func mustLoadSchema(name string) *gojsonschema.Schema {
	data, err := schemaFS.ReadFile(name)
	if err != nil {
		panic(fmt.Sprintf("missing embedded schema %s: %v", name, err))
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		panic(fmt.Sprintf("invalid embedded schema %s: %v", name, err))
	}
	return schema
}

// decodePayload validates payload against schema and unmarshals it into v.
// Every failure is reported as core.ErrMalformedMessage.
func decodePayload(schema *gojsonschema.Schema, payload []byte, v any) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(payload))
	if err != nil {
		return fmt.Errorf("%w: payload is not valid JSON: %w", core.ErrMalformedMessage, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("%w: %s", core.ErrMalformedMessage, strings.Join(msgs, "; "))
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("%w: %w", core.ErrMalformedMessage, err)
	}
	return nil
}

// DecodeLintRequest parses and validates a lint work item.
func DecodeLintRequest(payload []byte) (*core.LintRequest, core.Version, error) {
	var req core.LintRequest
	if err := decodePayload(lintRequestSchema, payload, &req); err != nil {
		return nil, "", err
	}
	version, err := req.Validate()
	if err != nil {
		return nil, "", err
	}
	return &req, version, nil
}

// DecodeFormatRequest parses and validates a format work item.
func DecodeFormatRequest(payload []byte) (*core.FormatRequest, core.Version, error) {
	var req core.FormatRequest
	if err := decodePayload(formatRequestSchema, payload, &req); err != nil {
		return nil, "", err
	}
	version, err := req.Validate()
	if err != nil {
		return nil, "", err
	}
	return &req, version, nil
}
