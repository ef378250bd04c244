// Package llm provides the classification client used by the router and
// the entity extractor. Both make a single structured-output call per
// request; the response is JSON matching a schema reflected from a Go
// struct.
package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// Request describes one structured-output generation call.
type Request struct {
	// System is the system instruction (classification rules, exemplars).
	System string

	// User is the text being classified.
	User string

	// SchemaName identifies the response schema for providers that
	// require a name.
	SchemaName string

	// Schema is the JSON schema the response must satisfy.
	Schema map[string]any
}

// Client generates structured JSON responses. Implementations are safe
// for concurrent use.
type Client interface {
	// Name returns the provider identifier.
	Name() string

	// Generate runs one completion and returns the raw JSON text.
	Generate(ctx context.Context, req *Request) (string, error)

	// Close releases underlying resources.
	Close() error
}

// SchemaFor reflects a JSON schema from a Go struct type, inlined and
// with additional properties disallowed, as strict structured-output
// modes require.
func SchemaFor(v any) (map[string]any, error) {
	reflector := jsonschema.Reflector{
		DoNotReference:            true,
		AllowAdditionalProperties: false,
	}

	schema := reflector.Reflect(v)
	data, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to encode schema: %w", err)
	}

	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to decode schema: %w", err)
	}

	// Strict mode rejects schema metadata keys.
	delete(out, "$schema")
	delete(out, "$id")

	return out, nil
}
