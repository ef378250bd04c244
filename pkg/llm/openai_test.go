package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIGenerate(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"route\":\"news_analysis\"}"}}]}`))
	}))
	defer srv.Close()

	client, err := NewOpenAI(OpenAIConfig{
		APIKey:  "test-key",
		Model:   "gpt-4o-mini",
		BaseURL: srv.URL,
	})
	require.NoError(t, err)

	schema := map[string]any{
		"type":       "object",
		"properties": map[string]any{"route": map[string]any{"type": "string"}},
	}

	out, err := client.Generate(context.Background(), &Request{
		System:     "classify the query",
		User:       "latest Apple headlines",
		SchemaName: "route_decision",
		Schema:     schema,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"route":"news_analysis"}`, out)

	assert.Equal(t, "gpt-4o-mini", captured["model"])
	rf, ok := captured["response_format"].(map[string]any)
	require.True(t, ok, "response_format missing")
	assert.Equal(t, "json_schema", rf["type"])
	js := rf["json_schema"].(map[string]any)
	assert.Equal(t, "route_decision", js["name"])
	assert.Equal(t, true, js["strict"])
}

func TestOpenAIGenerateAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"error":{"message":"model overloaded","type":"server_error"}}`))
	}))
	defer srv.Close()

	client, err := NewOpenAI(OpenAIConfig{APIKey: "k", Model: "m", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), &Request{System: "s", User: "u"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model overloaded")
}

func TestNewOpenAIValidation(t *testing.T) {
	_, err := NewOpenAI(OpenAIConfig{Model: "m"})
	assert.Error(t, err)

	_, err = NewOpenAI(OpenAIConfig{APIKey: "k"})
	assert.Error(t, err)
}

func TestSchemaFor(t *testing.T) {
	type decision struct {
		Route string `json:"route" jsonschema:"enum=news_analysis,enum=stock_analysis"`
	}

	schema, err := SchemaFor(&decision{})
	require.NoError(t, err)

	assert.Equal(t, "object", schema["type"])
	assert.NotContains(t, schema, "$schema")

	props := schema["properties"].(map[string]any)
	route := props["route"].(map[string]any)
	assert.Equal(t, "string", route["type"])
	assert.Len(t, route["enum"], 2)
}
