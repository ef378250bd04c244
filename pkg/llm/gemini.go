package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiConfig configures the Gemini classification client.
type GeminiConfig struct {
	APIKey      string
	Model       string
	Temperature *float64
}

// GeminiClient implements Client using the official genai SDK.
type GeminiClient struct {
	client *genai.Client
	config GeminiConfig
}

// NewGemini creates a Gemini classification client.
func NewGemini(cfg GeminiConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiClient{client: client, config: cfg}, nil
}

func (c *GeminiClient) Name() string {
	return "gemini"
}

func (c *GeminiClient) Generate(ctx context.Context, req *Request) (string, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: req.System}},
		},
	}
	if c.config.Temperature != nil {
		config.Temperature = genai.Ptr(float32(*c.config.Temperature))
	}
	if req.Schema != nil {
		config.ResponseMIMEType = "application/json"
		config.ResponseSchema = toGenaiSchema(req.Schema)
	}

	contents := []*genai.Content{
		{Role: "user", Parts: []*genai.Part{{Text: req.User}}},
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.config.Model, contents, config)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		text += part.Text
	}
	if text == "" {
		return "", fmt.Errorf("gemini returned empty content")
	}
	return text, nil
}

func (c *GeminiClient) Close() error {
	return nil
}

// toGenaiSchema converts a JSON schema map to the genai schema type.
func toGenaiSchema(schema map[string]any) *genai.Schema {
	if schema == nil {
		return nil
	}

	s := &genai.Schema{}

	if t, ok := schema["type"].(string); ok {
		s.Type = genai.Type(t)
	}
	if desc, ok := schema["description"].(string); ok {
		s.Description = desc
	}
	if props, ok := schema["properties"].(map[string]any); ok {
		s.Properties = make(map[string]*genai.Schema)
		for name, prop := range props {
			if propMap, ok := prop.(map[string]any); ok {
				s.Properties[name] = toGenaiSchema(propMap)
			}
		}
	}
	if required, ok := schema["required"].([]any); ok {
		for _, r := range required {
			if rs, ok := r.(string); ok {
				s.Required = append(s.Required, rs)
			}
		}
	}
	if items, ok := schema["items"].(map[string]any); ok {
		s.Items = toGenaiSchema(items)
	}
	if enum, ok := schema["enum"].([]any); ok {
		for _, e := range enum {
			if es, ok := e.(string); ok {
				s.Enum = append(s.Enum, es)
			}
		}
	}

	return s
}

var _ Client = (*GeminiClient)(nil)
