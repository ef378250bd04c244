package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nutnell/marketminds/pkg/llm"
)

const routerSystemPrompt = `You are an expert at routing an investor's request to the correct specialized workflow.
Based on the user's query, you must select the best route to handle the request. You have the following options:

- news_analysis: For questions ONLY about recent news or market sentiment.
- financial_analysis: For questions ONLY about a company's financial data.
- knowledge_base_query: For questions ONLY about general investment concepts.
- crypto_analysis: For questions ONLY about a cryptocurrency's current price/market cap.
- economic_analysis: For questions ONLY about broad economic indicators (GDP, inflation).
- global_market_quote: For questions about Forex, commodities (Gold, Oil), or indices (NASDAQ).
- crypto_historical: For questions asking for historical price data or a chart for a cryptocurrency.

- news_and_financials: For questions requiring BOTH news AND financial data.
- news_and_research: For questions requiring BOTH news AND a research concept.
- financials_and_research: For questions requiring BOTH financials AND a research concept.
- news_and_crypto: For questions requiring BOTH news AND crypto data.
- financials_and_crypto: For questions requiring BOTH financials AND crypto data.

- full_analysis: For very broad questions requiring news, financials, AND a research concept.

Choose a combined route only when the query substantively needs every named domain, not when a
domain is mentioned incidentally. If the query partially matches several single domains without
clearly requiring them all, pick the single route covering the primary intent.

--- EXAMPLES ---
User Query: "What's the latest news on Tesla?" -> ROUTE: news_analysis
User Query: "Get me the financials for MSFT." -> ROUTE: financial_analysis
User Query: "What is growth investing?" -> ROUTE: knowledge_base_query
User Query: "What's the price of Bitcoin?" -> ROUTE: crypto_analysis
User Query: "What is the current US unemployment rate?" -> ROUTE: economic_analysis
User Query: "What's the price of Gold?" -> ROUTE: global_market_quote
User Query: "Give me the 30-day chart for Ethereum." -> ROUTE: crypto_historical

User Query: "Get me the news and financials for Apple." -> ROUTE: news_and_financials
User Query: "What's the sentiment on NVIDIA and what is value investing?" -> ROUTE: news_and_research
User Query: "Pull the income statement for Google and explain index funds." -> ROUTE: financials_and_research
User Query: "Give me the latest news on Ethereum." -> ROUTE: news_and_crypto
User Query: "Get me the financials for Coinbase and the current price of Bitcoin." -> ROUTE: financials_and_crypto

User Query: "Give me a full report on NVIDIA including news, financials, and also explain what value investing means." -> ROUTE: full_analysis`

// routeDecision is the structured-output shape for one classification.
type routeDecision struct {
	Route string `json:"route" jsonschema:"required,description=The single best route label for the query"`
}

// Router maps raw query text onto a RouteLabel with one classification
// call. The classifier client is injected at construction.
type Router struct {
	client llm.Client
	schema map[string]any
}

// NewRouter builds a Router over the given classifier client.
func NewRouter(client llm.Client) (*Router, error) {
	schema, err := llm.SchemaFor(&routeDecision{})
	if err != nil {
		return nil, fmt.Errorf("failed to build route schema: %w", err)
	}

	// Constrain the route field to the closed label set.
	if props, ok := schema["properties"].(map[string]any); ok {
		if route, ok := props["route"].(map[string]any); ok {
			enum := make([]any, len(AllRoutes))
			for i, r := range AllRoutes {
				enum[i] = string(r)
			}
			route["enum"] = enum
		}
	}

	return &Router{client: client, schema: schema}, nil
}

// Route classifies the query. A failed classification call is an error
// for the request; a successful call producing an out-of-enumeration
// label is passed through for the composer's defensive default.
func (r *Router) Route(ctx context.Context, rawText string) (RouteLabel, error) {
	out, err := r.client.Generate(ctx, &llm.Request{
		System:     routerSystemPrompt,
		User:       rawText,
		SchemaName: "route_decision",
		Schema:     r.schema,
	})
	if err != nil {
		return "", fmt.Errorf("route classification failed: %w", err)
	}

	var decision routeDecision
	if err := json.Unmarshal([]byte(out), &decision); err != nil {
		return "", fmt.Errorf("route classification returned malformed JSON: %w", err)
	}

	label := RouteLabel(decision.Route)
	if !label.Valid() {
		slog.Warn("classifier produced unknown route label", "label", decision.Route)
	}
	return label, nil
}
