// Package extraction derives structured parameters from raw query text
// with one structured-output classification call.
package extraction

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nutnell/marketminds/pkg/llm"
)

// DefaultDays is the day-count window applied when the query does not
// specify one.
const DefaultDays = 30

// Entities is the typed bag of parameters extracted from one query.
// Fields are optional; each workflow knows which subset it requires.
// Created fresh per request and never mutated after extraction.
type Entities struct {
	// Company is the company name or news topic.
	Company string `json:"company" jsonschema:"description=The company name or news topic mentioned in the query; empty if none"`

	// Ticker is the stock ticker, inferred from the company when absent.
	Ticker string `json:"company_ticker" jsonschema:"description=The stock ticker symbol; infer it from the company name if not stated (e.g. Apple -> AAPL)"`

	// ResearchQuery is the investment concept being asked about.
	ResearchQuery string `json:"research_query" jsonschema:"description=The investment concept or research question; empty if none"`

	// CryptoName is the cryptocurrency's common name.
	CryptoName string `json:"crypto_name" jsonschema:"description=The cryptocurrency name (e.g. Bitcoin); empty if none"`

	// CoinID is the CoinGecko id, inferred from the crypto name.
	CoinID string `json:"coin_id" jsonschema:"description=The CoinGecko id for the cryptocurrency; infer it from the name (e.g. Ethereum -> ethereum)"`

	// Days is the historical window; 30 when the query does not say.
	Days int `json:"days" jsonschema:"description=The number of past days of data requested; use 30 if the query does not specify"`

	// IndicatorName is the economic indicator (GDP, inflation, ...).
	IndicatorName string `json:"indicator_name" jsonschema:"description=The economic indicator name such as GDP or inflation; empty if none"`

	// MarketSymbol is the forex/commodity/index symbol.
	MarketSymbol string `json:"market_symbol" jsonschema:"description=The market symbol for forex pairs or commodities or indices (e.g. EUR/USD or XAU/USD); empty if none"`
}

const extractorSystemPrompt = `You extract structured parameters from an investor's request.
Fill every field of the JSON object. Infer missing specifics instead of leaving them blank:
infer the stock ticker from the company name, infer the CoinGecko coin id from the
cryptocurrency name, and infer the market symbol from the asset mentioned. Use an empty
string for fields that genuinely do not apply to the query. If the query does not state a
day count, set days to 30.`

// Extractor produces Entities from raw text. The classifier client is
// injected at construction.
type Extractor struct {
	client llm.Client
	schema map[string]any
}

// NewExtractor builds an Extractor over the given classifier client.
func NewExtractor(client llm.Client) (*Extractor, error) {
	schema, err := llm.SchemaFor(&Entities{})
	if err != nil {
		return nil, fmt.Errorf("failed to build entity schema: %w", err)
	}
	return &Extractor{client: client, schema: schema}, nil
}

// Extract runs one classification call. Any failure to produce a
// conformant record is fatal for the request.
func (e *Extractor) Extract(ctx context.Context, rawText string) (*Entities, error) {
	out, err := e.client.Generate(ctx, &llm.Request{
		System:     extractorSystemPrompt,
		User:       rawText,
		SchemaName: "extracted_entities",
		Schema:     e.schema,
	})
	if err != nil {
		return nil, fmt.Errorf("entity extraction failed: %w", err)
	}

	entities := &Entities{}
	if err := json.Unmarshal([]byte(out), entities); err != nil {
		return nil, fmt.Errorf("entity extraction returned malformed JSON: %w", err)
	}

	if entities.Days <= 0 {
		entities.Days = DefaultDays
	}
	return entities, nil
}
