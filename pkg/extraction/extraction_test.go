package extraction

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutnell/marketminds/pkg/llm"
)

type stubClient struct {
	response string
	err      error
	lastReq  *llm.Request
}

func (s *stubClient) Name() string { return "stub" }

func (s *stubClient) Generate(ctx context.Context, req *llm.Request) (string, error) {
	s.lastReq = req
	return s.response, s.err
}

func (s *stubClient) Close() error { return nil }

func TestExtract(t *testing.T) {
	client := &stubClient{response: `{
		"company":"Apple","company_ticker":"AAPL","research_query":"",
		"crypto_name":"","coin_id":"","days":30,"indicator_name":"","market_symbol":""
	}`}

	extractor, err := NewExtractor(client)
	require.NoError(t, err)

	entities, err := extractor.Extract(context.Background(), "Get me the news and financials for Apple.")
	require.NoError(t, err)

	assert.Equal(t, "Apple", entities.Company)
	assert.Equal(t, "AAPL", entities.Ticker)
	assert.Equal(t, 30, entities.Days)

	require.NotNil(t, client.lastReq)
	assert.Equal(t, "extracted_entities", client.lastReq.SchemaName)
	assert.Contains(t, client.lastReq.System, "infer the stock ticker")
}

func TestExtractDefaultsDays(t *testing.T) {
	// Classifier left the day count at zero.
	client := &stubClient{response: `{
		"company":"","company_ticker":"","research_query":"",
		"crypto_name":"Ethereum","coin_id":"ethereum","days":0,
		"indicator_name":"","market_symbol":""
	}`}

	extractor, err := NewExtractor(client)
	require.NoError(t, err)

	entities, err := extractor.Extract(context.Background(), "Show me Ethereum's history.")
	require.NoError(t, err)
	assert.Equal(t, DefaultDays, entities.Days)
}

func TestExtractFailureIsFatal(t *testing.T) {
	extractor, err := NewExtractor(&stubClient{err: errors.New("timeout")})
	require.NoError(t, err)

	_, err = extractor.Extract(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entity extraction failed")
}

func TestExtractMalformedJSONIsFatal(t *testing.T) {
	extractor, err := NewExtractor(&stubClient{response: "###"})
	require.NoError(t, err)

	_, err = extractor.Extract(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed")
}
