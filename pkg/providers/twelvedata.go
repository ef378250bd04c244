package providers

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/nutnell/marketminds/pkg/httpclient"
)

// TwelveDataQuoteAdapter is the primary quote source for forex pairs,
// commodities, and indices.
type TwelveDataQuoteAdapter struct {
	apiKey  string
	baseURL string
	client  *httpclient.Client
}

func NewTwelveDataQuote(cfg Config) *TwelveDataQuoteAdapter {
	return &TwelveDataQuoteAdapter{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		client:  newHTTPClient(cfg.Timeout),
	}
}

func (a *TwelveDataQuoteAdapter) Name() string {
	return "twelvedata"
}

type twelveDataQuote struct {
	Code          int    `json:"code"`
	Symbol        string `json:"symbol"`
	Close         string `json:"close"`
	Change        string `json:"change"`
	PercentChange string `json:"percent_change"`
}

func (a *TwelveDataQuoteAdapter) Invoke(ctx context.Context, params Params) Result {
	if params.MarketSymbol == "" {
		return Failure("market quote requires a symbol")
	}
	if a.apiKey == "" {
		return Failure("twelve data api key is not configured")
	}

	q := url.Values{}
	q.Set("symbol", params.MarketSymbol)
	q.Set("apikey", a.apiKey)

	var quote twelveDataQuote
	if err := getJSON(ctx, a.client, a.baseURL+"/quote?"+q.Encode(), &quote); err != nil {
		return Failuref("error from twelve data: %v", err)
	}

	if quote.Code == 404 {
		return Failuref("symbol %q not found by twelve data", params.MarketSymbol)
	}

	price, err := strconv.ParseFloat(quote.Close, 64)
	if err != nil {
		return Failuref("error from twelve data: no price for %q", params.MarketSymbol)
	}
	change, _ := strconv.ParseFloat(quote.Change, 64)

	return Success(fmt.Sprintf(
		"Twelve Data Quote for %s:\n- Price: $%.2f\n- Change: $%.2f\n- Percent Change: %s%%",
		quote.Symbol, price, change, quote.PercentChange))
}

var _ Adapter = (*TwelveDataQuoteAdapter)(nil)
