package providers

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/nutnell/marketminds/pkg/httpclient"
)

// FMPQuoteAdapter is the secondary quote source. FMP uses compact
// symbols, so slashes are stripped (EUR/USD becomes EURUSD).
type FMPQuoteAdapter struct {
	apiKey  string
	baseURL string
	client  *httpclient.Client
}

func NewFMPQuote(cfg Config) *FMPQuoteAdapter {
	return &FMPQuoteAdapter{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		client:  newHTTPClient(cfg.Timeout),
	}
}

func (a *FMPQuoteAdapter) Name() string {
	return "fmp"
}

type fmpQuote struct {
	Symbol  string  `json:"symbol"`
	Price   float64 `json:"price"`
	Change  float64 `json:"change"`
	DayHigh float64 `json:"dayHigh"`
	DayLow  float64 `json:"dayLow"`
}

func (a *FMPQuoteAdapter) Invoke(ctx context.Context, params Params) Result {
	if params.MarketSymbol == "" {
		return Failure("market quote requires a symbol")
	}
	if a.apiKey == "" {
		return Failure("fmp api key is not configured")
	}

	symbol := strings.ReplaceAll(params.MarketSymbol, "/", "")

	q := url.Values{}
	q.Set("apikey", a.apiKey)

	var quotes []fmpQuote
	endpoint := a.baseURL + "/quote/" + url.PathEscape(symbol) + "?" + q.Encode()
	if err := getJSON(ctx, a.client, endpoint, &quotes); err != nil {
		return Failuref("error from fmp: %v", err)
	}

	if len(quotes) == 0 {
		return Failuref("no data found for symbol %q from fmp", symbol)
	}

	quote := quotes[0]
	return Success(fmt.Sprintf(
		"FMP Quote for %s:\n- Price: $%v\n- Change: $%v\n- Day High: $%v\n- Day Low: $%v",
		quote.Symbol, quote.Price, quote.Change, quote.DayHigh, quote.DayLow))
}

var _ Adapter = (*FMPQuoteAdapter)(nil)
