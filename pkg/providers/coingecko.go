package providers

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/nutnell/marketminds/pkg/httpclient"
)

// coinGecko is the shared plumbing for the CoinGecko adapters. The
// demo-tier API key travels as a query parameter.
type coinGecko struct {
	apiKey  string
	baseURL string
	client  *httpclient.Client
}

func newCoinGecko(cfg Config) coinGecko {
	return coinGecko{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		client:  newHTTPClient(cfg.Timeout),
	}
}

func (c coinGecko) url(path string, q url.Values) string {
	if c.apiKey != "" {
		q.Set("x_cg_demo_api_key", c.apiKey)
	}
	if len(q) == 0 {
		return c.baseURL + path
	}
	return c.baseURL + path + "?" + q.Encode()
}

// CryptoProfileAdapter resolves a coin by name and returns its profile:
// price, market cap, and the first sentence of its description.
type CryptoProfileAdapter struct {
	coinGecko
}

func NewCryptoProfile(cfg Config) *CryptoProfileAdapter {
	return &CryptoProfileAdapter{newCoinGecko(cfg)}
}

func (a *CryptoProfileAdapter) Name() string {
	return "coingecko-profile"
}

type coinSearch struct {
	Coins []struct {
		ID string `json:"id"`
	} `json:"coins"`
}

type coinProfile struct {
	Name       string `json:"name"`
	Symbol     string `json:"symbol"`
	MarketData struct {
		CurrentPrice map[string]float64 `json:"current_price"`
		MarketCap    map[string]float64 `json:"market_cap"`
	} `json:"market_data"`
	Description struct {
		En string `json:"en"`
	} `json:"description"`
}

func (a *CryptoProfileAdapter) Invoke(ctx context.Context, params Params) Result {
	if params.CryptoName == "" {
		return Failure("crypto profile requires a coin name")
	}

	q := url.Values{}
	q.Set("query", strings.ToLower(params.CryptoName))

	var search coinSearch
	if err := getJSON(ctx, a.client, a.url("/search", q), &search); err != nil {
		return Failuref("error from coingecko: %v", err)
	}
	if len(search.Coins) == 0 {
		return Failuref("could not find a cryptocurrency named %q", params.CryptoName)
	}

	coinID := search.Coins[0].ID

	var profile coinProfile
	if err := getJSON(ctx, a.client, a.url("/coins/"+url.PathEscape(coinID), url.Values{}), &profile); err != nil {
		return Failuref("error from coingecko: %v", err)
	}

	description := profile.Description.En
	if idx := strings.Index(description, "."); idx >= 0 {
		description = description[:idx]
	}

	return Success(fmt.Sprintf(
		"Name: %s (%s)\nPrice (USD): $%s\nMarket Cap (USD): $%s\nDescription: %s.",
		profile.Name, strings.ToUpper(profile.Symbol),
		groupFloat(profile.MarketData.CurrentPrice["usd"]),
		groupFloat(profile.MarketData.MarketCap["usd"]),
		description))
}

// CryptoHistoryAdapter fetches a coin's market chart over a day window
// and summarizes it as high, low, and average price.
type CryptoHistoryAdapter struct {
	coinGecko
}

func NewCryptoHistory(cfg Config) *CryptoHistoryAdapter {
	return &CryptoHistoryAdapter{newCoinGecko(cfg)}
}

func (a *CryptoHistoryAdapter) Name() string {
	return "coingecko-history"
}

type marketChart struct {
	Prices [][]float64 `json:"prices"`
}

func (a *CryptoHistoryAdapter) Invoke(ctx context.Context, params Params) Result {
	if params.CoinID == "" {
		return Failure("crypto history requires a coin id")
	}
	days := params.Days
	if days <= 0 {
		days = 30
	}

	q := url.Values{}
	q.Set("vs_currency", "usd")
	q.Set("days", strconv.Itoa(days))

	var chart marketChart
	path := "/coins/" + url.PathEscape(params.CoinID) + "/market_chart"
	if err := getJSON(ctx, a.client, a.url(path, q), &chart); err != nil {
		return Failuref("error fetching historical crypto data: %v", err)
	}

	if len(chart.Prices) == 0 {
		return Failuref("no historical data found for %s", params.CoinID)
	}

	high, low, sum, count := 0.0, 0.0, 0.0, 0
	for _, point := range chart.Prices {
		if len(point) < 2 {
			continue
		}
		price := point[1]
		if count == 0 || price > high {
			high = price
		}
		if count == 0 || price < low {
			low = price
		}
		sum += price
		count++
	}
	if count == 0 {
		return Failuref("malformed price data for %s", params.CoinID)
	}
	avg := sum / float64(count)

	name := strings.ToUpper(params.CoinID[:1]) + params.CoinID[1:]
	return Success(fmt.Sprintf(
		"Historical Data for %s (%d days):\n- High: $%s\n- Low: $%s\n- Average: $%s",
		name, days, groupFloat(high), groupFloat(low), groupFloat(avg)))
}

var (
	_ Adapter = (*CryptoProfileAdapter)(nil)
	_ Adapter = (*CryptoHistoryAdapter)(nil)
)
