package providers

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/nutnell/marketminds/pkg/httpclient"
)

// CoinCapQuoteAdapter is the fallback crypto price source. CoinCap
// addresses assets by lowercase name slug.
type CoinCapQuoteAdapter struct {
	baseURL string
	client  *httpclient.Client
}

func NewCoinCapQuote(cfg Config) *CoinCapQuoteAdapter {
	return &CoinCapQuoteAdapter{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		client:  newHTTPClient(cfg.Timeout),
	}
}

func (a *CoinCapQuoteAdapter) Name() string {
	return "coincap"
}

type coinCapAsset struct {
	Data struct {
		Name     string `json:"name"`
		Symbol   string `json:"symbol"`
		PriceUSD string `json:"priceUsd"`
	} `json:"data"`
}

func (a *CoinCapQuoteAdapter) Invoke(ctx context.Context, params Params) Result {
	if params.CryptoName == "" {
		return Failure("crypto quote requires a coin name")
	}

	slug := url.PathEscape(strings.ToLower(params.CryptoName))

	var asset coinCapAsset
	if err := getJSON(ctx, a.client, a.baseURL+"/assets/"+slug, &asset); err != nil {
		return Failuref("error from coincap: %v", err)
	}

	price, err := strconv.ParseFloat(asset.Data.PriceUSD, 64)
	if err != nil {
		return Failuref("error from coincap: no price for %q", params.CryptoName)
	}

	return Success(fmt.Sprintf(
		"CoinCap Quote for %s (%s): Price (USD): $%s",
		asset.Data.Name, asset.Data.Symbol, groupFloat(price)))
}

var _ Adapter = (*CoinCapQuoteAdapter)(nil)
