package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/nutnell/marketminds/pkg/httpclient"
)

// worldBankIndicators maps common indicator names to World Bank codes.
var worldBankIndicators = map[string]string{
	"gdp":       "NY.GDP.MKTP.CD",
	"inflation": "FP.CPI.TOTL.ZG",
}

// WorldBankAdapter is the fallback economic data source. It covers any
// country; the country code defaults to USA when not extracted.
type WorldBankAdapter struct {
	baseURL string
	client  *httpclient.Client
}

func NewWorldBank(cfg Config) *WorldBankAdapter {
	return &WorldBankAdapter{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		client:  newHTTPClient(cfg.Timeout),
	}
}

func (a *WorldBankAdapter) Name() string {
	return "worldbank"
}

type worldBankPoint struct {
	Indicator struct {
		Value string `json:"value"`
	} `json:"indicator"`
	Country struct {
		Value string `json:"value"`
	} `json:"country"`
	Date  string   `json:"date"`
	Value *float64 `json:"value"`
}

func (a *WorldBankAdapter) Invoke(ctx context.Context, params Params) Result {
	if params.IndicatorName == "" {
		return Failure("economic lookup requires an indicator name")
	}

	indicatorCode, ok := worldBankIndicators[strings.ToLower(params.IndicatorName)]
	if !ok {
		return Failuref("indicator %q not supported by world bank lookup", params.IndicatorName)
	}

	country := params.CountryCode
	if country == "" {
		country = "USA"
	}

	q := url.Values{}
	q.Set("format", "json")
	q.Set("date", "2020:2025")
	q.Set("per_page", "1")

	endpoint := fmt.Sprintf("%s/country/%s/indicator/%s?%s",
		a.baseURL, url.PathEscape(country), indicatorCode, q.Encode())

	// The response is a two-element array: metadata, then data points.
	var envelope []json.RawMessage
	if err := getJSON(ctx, a.client, endpoint, &envelope); err != nil {
		return Failuref("error from world bank: %v", err)
	}
	if len(envelope) < 2 {
		return Failure("no world bank data found")
	}

	var points []worldBankPoint
	if err := json.Unmarshal(envelope[1], &points); err != nil {
		return Failuref("error from world bank: %v", err)
	}
	if len(points) == 0 || points[0].Value == nil {
		return Failure("no world bank data found")
	}

	point := points[0]
	return Success(fmt.Sprintf(
		"Latest World Bank data for %s in %s:\n- Year: %s\n- Value: %s",
		point.Indicator.Value, point.Country.Value, point.Date, groupFloat(*point.Value)))
}

var _ Adapter = (*WorldBankAdapter)(nil)
