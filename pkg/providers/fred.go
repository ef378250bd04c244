package providers

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/nutnell/marketminds/pkg/httpclient"
)

// fredSeriesIDs maps common indicator names to FRED series.
var fredSeriesIDs = map[string]string{
	"gdp":          "GDP",
	"inflation":    "CPIAUCSL",
	"unemployment": "UNRATE",
}

// FREDAdapter is the primary source for US economic indicators.
type FREDAdapter struct {
	apiKey  string
	baseURL string
	client  *httpclient.Client
}

func NewFRED(cfg Config) *FREDAdapter {
	return &FREDAdapter{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		client:  newHTTPClient(cfg.Timeout),
	}
}

func (a *FREDAdapter) Name() string {
	return "fred"
}

type fredObservations struct {
	Observations []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"observations"`
}

func (a *FREDAdapter) Invoke(ctx context.Context, params Params) Result {
	if params.IndicatorName == "" {
		return Failure("economic lookup requires an indicator name")
	}
	if a.apiKey == "" {
		return Failure("fred api key is not configured")
	}

	seriesID, ok := fredSeriesIDs[strings.ToLower(params.IndicatorName)]
	if !ok {
		return Failuref("unknown indicator %q", params.IndicatorName)
	}

	q := url.Values{}
	q.Set("series_id", seriesID)
	q.Set("api_key", a.apiKey)
	q.Set("file_type", "json")
	q.Set("sort_order", "desc")
	q.Set("limit", "1")

	var resp fredObservations
	if err := getJSON(ctx, a.client, a.baseURL+"/series/observations?"+q.Encode(), &resp); err != nil {
		return Failuref("error from fred: %v", err)
	}

	if len(resp.Observations) == 0 {
		return Failuref("no fred observations found for %s", params.IndicatorName)
	}

	obs := resp.Observations[0]
	return Success(fmt.Sprintf(
		"Latest FRED data for %s: Date: %s, Value: %s",
		strings.ToUpper(params.IndicatorName), obs.Date, obs.Value))
}

var _ Adapter = (*FREDAdapter)(nil)
