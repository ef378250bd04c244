// Package providers implements the market data adapters and the
// fallback chains that sequence them. An adapter makes exactly one
// outbound call and reports either answer text or a failure detail;
// chains try adapters in rank order and absorb failures until the last
// adapter has been tried.
package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nutnell/marketminds/pkg/httpclient"
)

// Params carries the extracted entity fields an adapter may consume.
// Each adapter declares its own required subset.
type Params struct {
	Company       string
	Ticker        string
	ResearchQuery string
	CryptoName    string
	CoinID        string
	Days          int
	IndicatorName string
	MarketSymbol  string
	CountryCode   string
}

// Result is the two-variant outcome of an adapter call: answer text or
// a failure detail. Failures stay typed through the chain and workflow
// layers and become display text only at the response boundary.
type Result struct {
	text   string
	detail string
	failed bool
}

// Success wraps answer text.
func Success(text string) Result {
	return Result{text: text}
}

// Failure wraps a failure description.
func Failure(detail string) Result {
	return Result{detail: detail, failed: true}
}

// Failuref wraps a formatted failure description.
func Failuref(format string, args ...any) Result {
	return Failure(fmt.Sprintf(format, args...))
}

// Failed reports whether the result is the failure variant.
func (r Result) Failed() bool {
	return r.failed
}

// Text returns the answer text. Empty for failures.
func (r Result) Text() string {
	return r.text
}

// FailureDetail returns the failure description. Empty for successes.
func (r Result) FailureDetail() string {
	return r.detail
}

// Display renders the result as user-facing text regardless of variant.
func (r Result) Display() string {
	if r.failed {
		return r.detail
	}
	return r.text
}

// Adapter wraps one external data source.
type Adapter interface {
	// Name identifies the adapter in logs and metrics.
	Name() string

	// Invoke performs a single call against the upstream provider.
	Invoke(ctx context.Context, params Params) Result
}

// Config holds one provider's connection settings.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

const defaultProviderTimeout = 20 * time.Second

// newHTTPClient builds the per-adapter client. Adapters never retry;
// the chain's fallback ladder is the resilience mechanism.
func newHTTPClient(timeout time.Duration) *httpclient.Client {
	if timeout == 0 {
		timeout = defaultProviderTimeout
	}
	return httpclient.New(
		httpclient.WithHTTPClient(&http.Client{Timeout: timeout}),
		httpclient.WithRetryStrategy(func(int) httpclient.RetryStrategy {
			return httpclient.NoRetry
		}),
	)
}

// getJSON performs a GET and decodes the JSON response into out.
func getJSON(ctx context.Context, client *httpclient.Client, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}

	resp, err := client.Do(req)
	if resp != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		return err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("malformed response: %w", err)
	}
	return nil
}
