package config

import (
	"fmt"
	"os"
)

// Default upstream endpoints for the market data providers.
const (
	DefaultNewsAPIBaseURL      = "https://newsapi.org/v2"
	DefaultAlphaVantageBaseURL = "https://www.alphavantage.co"
	DefaultCoinGeckoBaseURL    = "https://api.coingecko.com/api/v3"
	DefaultCoinCapBaseURL      = "https://api.coincap.io/v2"
	DefaultFREDBaseURL         = "https://api.stlouisfed.org/fred"
	DefaultWorldBankBaseURL    = "https://api.worldbank.org/v2"
	DefaultTwelveDataBaseURL   = "https://api.twelvedata.com"
	DefaultFMPBaseURL          = "https://financialmodelingprep.com/api/v3"
)

// ProviderConfig holds the connection settings for one upstream data
// provider. Providers without authentication leave APIKey empty.
type ProviderConfig struct {
	APIKey  string `yaml:"api_key,omitempty"`
	BaseURL string `yaml:"base_url,omitempty"`
}

// ProvidersConfig configures every upstream market data provider.
type ProvidersConfig struct {
	News         ProviderConfig `yaml:"news,omitempty"`
	AlphaVantage ProviderConfig `yaml:"alpha_vantage,omitempty"`
	CoinGecko    ProviderConfig `yaml:"coingecko,omitempty"`
	CoinCap      ProviderConfig `yaml:"coincap,omitempty"`
	FRED         ProviderConfig `yaml:"fred,omitempty"`
	WorldBank    ProviderConfig `yaml:"world_bank,omitempty"`
	TwelveData   ProviderConfig `yaml:"twelve_data,omitempty"`
	FMP          ProviderConfig `yaml:"fmp,omitempty"`

	// Timeout is the per-call timeout in seconds, shared by all providers.
	Timeout int `yaml:"timeout,omitempty"`
}

func (c *ProvidersConfig) SetDefaults() {
	fill := func(p *ProviderConfig, envKey, baseURL string) {
		if p.APIKey == "" && envKey != "" {
			p.APIKey = os.Getenv(envKey)
		}
		if p.BaseURL == "" {
			p.BaseURL = baseURL
		}
	}

	fill(&c.News, "NEWS_API_KEY", DefaultNewsAPIBaseURL)
	fill(&c.AlphaVantage, "ALPHA_VANTAGE_API_KEY", DefaultAlphaVantageBaseURL)
	fill(&c.CoinGecko, "", DefaultCoinGeckoBaseURL)
	fill(&c.CoinCap, "", DefaultCoinCapBaseURL)
	fill(&c.FRED, "FRED_API_KEY", DefaultFREDBaseURL)
	fill(&c.WorldBank, "", DefaultWorldBankBaseURL)
	fill(&c.TwelveData, "TWELVE_DATA_API_KEY", DefaultTwelveDataBaseURL)
	fill(&c.FMP, "FMP_API_KEY", DefaultFMPBaseURL)

	if c.Timeout == 0 {
		c.Timeout = 20
	}
}

func (c *ProvidersConfig) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("providers timeout must be non-negative, got %d", c.Timeout)
	}
	return nil
}
