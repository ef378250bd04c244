package providers

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/nutnell/marketminds/pkg/httpclient"
)

// alphaVantage is the shared plumbing for the three Alpha Vantage
// adapters. A populated "Note" field in any response signals the free
// tier rate limit.
type alphaVantage struct {
	apiKey  string
	baseURL string
	client  *httpclient.Client
}

func newAlphaVantage(cfg Config) alphaVantage {
	return alphaVantage{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		client:  newHTTPClient(cfg.Timeout),
	}
}

func (a alphaVantage) queryURL(function, symbol string) string {
	q := url.Values{}
	q.Set("function", function)
	q.Set("symbol", symbol)
	q.Set("apikey", a.apiKey)
	return a.baseURL + "/query?" + q.Encode()
}

// CompanyProfileAdapter retrieves a company overview by ticker.
type CompanyProfileAdapter struct {
	alphaVantage
}

func NewCompanyProfile(cfg Config) *CompanyProfileAdapter {
	return &CompanyProfileAdapter{newAlphaVantage(cfg)}
}

func (a *CompanyProfileAdapter) Name() string {
	return "alphavantage-overview"
}

type companyOverview struct {
	Note                 string `json:"Note"`
	Name                 string `json:"Name"`
	Symbol               string `json:"Symbol"`
	Industry             string `json:"Industry"`
	Sector               string `json:"Sector"`
	MarketCapitalization string `json:"MarketCapitalization"`
	Description          string `json:"Description"`
}

func (a *CompanyProfileAdapter) Invoke(ctx context.Context, params Params) Result {
	if params.Ticker == "" {
		return Failure("company profile requires a ticker symbol")
	}
	if a.apiKey == "" {
		return Failure("alpha vantage api key is not configured")
	}

	var overview companyOverview
	if err := getJSON(ctx, a.client, a.queryURL("OVERVIEW", params.Ticker), &overview); err != nil {
		return Failuref("error fetching company overview for %s: %v", params.Ticker, err)
	}

	if overview.Note != "" {
		return Failuref("alpha vantage api limit reached or invalid ticker: %s", overview.Note)
	}
	if overview.Name == "" {
		return Failuref("no profile data found for %s", params.Ticker)
	}

	return Success(fmt.Sprintf(
		"Company: %s (%s)\nIndustry: %s\nSector: %s\nMarket Cap: $%s\nDescription: %s",
		overview.Name, overview.Symbol, overview.Industry, overview.Sector,
		groupInt(overview.MarketCapitalization), overview.Description))
}

// IncomeStatementAdapter retrieves the latest annual income statement.
type IncomeStatementAdapter struct {
	alphaVantage
}

func NewIncomeStatement(cfg Config) *IncomeStatementAdapter {
	return &IncomeStatementAdapter{newAlphaVantage(cfg)}
}

func (a *IncomeStatementAdapter) Name() string {
	return "alphavantage-income"
}

type incomeStatement struct {
	Note          string `json:"Note"`
	AnnualReports []struct {
		FiscalDateEnding string `json:"fiscalDateEnding"`
		TotalRevenue     string `json:"totalRevenue"`
		GrossProfit      string `json:"grossProfit"`
		OperatingIncome  string `json:"operatingIncome"`
		NetIncome        string `json:"netIncome"`
	} `json:"annualReports"`
}

func (a *IncomeStatementAdapter) Invoke(ctx context.Context, params Params) Result {
	if params.Ticker == "" {
		return Failure("income statement requires a ticker symbol")
	}
	if a.apiKey == "" {
		return Failure("alpha vantage api key is not configured")
	}

	var statement incomeStatement
	if err := getJSON(ctx, a.client, a.queryURL("INCOME_STATEMENT", params.Ticker), &statement); err != nil {
		return Failuref("error fetching income statement for %s: %v", params.Ticker, err)
	}

	if statement.Note != "" {
		return Failuref("alpha vantage api limit reached: %s", statement.Note)
	}
	if len(statement.AnnualReports) == 0 {
		return Failuref("no income statement found for %s", params.Ticker)
	}

	report := statement.AnnualReports[0]
	return Success(fmt.Sprintf(
		"Latest Annual Income Statement for %s (Fiscal Year Ending %s):\n"+
			"- Total Revenue: $%s\n"+
			"- Gross Profit: $%s\n"+
			"- Operating Income: $%s\n"+
			"- Net Income: $%s",
		params.Ticker, report.FiscalDateEnding,
		groupInt(report.TotalRevenue), groupInt(report.GrossProfit),
		groupInt(report.OperatingIncome), groupInt(report.NetIncome)))
}

// GlobalQuoteAdapter is the last-resort market quote source.
type GlobalQuoteAdapter struct {
	alphaVantage
}

func NewGlobalQuote(cfg Config) *GlobalQuoteAdapter {
	return &GlobalQuoteAdapter{newAlphaVantage(cfg)}
}

func (a *GlobalQuoteAdapter) Name() string {
	return "alphavantage-quote"
}

type globalQuote struct {
	Note  string `json:"Note"`
	Quote struct {
		Symbol string `json:"01. symbol"`
		Price  string `json:"05. price"`
		Change string `json:"09. change"`
	} `json:"Global Quote"`
}

func (a *GlobalQuoteAdapter) Invoke(ctx context.Context, params Params) Result {
	if params.MarketSymbol == "" {
		return Failure("market quote requires a symbol")
	}
	if a.apiKey == "" {
		return Failure("alpha vantage api key is not configured")
	}

	var quote globalQuote
	if err := getJSON(ctx, a.client, a.queryURL("GLOBAL_QUOTE", params.MarketSymbol), &quote); err != nil {
		return Failuref("error fetching market data from alpha vantage: %v", err)
	}

	if quote.Note != "" {
		return Failuref("alpha vantage api limit reached: %s", quote.Note)
	}
	if quote.Quote.Symbol == "" {
		return Failuref("no data found for symbol %q from alpha vantage", params.MarketSymbol)
	}

	return Success(fmt.Sprintf(
		"Latest Alpha Vantage Quote for %s:\n- Price: %s\n- Change: %s",
		quote.Quote.Symbol, quote.Quote.Price, quote.Quote.Change))
}

var (
	_ Adapter = (*CompanyProfileAdapter)(nil)
	_ Adapter = (*IncomeStatementAdapter)(nil)
	_ Adapter = (*GlobalQuoteAdapter)(nil)
)
