// Package workflow defines the capability workflows and the Composer
// that maps a route label to the workflow sequence serving it.
package workflow

import (
	"context"
	"strings"

	"github.com/nutnell/marketminds/pkg/extraction"
	"github.com/nutnell/marketminds/pkg/providers"
)

// ID names one workflow. The set is closed; the Composer dispatches
// through a compile-time table keyed by these constants.
type ID string

const (
	News          ID = "news"
	Financials    ID = "financials"
	Research      ID = "research"
	Crypto        ID = "crypto"
	Economics     ID = "economics"
	Markets       ID = "markets"
	CryptoHistory ID = "crypto_history"
)

// Workflow pairs one capability domain with the entity fields it
// consumes. Run always produces text; provider failures surface as the
// chain's failure text rather than an error.
type Workflow interface {
	ID() ID
	Run(ctx context.Context, entities extraction.Entities) string
}

// chainWorkflow is the common shape: one chain fed by a field selector.
type chainWorkflow struct {
	id     ID
	chain  *providers.Chain
	params func(extraction.Entities) providers.Params
}

func (w *chainWorkflow) ID() ID {
	return w.id
}

func (w *chainWorkflow) Run(ctx context.Context, entities extraction.Entities) string {
	return w.chain.Invoke(ctx, w.params(entities)).Display()
}

// NewNews builds the news workflow over the news chain.
func NewNews(chain *providers.Chain) Workflow {
	return &chainWorkflow{
		id:    News,
		chain: chain,
		params: func(e extraction.Entities) providers.Params {
			return providers.Params{Company: e.Company}
		},
	}
}

// NewResearch builds the knowledge base workflow over the research chain.
func NewResearch(chain *providers.Chain) Workflow {
	return &chainWorkflow{
		id:    Research,
		chain: chain,
		params: func(e extraction.Entities) providers.Params {
			return providers.Params{ResearchQuery: e.ResearchQuery}
		},
	}
}

// NewCrypto builds the crypto quote workflow over the crypto chain.
func NewCrypto(chain *providers.Chain) Workflow {
	return &chainWorkflow{
		id:    Crypto,
		chain: chain,
		params: func(e extraction.Entities) providers.Params {
			return providers.Params{CryptoName: e.CryptoName}
		},
	}
}

// NewEconomics builds the economic indicator workflow.
func NewEconomics(chain *providers.Chain) Workflow {
	return &chainWorkflow{
		id:    Economics,
		chain: chain,
		params: func(e extraction.Entities) providers.Params {
			return providers.Params{IndicatorName: e.IndicatorName}
		},
	}
}

// NewMarkets builds the global market quote workflow.
func NewMarkets(chain *providers.Chain) Workflow {
	return &chainWorkflow{
		id:    Markets,
		chain: chain,
		params: func(e extraction.Entities) providers.Params {
			return providers.Params{MarketSymbol: e.MarketSymbol}
		},
	}
}

// NewCryptoHistory builds the historical crypto price workflow.
func NewCryptoHistory(chain *providers.Chain) Workflow {
	return &chainWorkflow{
		id:    CryptoHistory,
		chain: chain,
		params: func(e extraction.Entities) providers.Params {
			return providers.Params{CoinID: e.CoinID, Days: e.Days}
		},
	}
}

// financialsWorkflow combines the company profile and income statement
// chains into one financial analysis section.
type financialsWorkflow struct {
	profile *providers.Chain
	income  *providers.Chain
}

// NewFinancials builds the financials workflow over both statement chains.
func NewFinancials(profile, income *providers.Chain) Workflow {
	return &financialsWorkflow{profile: profile, income: income}
}

func (w *financialsWorkflow) ID() ID {
	return Financials
}

func (w *financialsWorkflow) Run(ctx context.Context, entities extraction.Entities) string {
	params := providers.Params{Ticker: entities.Ticker}
	sections := []string{
		w.profile.Invoke(ctx, params).Display(),
		w.income.Invoke(ctx, params).Display(),
	}
	return strings.Join(sections, "\n\n")
}
