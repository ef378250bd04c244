// Package routing classifies a free-text query onto the closed set of
// route labels. Each label names the workflow combination that serves
// the request.
package routing

// RouteLabel is one value from the closed route enumeration. Exactly
// one label is produced per request; there is no "none" state.
type RouteLabel string

const (
	RouteNewsAnalysis          RouteLabel = "news_analysis"
	RouteFinancialAnalysis     RouteLabel = "financial_analysis"
	RouteKnowledgeBaseQuery    RouteLabel = "knowledge_base_query"
	RouteCryptoAnalysis        RouteLabel = "crypto_analysis"
	RouteEconomicAnalysis      RouteLabel = "economic_analysis"
	RouteGlobalMarketQuote     RouteLabel = "global_market_quote"
	RouteCryptoHistorical      RouteLabel = "crypto_historical"
	RouteNewsAndFinancials     RouteLabel = "news_and_financials"
	RouteNewsAndResearch       RouteLabel = "news_and_research"
	RouteFinancialsAndResearch RouteLabel = "financials_and_research"
	RouteNewsAndCrypto         RouteLabel = "news_and_crypto"
	RouteFinancialsAndCrypto   RouteLabel = "financials_and_crypto"
	RouteFullAnalysis          RouteLabel = "full_analysis"
)

// DefaultRoute is the fallback for unknown or ambiguous labels.
const DefaultRoute = RouteNewsAnalysis

// AllRoutes lists every valid label. Read-only after init.
var AllRoutes = []RouteLabel{
	RouteNewsAnalysis,
	RouteFinancialAnalysis,
	RouteKnowledgeBaseQuery,
	RouteCryptoAnalysis,
	RouteEconomicAnalysis,
	RouteGlobalMarketQuote,
	RouteCryptoHistorical,
	RouteNewsAndFinancials,
	RouteNewsAndResearch,
	RouteFinancialsAndResearch,
	RouteNewsAndCrypto,
	RouteFinancialsAndCrypto,
	RouteFullAnalysis,
}

var validRoutes = func() map[RouteLabel]struct{} {
	m := make(map[RouteLabel]struct{}, len(AllRoutes))
	for _, r := range AllRoutes {
		m[r] = struct{}{}
	}
	return m
}()

// Valid reports whether the label belongs to the enumeration.
func (r RouteLabel) Valid() bool {
	_, ok := validRoutes[r]
	return ok
}

func (r RouteLabel) String() string {
	return string(r)
}
