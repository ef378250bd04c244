package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/nutnell/marketminds/pkg/extraction"
	"github.com/nutnell/marketminds/pkg/routing"
)

// Separator joins consecutive workflow outputs in a composed answer.
const Separator = "\n\n---\n\n"

// routePlans maps each route label to its workflow sequence. Slice
// order is invocation and join order.
var routePlans = map[routing.RouteLabel][]ID{
	routing.RouteNewsAnalysis:          {News},
	routing.RouteFinancialAnalysis:     {Financials},
	routing.RouteKnowledgeBaseQuery:    {Research},
	routing.RouteCryptoAnalysis:        {Crypto},
	routing.RouteEconomicAnalysis:      {Economics},
	routing.RouteGlobalMarketQuote:     {Markets},
	routing.RouteCryptoHistorical:      {CryptoHistory},
	routing.RouteNewsAndFinancials:     {News, Financials},
	routing.RouteNewsAndResearch:       {News, Research},
	routing.RouteFinancialsAndResearch: {Financials, Research},
	routing.RouteNewsAndCrypto:         {News, Crypto},
	routing.RouteFinancialsAndCrypto:   {Financials, Crypto},
	routing.RouteFullAnalysis:          {News, Financials, Research},
}

// Composer dispatches a route label to its workflow sequence and joins
// the outputs. Multi-workflow routes run concurrently; outputs keep the
// table's listed order.
type Composer struct {
	workflows map[ID]Workflow
}

// NewComposer registers the workflow set. Every workflow referenced by
// a route plan must be present.
func NewComposer(workflows ...Workflow) (*Composer, error) {
	byID := make(map[ID]Workflow, len(workflows))
	for _, wf := range workflows {
		byID[wf.ID()] = wf
	}

	for route, ids := range routePlans {
		for _, id := range ids {
			if _, ok := byID[id]; !ok {
				return nil, fmt.Errorf("route %s requires missing workflow %s", route, id)
			}
		}
	}

	return &Composer{workflows: byID}, nil
}

// Compose runs the workflow sequence for the route and joins the
// outputs. An unmapped label falls back to the news workflow with the
// raw query as the company; that is a defensive default, not an error.
func (c *Composer) Compose(ctx context.Context, route routing.RouteLabel, entities extraction.Entities, rawText string) string {
	ids, ok := routePlans[route]
	if !ok {
		slog.Warn("unmapped route, defaulting to news", "route", route)
		ids = []ID{News}
		entities = extraction.Entities{Company: rawText}
	}

	if len(ids) == 1 {
		return c.workflows[ids[0]].Run(ctx, entities)
	}

	results := make([]string, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		wf := c.workflows[id]
		g.Go(func() error {
			results[i] = wf.Run(gctx, entities)
			return nil
		})
	}
	// Workflows never return errors; Wait only synchronizes the fan-out.
	_ = g.Wait()

	return strings.Join(results, Separator)
}
