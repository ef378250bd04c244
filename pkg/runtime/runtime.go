// Package runtime assembles the application from configuration: the
// classifier clients, provider chains, workflows, knowledge store,
// auth, and the HTTP server.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nutnell/marketminds/pkg/auth"
	"github.com/nutnell/marketminds/pkg/config"
	"github.com/nutnell/marketminds/pkg/extraction"
	"github.com/nutnell/marketminds/pkg/knowledge"
	"github.com/nutnell/marketminds/pkg/llm"
	"github.com/nutnell/marketminds/pkg/observability"
	"github.com/nutnell/marketminds/pkg/orchestrator"
	"github.com/nutnell/marketminds/pkg/providers"
	"github.com/nutnell/marketminds/pkg/routing"
	"github.com/nutnell/marketminds/pkg/server"
	"github.com/nutnell/marketminds/pkg/session"
	"github.com/nutnell/marketminds/pkg/workflow"
)

// Runtime is the fully wired application.
type Runtime struct {
	cfg *config.Config

	client  llm.Client
	store   knowledge.Store
	users   *auth.UserStore
	metrics *observability.Metrics
	server  *server.Server

	newsChain *providers.Chain
}

// New wires every component from the validated configuration.
func New(cfg *config.Config) (*Runtime, error) {
	rt := &Runtime{cfg: cfg, metrics: observability.NewMetrics()}

	client, err := llm.NewFromConfig(&cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to build llm client: %w", err)
	}
	rt.client = client

	extractor, err := extraction.NewExtractor(client)
	if err != nil {
		rt.Close()
		return nil, err
	}
	router, err := routing.NewRouter(client)
	if err != nil {
		rt.Close()
		return nil, err
	}

	composer, err := rt.buildComposer()
	if err != nil {
		rt.Close()
		return nil, err
	}

	orch := orchestrator.New(extractor, router, composer,
		orchestrator.WithObserver(rt.metrics.QueryObserver()))

	deps := server.Dependencies{
		Orchestrator: orch,
		Sessions:     session.NewInMemoryService(),
		NewsChain:    rt.newsChain,
		Metrics:      rt.metrics,
	}

	if cfg.Auth.Enabled {
		tokens, err := auth.NewTokenService([]byte(cfg.Auth.Secret), cfg.Auth.Issuer,
			time.Duration(cfg.Auth.TokenTTL)*time.Minute)
		if err != nil {
			rt.Close()
			return nil, err
		}
		users, err := auth.NewUserStore(cfg.Auth.UsersDB)
		if err != nil {
			rt.Close()
			return nil, err
		}
		rt.users = users
		deps.Tokens = tokens
		deps.Users = users
	} else {
		slog.Warn("auth is disabled; the query endpoint is open")
	}

	rt.server = server.New(&cfg.Server, deps)
	return rt, nil
}

// buildComposer constructs the provider chains, the knowledge adapter,
// and the workflow set.
func (rt *Runtime) buildComposer() (*workflow.Composer, error) {
	cfg := rt.cfg
	timeout := time.Duration(cfg.Providers.Timeout) * time.Second
	observer := providers.WithObserver(rt.metrics.ProviderObserver())

	providerConfig := func(p config.ProviderConfig) providers.Config {
		return providers.Config{APIKey: p.APIKey, BaseURL: p.BaseURL, Timeout: timeout}
	}

	store, err := knowledge.NewStoreFromConfig(&cfg.Knowledge)
	if err != nil {
		return nil, fmt.Errorf("failed to open knowledge store: %w", err)
	}
	rt.store = store

	embedder, err := knowledge.NewOpenAIEmbedder(knowledge.OpenAIEmbedderConfig{
		APIKey:     cfg.Knowledge.Embedder.APIKey,
		Model:      cfg.Knowledge.Embedder.Model,
		BaseURL:    cfg.Knowledge.Embedder.BaseURL,
		Dimensions: cfg.Knowledge.Embedder.Dimensions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build embedder: %w", err)
	}

	rt.newsChain = providers.NewChain("news", []providers.Adapter{
		providers.NewNewsAPI(providerConfig(cfg.Providers.News)),
	}, observer)

	profileChain := providers.NewChain("company profile", []providers.Adapter{
		providers.NewCompanyProfile(providerConfig(cfg.Providers.AlphaVantage)),
	}, observer)

	incomeChain := providers.NewChain("income statement", []providers.Adapter{
		providers.NewIncomeStatement(providerConfig(cfg.Providers.AlphaVantage)),
	}, observer)

	researchChain := providers.NewChain("research", []providers.Adapter{
		knowledge.NewSearchAdapter(store, embedder, cfg.Knowledge.TopK),
	}, observer)

	cryptoChain := providers.NewChain("crypto quote", []providers.Adapter{
		providers.NewCryptoProfile(providerConfig(cfg.Providers.CoinGecko)),
		providers.NewCoinCapQuote(providerConfig(cfg.Providers.CoinCap)),
	}, observer)

	cryptoHistoryChain := providers.NewChain("crypto history", []providers.Adapter{
		providers.NewCryptoHistory(providerConfig(cfg.Providers.CoinGecko)),
	}, observer)

	economicsChain := providers.NewChain("economics", []providers.Adapter{
		providers.NewFRED(providerConfig(cfg.Providers.FRED)),
		providers.NewWorldBank(providerConfig(cfg.Providers.WorldBank)),
	}, observer)

	marketChain := providers.NewChain("market quote", []providers.Adapter{
		providers.NewTwelveDataQuote(providerConfig(cfg.Providers.TwelveData)),
		providers.NewFMPQuote(providerConfig(cfg.Providers.FMP)),
		providers.NewGlobalQuote(providerConfig(cfg.Providers.AlphaVantage)),
	}, observer)

	return workflow.NewComposer(
		workflow.NewNews(rt.newsChain),
		workflow.NewFinancials(profileChain, incomeChain),
		workflow.NewResearch(researchChain),
		workflow.NewCrypto(cryptoChain),
		workflow.NewEconomics(economicsChain),
		workflow.NewMarkets(marketChain),
		workflow.NewCryptoHistory(cryptoHistoryChain),
	)
}

// Serve runs the HTTP server until the context is canceled.
func (rt *Runtime) Serve(ctx context.Context) error {
	return rt.server.Start(ctx)
}

// Close releases held resources.
func (rt *Runtime) Close() {
	if rt.store != nil {
		if err := rt.store.Close(); err != nil {
			slog.Warn("failed to close knowledge store", "error", err)
		}
	}
	if rt.users != nil {
		if err := rt.users.Close(); err != nil {
			slog.Warn("failed to close user store", "error", err)
		}
	}
	if rt.client != nil {
		if err := rt.client.Close(); err != nil {
			slog.Warn("failed to close llm client", "error", err)
		}
	}
}
