package app

import (
	"context"
	"fmt"
	"net/http"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/moonshill-backend/internal/data/repos"
	apphttp "github.com/yungbote/moonshill-backend/internal/http"
	httpH "github.com/yungbote/moonshill-backend/internal/http/handlers"
	"github.com/yungbote/moonshill-backend/internal/modules/campaigns/scheduler"
	"github.com/yungbote/moonshill-backend/internal/modules/generation"
	"github.com/yungbote/moonshill-backend/internal/modules/generation/humanize"
	"github.com/yungbote/moonshill-backend/internal/modules/generation/lifecycle"
	"github.com/yungbote/moonshill-backend/internal/modules/generation/performance"
	"github.com/yungbote/moonshill-backend/internal/observability"
	"github.com/yungbote/moonshill-backend/internal/platform/gemini"
	"github.com/yungbote/moonshill-backend/internal/platform/llm"
	"github.com/yungbote/moonshill-backend/internal/platform/logger"
	"github.com/yungbote/moonshill-backend/internal/platform/marketdata"
	"github.com/yungbote/moonshill-backend/internal/platform/openai"
	"github.com/yungbote/moonshill-backend/internal/platform/retry"
)

func retryPolicy(cfg RetryConfig) retry.Policy {
	p := retry.Default()
	if cfg.MaxAttempts > 0 {
		p.MaxAttempts = cfg.MaxAttempts
	}
	if cfg.BaseDelay > 0 {
		p.BaseDelay = cfg.BaseDelay
	}
	if cfg.MaxDelay > 0 {
		p.MaxDelay = cfg.MaxDelay
	}
	return p
}

// buildProvider returns the configured text provider, instrumented per
// attempt and wrapped in the retry policy.
func buildProvider(ctx context.Context, cfg Config, log *logger.Logger, m *observability.Metrics) (llm.Provider, error) {
	var (
		base llm.Provider
		err  error
	)
	switch cfg.LLM.Provider {
	case ProviderGemini:
		base, err = gemini.NewClient(ctx, gemini.Config{
			APIKey:     cfg.LLM.GeminiKey,
			Model:      cfg.LLM.GeminiModel,
			EmbedModel: cfg.LLM.GeminiEmbedModel,
			System:     cfg.LLM.GeminiSystem,
		}, log)
	default:
		base, err = openai.NewClient(openai.Config{
			APIKey:     cfg.LLM.OpenAIKey,
			BaseURL:    cfg.LLM.OpenAIBaseURL,
			Model:      cfg.LLM.OpenAIModel,
			EmbedModel: cfg.LLM.OpenAIEmbedModel,
			Timeout:    cfg.LLM.Timeout,
			System:     cfg.LLM.OpenAISystem,
		}, log)
	}
	if err != nil {
		return nil, fmt.Errorf("init %s provider: %w", cfg.LLM.Provider, err)
	}
	var observe llm.Observer
	if m != nil {
		observe = m.ObserveProvider
	}
	return llm.Retrying(llm.Instrumented(base, observe), retryPolicy(cfg.Retry), log), nil
}

// buildMarket returns the market/trend source. Disabled market data yields
// an always-empty source; a configured redis client adds a TTL cache.
func buildMarket(cfg MarketConfig, rdb *goredis.Client, log *logger.Logger, m *observability.Metrics) marketdata.Source {
	if !cfg.Enabled {
		return marketdata.Empty{}
	}
	client := &http.Client{Timeout: cfg.Timeout}
	gecko := &marketdata.CoinGecko{BaseURL: cfg.CoinGeckoURL, APIKey: cfg.CoinGeckoKey, HTTPClient: client}
	var news *marketdata.CryptoCompare
	if cfg.NewsEnabled {
		news = &marketdata.CryptoCompare{BaseURL: cfg.CryptoCompareURL, APIKey: cfg.CryptoCompareKey, HTTPClient: client}
	}
	var opts []marketdata.Option
	if m != nil {
		opts = append(opts, marketdata.WithObserver(m.ObserveMarketFetch))
	}
	src := marketdata.NewAggregator(gecko, news, cfg.Timeout, log, opts...)
	if rdb == nil {
		return src
	}
	return marketdata.Cached(src, rdb, cfg.CacheTTL, log)
}

func buildGeneration(cfg Config, set repos.Set, provider llm.Provider, market marketdata.Source, log *logger.Logger) (*generation.Composer, *scheduler.Scheduler) {
	h := humanize.New(nil)
	params := llm.DefaultParams()
	if cfg.LLM.MaxTokens > 0 {
		params.MaxTokens = cfg.LLM.MaxTokens
	}
	composer := generation.NewComposer(generation.ComposerDeps{
		Log:         log,
		Posts:       set.Posts,
		Performance: performance.NewClassifier(set.Posts, set.Patterns, log),
		Market:      market,
		Provider:    provider,
		Humanizer:   h,
		Styles:      lifecycle.NewStyleSampler(nil),
		Params:      params,
	})
	return composer, scheduler.New(set.Posts, h, log)
}

func buildRouterConfig(a *App) apphttp.RouterConfig {
	var pinger httpH.Pinger
	if a.DB != nil {
		if sqlDB, err := a.DB.DB().DB(); err == nil {
			pinger = sqlDB
		}
	}
	return apphttp.RouterConfig{
		Log:             a.Logs.Named("HTTP"),
		Metrics:         a.Metrics,
		ServiceName:     a.Cfg.Telemetry.Tracing.ServiceName,
		CORSOrigins:     a.Cfg.HTTP.CORSOrigins,
		HealthHandler:   httpH.NewHealthHandler(pinger),
		CampaignHandler: httpH.NewCampaignHandler(a.Logs.Named("HTTP"), a.Runner),
	}
}
