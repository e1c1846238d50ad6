package marketdata

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/moonshill-backend/internal/platform/logger"
)

type aggregator struct {
	gecko   *CoinGecko
	news    *CryptoCompare
	timeout time.Duration
	log     *logger.Logger
	observe func(source string, err error)
}

type Option func(*aggregator)

// WithObserver reports every upstream fetch, e.g. to a metrics counter.
func WithObserver(fn func(source string, err error)) Option {
	return func(a *aggregator) { a.observe = fn }
}

// NewAggregator fetches price, trending coins and news in parallel. A nil
// news client skips headlines. Each upstream failure is logged and leaves
// its part of the snapshot empty.
func NewAggregator(gecko *CoinGecko, news *CryptoCompare, timeout time.Duration, log *logger.Logger, opts ...Option) Source {
	if gecko == nil {
		gecko = &CoinGecko{}
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if log == nil {
		log = logger.NewNop()
	}
	a := &aggregator{gecko: gecko, news: news, timeout: timeout, log: log.With("service", "MarketData")}
	for _, opt := range opts {
		opt(a)
	}
	if a.observe == nil {
		a.observe = func(string, error) {}
	}
	return a
}

func (a *aggregator) Context(ctx context.Context, q Query) (Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	var (
		snap   = Snapshot{FetchedAt: time.Now().UTC()}
		market *MarketData
		topics []Topic
		news   []NewsItem
	)

	// Goroutines never return errors so one failing upstream cannot cancel
	// the others.
	g, gctx := errgroup.WithContext(ctx)
	if q.TokenAddress != "" {
		g.Go(func() error {
			md, err := a.gecko.TokenPrice(gctx, q.Chain, q.TokenAddress)
			a.observe("coingecko_price", err)
			if err != nil {
				a.log.Warn("Token price unavailable", "chain", q.Chain, "contract", q.TokenAddress, "error", err)
				return nil
			}
			market = md
			return nil
		})
	}
	g.Go(func() error {
		out, err := a.gecko.Trending(gctx)
		a.observe("coingecko_trending", err)
		if err != nil {
			a.log.Warn("Trending topics unavailable", "error", err)
			return nil
		}
		topics = out
		return nil
	})
	if a.news != nil {
		g.Go(func() error {
			out, err := a.news.News(gctx, q.Keywords)
			a.observe("cryptocompare_news", err)
			if err != nil {
				a.log.Warn("News unavailable", "error", err)
				return nil
			}
			news = out
			return nil
		})
	}
	_ = g.Wait()

	snap.Market = market
	snap.TrendingTopics = topics
	snap.News = news
	return snap, nil
}
