package marketdata

import (
	"context"
	"strings"
	"time"
)

type MarketData struct {
	PriceUSD       float64   `json:"price_usd"`
	Volume24h      float64   `json:"volume_24h"`
	MarketCap      float64   `json:"market_cap"`
	PriceChange24h float64   `json:"price_change_24h"`
	LastUpdated    time.Time `json:"last_updated"`
}

type Topic struct {
	Name   string `json:"name"`
	Source string `json:"source"`
	URL    string `json:"url,omitempty"`
}

type NewsItem struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
}

// Snapshot is everything the prompt composer knows about the market for one
// generation. Any part may be empty.
type Snapshot struct {
	Market         *MarketData `json:"market,omitempty"`
	TrendingTopics []Topic     `json:"trending_topics"`
	News           []NewsItem  `json:"news"`
	FetchedAt      time.Time   `json:"fetched_at"`
}

// TopicNames returns trending topic names followed by news headlines,
// de-duplicated, capped at limit.
func (s Snapshot) TopicNames(limit int) []string {
	seen := map[string]bool{}
	var out []string
	add := func(name string) {
		name = strings.TrimSpace(name)
		key := strings.ToLower(name)
		if name == "" || seen[key] || (limit > 0 && len(out) >= limit) {
			return
		}
		seen[key] = true
		out = append(out, name)
	}
	for _, t := range s.TrendingTopics {
		add(t.Name)
	}
	for _, n := range s.News {
		add(n.Title)
	}
	return out
}

type Query struct {
	TokenAddress string
	Chain        string
	Keywords     []string
}

// Source returns a market snapshot. Implementations degrade to an empty
// snapshot instead of failing the caller.
type Source interface {
	Context(ctx context.Context, q Query) (Snapshot, error)
}

// Empty is a Source that never has data.
type Empty struct{}

func (Empty) Context(ctx context.Context, q Query) (Snapshot, error) {
	return Snapshot{FetchedAt: time.Now().UTC()}, nil
}

func matchesAny(text string, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	low := strings.ToLower(text)
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" && strings.Contains(low, kw) {
			return true
		}
	}
	return false
}
