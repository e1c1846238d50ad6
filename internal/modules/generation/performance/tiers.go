package performance

import (
	"sort"
	"time"
	"unicode/utf8"

	types "github.com/yungbote/moonshill-backend/internal/domain"
)

type Tier string

const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
)

type Thresholds struct {
	EngagementRate float64
	Virality       float64
	Sentiment      float64
}

func (t Thresholds) met(m types.PostMetrics) bool {
	return m.EngagementRate >= t.EngagementRate &&
		m.ViralityScore >= t.Virality &&
		m.SentimentScore >= t.Sentiment
}

var (
	HighThresholds   = Thresholds{EngagementRate: 0.05, Virality: 0.8, Sentiment: 0.7}
	MediumThresholds = Thresholds{EngagementRate: 0.02, Virality: 0.5, Sentiment: 0.5}
	LowThresholds    = Thresholds{EngagementRate: 0.01, Virality: 0.3, Sentiment: 0.3}
)

// Classify returns the highest tier whose thresholds are all met. Posts
// meeting none are low.
func Classify(m types.PostMetrics) Tier {
	switch {
	case HighThresholds.met(m):
		return TierHigh
	case MediumThresholds.met(m):
		return TierMedium
	default:
		return TierLow
	}
}

type Tiered struct {
	High   []*types.SocialPost
	Medium []*types.SocialPost
	Low    []*types.SocialPost
}

// Successful is High followed by Medium.
func (t Tiered) Successful() []*types.SocialPost {
	out := make([]*types.SocialPost, 0, len(t.High)+len(t.Medium))
	out = append(out, t.High...)
	return append(out, t.Medium...)
}

func (t Tiered) Total() int { return len(t.High) + len(t.Medium) + len(t.Low) }

// Split buckets posts by tier, keeping input order within a tier.
func Split(posts []*types.SocialPost) Tiered {
	var out Tiered
	for _, p := range posts {
		if p == nil {
			continue
		}
		switch Classify(p.Metrics) {
		case TierHigh:
			out.High = append(out.High, p)
		case TierMedium:
			out.Medium = append(out.Medium, p)
		default:
			out.Low = append(out.Low, p)
		}
	}
	return out
}

// Aggregate summarizes what successful posts have in common. The zero value
// means no evidence.
type Aggregate struct {
	Stages           map[types.Stage]float64
	Styles           map[types.Style]float64
	EngagementByHour map[int]float64
	Centroid         []float32
	SampleSize       int
	// Proven holds the campaign's longest-standing engagement patterns,
	// which outlive the recent window.
	Proven []Proven
}

// Proven is one stored engagement pattern.
type Proven struct {
	Style       types.Style
	Opening     string
	SuccessRate float64
	SampleSize  int
}

func (a Aggregate) Empty() bool { return a.SampleSize == 0 && len(a.Proven) == 0 }

// TopStyles returns styles by descending share, ties by name.
func (a Aggregate) TopStyles() []types.Style {
	out := make([]types.Style, 0, len(a.Styles))
	for s := range a.Styles {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if a.Styles[out[i]] != a.Styles[out[j]] {
			return a.Styles[out[i]] > a.Styles[out[j]]
		}
		return out[i] < out[j]
	})
	return out
}

// BestHour is the hour with the highest average engagement, or -1.
func (a Aggregate) BestHour() int {
	best, bestRate := -1, -1.0
	for h := 0; h < 24; h++ {
		if r, ok := a.EngagementByHour[h]; ok && r > bestRate {
			best, bestRate = h, r
		}
	}
	return best
}

// Patterns aggregates successful posts. Hours are taken in loc (UTC when nil).
func Patterns(successful []*types.SocialPost, loc *time.Location) Aggregate {
	if loc == nil {
		loc = time.UTC
	}
	var posts []*types.SocialPost
	for _, p := range successful {
		if p != nil {
			posts = append(posts, p)
		}
	}
	if len(posts) == 0 {
		return Aggregate{}
	}

	agg := Aggregate{
		Stages:           map[types.Stage]float64{},
		Styles:           map[types.Style]float64{},
		EngagementByHour: map[int]float64{},
		SampleSize:       len(posts),
	}
	hourCounts := map[int]int{}
	var (
		sum []float64
		n   int
	)
	for _, p := range posts {
		agg.Stages[p.Stage]++
		agg.Styles[p.Style]++
		h := p.CreatedAt.In(loc).Hour()
		agg.EngagementByHour[h] += p.EngagementRate
		hourCounts[h]++

		v := p.Vector()
		if len(v) == 0 {
			continue
		}
		if sum == nil {
			sum = make([]float64, len(v))
		}
		if len(v) != len(sum) {
			continue
		}
		for i, x := range v {
			sum[i] += float64(x)
		}
		n++
	}

	total := float64(len(posts))
	for k := range agg.Stages {
		agg.Stages[k] /= total
	}
	for k := range agg.Styles {
		agg.Styles[k] /= total
	}
	for h, c := range hourCounts {
		agg.EngagementByHour[h] /= float64(c)
	}
	if n > 0 {
		agg.Centroid = make([]float32, len(sum))
		for i := range sum {
			agg.Centroid[i] = float32(sum[i] / float64(n))
		}
	}
	return agg
}

const patternPrefixRunes = 64

// PatternPrefix is the opening used to key engagement patterns.
func PatternPrefix(content string) string {
	if utf8.RuneCountInString(content) <= patternPrefixRunes {
		return content
	}
	r := []rune(content)
	return string(r[:patternPrefixRunes])
}
