package performance

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/moonshill-backend/internal/data/repos"
	types "github.com/yungbote/moonshill-backend/internal/domain"
	"github.com/yungbote/moonshill-backend/internal/pkg/dbctx"
	"github.com/yungbote/moonshill-backend/internal/platform/logger"
)

const (
	DefaultWindow = 100
	// ProvenLimit caps how many stored patterns feed a prompt.
	ProvenLimit = 3
)

type Classifier struct {
	posts    repos.PostRepo
	patterns repos.PatternRepo
	log      *logger.Logger
	now      func() time.Time
}

func NewClassifier(posts repos.PostRepo, patterns repos.PatternRepo, log *logger.Logger) *Classifier {
	if log == nil {
		log = logger.NewNop()
	}
	return &Classifier{
		posts:    posts,
		patterns: patterns,
		log:      log.With("service", "PerformanceClassifier"),
		now:      time.Now,
	}
}

// Analyze tiers the campaign's most recent window posts.
func (c *Classifier) Analyze(ctx context.Context, campaignID uuid.UUID, window int) (Tiered, error) {
	if window <= 0 {
		window = DefaultWindow
	}
	posts, err := c.posts.Recent(dbctx.Context{Ctx: ctx}, campaignID, nil, window)
	if err != nil {
		return Tiered{}, err
	}
	return Split(posts), nil
}

// Learn runs Analyze, folds newly successful posts into engagement patterns
// and returns their aggregate. Pattern write failures are logged, not
// returned.
func (c *Classifier) Learn(ctx context.Context, campaignID uuid.UUID, window int, loc *time.Location) (Aggregate, error) {
	tiered, err := c.Analyze(ctx, campaignID, window)
	if err != nil {
		return Aggregate{}, err
	}
	successful := tiered.Successful()
	c.record(ctx, campaignID, successful)
	agg := Patterns(successful, loc)
	agg.Proven = c.proven(ctx, campaignID)
	c.log.Debug("Analyzed performance",
		"campaign_id", campaignID,
		"posts", tiered.Total(),
		"high", len(tiered.High),
		"medium", len(tiered.Medium),
		"proven", len(agg.Proven),
	)
	return agg, nil
}

// proven reads back the stored patterns with the most observations. Read
// failures degrade to none.
func (c *Classifier) proven(ctx context.Context, campaignID uuid.UUID) []Proven {
	if c.patterns == nil {
		return nil
	}
	rows, err := c.patterns.ListByCampaign(dbctx.Context{Ctx: ctx}, campaignID, types.PatternTypeStyle)
	if err != nil {
		c.log.Warn("Failed to load engagement patterns", "campaign_id", campaignID, "error", err)
		return nil
	}
	var out []Proven
	for _, r := range rows {
		if len(out) == ProvenLimit {
			break
		}
		if r == nil || r.SuccessRate <= 0 || r.PatternValue == "" {
			continue
		}
		out = append(out, Proven{
			Style:       r.Style,
			Opening:     r.PatternValue,
			SuccessRate: r.SuccessRate,
			SampleSize:  r.SampleSize,
		})
	}
	return out
}

func (c *Classifier) record(ctx context.Context, campaignID uuid.UUID, successful []*types.SocialPost) {
	if c.patterns == nil {
		return
	}
	dbc := dbctx.Context{Ctx: ctx}
	var folded []uuid.UUID
	for _, p := range successful {
		if p.PatternRecordedAt != nil {
			continue
		}
		err := c.patterns.Record(dbc, &types.EngagementPattern{
			CampaignID:   campaignID,
			PatternType:  types.PatternTypeStyle,
			Style:        p.Style,
			PatternValue: PatternPrefix(p.Content),
			SuccessRate:  p.EngagementRate,
		})
		if err != nil {
			c.log.Warn("Failed to record engagement pattern", "campaign_id", campaignID, "post_id", p.ID, "error", err)
			continue
		}
		folded = append(folded, p.ID)
	}
	if err := c.posts.MarkPatternRecorded(dbc, folded, c.now()); err != nil {
		c.log.Warn("Failed to mark posts as folded", "campaign_id", campaignID, "error", err)
	}
}
