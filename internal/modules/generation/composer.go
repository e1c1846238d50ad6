package generation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"

	"github.com/yungbote/moonshill-backend/internal/data/repos"
	types "github.com/yungbote/moonshill-backend/internal/domain"
	"github.com/yungbote/moonshill-backend/internal/modules/generation/humanize"
	"github.com/yungbote/moonshill-backend/internal/modules/generation/lifecycle"
	"github.com/yungbote/moonshill-backend/internal/modules/generation/performance"
	"github.com/yungbote/moonshill-backend/internal/modules/generation/prompts"
	"github.com/yungbote/moonshill-backend/internal/pkg/dbctx"
	apperr "github.com/yungbote/moonshill-backend/internal/pkg/errors"
	"github.com/yungbote/moonshill-backend/internal/platform/llm"
	"github.com/yungbote/moonshill-backend/internal/platform/logger"
	"github.com/yungbote/moonshill-backend/internal/platform/marketdata"
)

const (
	stageWindow   = 3
	trendingLimit = 5
)

type ComposerDeps struct {
	Log         *logger.Logger
	Posts       repos.PostRepo
	Performance *performance.Classifier
	Market      marketdata.Source
	Provider    llm.Provider
	Humanizer   *humanize.Humanizer
	Styles      *lifecycle.StyleSampler
	Params      llm.Params
	Now         func() time.Time
}

type Composer struct {
	log       *logger.Logger
	posts     repos.PostRepo
	perf      *performance.Classifier
	market    marketdata.Source
	provider  llm.Provider
	humanizer *humanize.Humanizer
	styles    *lifecycle.StyleSampler
	params    llm.Params
	now       func() time.Time
}

func NewComposer(deps ComposerDeps) *Composer {
	log := deps.Log
	if log == nil {
		log = logger.NewNop()
	}
	market := deps.Market
	if market == nil {
		market = marketdata.Empty{}
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	h := deps.Humanizer
	if h == nil {
		h = humanize.New(nil)
	}
	styles := deps.Styles
	if styles == nil {
		styles = lifecycle.NewStyleSampler(nil)
	}
	params := deps.Params.WithDefaults()
	if deps.Params == (llm.Params{}) {
		params = llm.DefaultParams()
	}
	return &Composer{
		log:       log.With("service", "Composer"),
		posts:     deps.Posts,
		perf:      deps.Performance,
		market:    market,
		provider:  deps.Provider,
		humanizer: h,
		styles:    styles,
		params:    params,
		now:       now,
	}
}

// Composition is the outcome of prompt assembly for one platform.
type Composition struct {
	Prompt      string
	Phase       types.Phase
	Stage       types.Stage
	Style       types.Style
	Trending    []string
	Performance performance.Aggregate
	ComposedAt  time.Time
}

// Compose gathers history, market and performance context and renders the
// prompt for one (campaign, platform) attempt.
func (c *Composer) Compose(ctx context.Context, campaign *types.Campaign, settings *types.CampaignSettings, platform types.Platform, goal types.StrategyGoal) (*Composition, error) {
	if campaign == nil {
		return nil, apperr.DataIntegrity("compose", uuid.Nil, fmt.Errorf("campaign missing"))
	}
	if settings == nil {
		return nil, apperr.DataIntegrity("compose", campaign.ID, fmt.Errorf("settings missing"))
	}
	loc, err := settings.Location()
	if err != nil {
		return nil, apperr.Configuration("compose", campaign.ID, fmt.Errorf("origin_timezone %q: %w", settings.OriginTimezone, err))
	}
	if goal == "" {
		goal = settings.StrategyGoal
	}

	now := c.now()
	dbc := dbctx.Context{Ctx: ctx}

	recent, err := c.posts.Recent(dbc, campaign.ID, nil, settings.MemoryWindow())
	if err != nil {
		return nil, fmt.Errorf("load recent posts: %w", err)
	}
	phase := lifecycle.CampaignPhase(campaign, now)
	stage := lifecycle.ResolveStage(phase, recent)

	stagePosts, err := c.posts.ByStage(dbc, campaign.ID, stage, nil, stageWindow)
	if err != nil {
		return nil, fmt.Errorf("load stage posts: %w", err)
	}

	var agg performance.Aggregate
	if c.perf != nil {
		agg, err = c.perf.Learn(ctx, campaign.ID, performance.DefaultWindow, loc)
		if err != nil {
			return nil, fmt.Errorf("analyze performance: %w", err)
		}
	}
	style := c.styles.Choose(phase, agg.Styles)

	snap, err := c.market.Context(ctx, marketdata.Query{
		TokenAddress: campaign.TokenAddress,
		Chain:        campaign.Chain,
		Keywords:     marketKeywords(campaign),
	})
	if err != nil {
		c.log.Warn("Market context unavailable", "campaign_id", campaign.ID, "error", err)
		snap = marketdata.Snapshot{}
	}
	trending := snap.TopicNames(trendingLimit)

	maxTags := settings.MaxHashtagsPerPost
	if settings.HashtagUsage == types.UsageNone {
		maxTags = 0
	}
	prompt, err := prompts.Build(prompts.Input{
		ProjectName:      campaign.ProjectName,
		ProjectInfo:      campaign.ProjectInfo,
		KeyMessages:      campaign.KeyMessages,
		Persona:          settings.Persona,
		LanguageStyle:    settings.LanguageStyle,
		EmojiUsage:       settings.EmojiUsage,
		HashtagUsage:     settings.HashtagUsage,
		MaxHashtags:      maxTags,
		Platform:         platform,
		PlatformSettings: settings.Platform(platform),
		Market:           snap.Market,
		Trending:         trending,
		Goal:             goal,
		Phase:            phase,
		Stage:            stage,
		Style:            style,
		Recent:           recent,
		StagePosts:       stagePosts,
		Performance:      agg,
		Time:             prompts.NewTimeContext(now, loc),
	})
	if err != nil {
		return nil, err
	}

	return &Composition{
		Prompt:      prompt,
		Phase:       phase,
		Stage:       stage,
		Style:       style,
		Trending:    trending,
		Performance: agg,
		ComposedAt:  now,
	}, nil
}

type Result struct {
	Post        *types.SocialPost
	Composition *Composition
}

// Generate composes, calls the provider, post-processes and persists one
// post. Nothing is written unless both text and embedding were produced.
func (c *Composer) Generate(ctx context.Context, campaign *types.Campaign, settings *types.CampaignSettings, platform types.Platform, goal types.StrategyGoal) (*Result, error) {
	if c.provider == nil {
		return nil, fmt.Errorf("composer has no provider")
	}
	comp, err := c.Compose(ctx, campaign, settings, platform, goal)
	if err != nil {
		return nil, err
	}
	if goal == "" {
		goal = settings.StrategyGoal
	}

	raw, err := c.provider.Generate(ctx, comp.Prompt, c.params)
	if err != nil {
		return nil, apperr.Provider("generate", campaign.ID, string(platform), err)
	}
	if strings.TrimSpace(raw) == "" {
		return nil, apperr.Provider("generate", campaign.ID, string(platform), fmt.Errorf("empty completion"))
	}

	text := c.humanizer.HumanizeAs(raw, settings.AICreativityLevel, humanize.Profile{
		Device: settings.Device,
		Emoji:  settings.EmojiUsage,
	})
	text = prompts.Format(text, prompts.OptionsFor(campaign, settings, platform))
	if text == "" {
		return nil, apperr.Provider("generate", campaign.ID, string(platform), fmt.Errorf("completion empty after formatting"))
	}

	vec, err := c.provider.Embed(ctx, text)
	if err != nil {
		return nil, apperr.Provider("embed", campaign.ID, string(platform), err)
	}
	if len(vec) == 0 {
		return nil, apperr.Provider("embed", campaign.ID, string(platform), fmt.Errorf("empty embedding"))
	}
	emb := pgvector.NewVector(vec)

	status := types.PostScheduled
	if settings.ContentApprovalRequired {
		status = types.PostDraft
	}
	post := &types.SocialPost{
		CampaignID:    campaign.ID,
		Platform:      platform,
		Content:       text,
		Stage:         comp.Stage,
		Style:         comp.Style,
		Type:          types.PostTypeText,
		Status:        status,
		ScheduledTime: comp.ComposedAt,
		Embedding:     &emb,
		Metadata: datatypes.NewJSONType(types.PostMetadata{
			Phase:     comp.Phase,
			Goal:      goal,
			Model:     c.provider.Model(),
			Intensity: settings.AICreativityLevel,
			Device:    settings.Device,
			Trending:  comp.Trending,
		}),
	}
	if _, err := c.posts.Add(dbctx.Context{Ctx: ctx}, post); err != nil {
		return nil, fmt.Errorf("store post: %w", err)
	}

	c.log.Info("Generated post",
		"campaign_id", campaign.ID,
		"platform", platform,
		"phase", comp.Phase,
		"stage", comp.Stage,
		"style", comp.Style,
		"status", status,
	)
	return &Result{Post: post, Composition: comp}, nil
}

func marketKeywords(c *types.Campaign) []string {
	var out []string
	for _, s := range []string{c.ProjectName, c.Name} {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
