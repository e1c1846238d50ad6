package campaigntick

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/moonshill-backend/internal/data/repos"
	types "github.com/yungbote/moonshill-backend/internal/domain"
	"github.com/yungbote/moonshill-backend/internal/modules/campaigns/scheduler"
	"github.com/yungbote/moonshill-backend/internal/modules/generation"
	"github.com/yungbote/moonshill-backend/internal/observability"
	"github.com/yungbote/moonshill-backend/internal/pkg/dbctx"
	apperr "github.com/yungbote/moonshill-backend/internal/pkg/errors"
	"github.com/yungbote/moonshill-backend/internal/platform/ctxutil"
	"github.com/yungbote/moonshill-backend/internal/platform/logger"
)

// Generator produces and stores one post. *generation.Composer satisfies it.
type Generator interface {
	Generate(ctx context.Context, c *types.Campaign, s *types.CampaignSettings, p types.Platform, goal types.StrategyGoal) (*generation.Result, error)
}

// Planner computes the next run time. *scheduler.Scheduler satisfies it.
type Planner interface {
	NextRun(ctx context.Context, c *types.Campaign, s *types.CampaignSettings, now time.Time) (time.Time, error)
}

type Config struct {
	// Concurrency bounds how many campaigns one batch processes at once.
	Concurrency int
	// BatchLimit caps how many due campaigns one batch lists.
	BatchLimit int
	// Lease is how long a claim stays valid. It must exceed the worst-case
	// unit duration including provider retries.
	Lease time.Duration
}

func (c Config) withDefaults() Config {
	if c.Concurrency <= 0 {
		c.Concurrency = 4
	}
	if c.BatchLimit <= 0 {
		c.BatchLimit = 500
	}
	if c.Lease <= 0 {
		c.Lease = 10 * time.Minute
	}
	return c
}

type Deps struct {
	Log         *logger.Logger
	Campaigns   repos.CampaignRepo
	Settings    repos.SettingsRepo
	Connections repos.ConnectionRepo
	Generator   Generator
	Planner     Planner
	Metrics     *observability.Metrics
	Now         func() time.Time
}

type Runner struct {
	log         *logger.Logger
	campaigns   repos.CampaignRepo
	settings    repos.SettingsRepo
	connections repos.ConnectionRepo
	gen         Generator
	planner     Planner
	metrics     *observability.Metrics
	now         func() time.Time
	cfg         Config
}

func NewRunner(deps Deps, cfg Config) (*Runner, error) {
	if deps.Campaigns == nil || deps.Settings == nil || deps.Connections == nil {
		return nil, fmt.Errorf("campaigntick: missing repos")
	}
	if deps.Generator == nil || deps.Planner == nil {
		return nil, fmt.Errorf("campaigntick: missing generator or planner")
	}
	log := deps.Log
	if log == nil {
		log = logger.NewNop()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Runner{
		log:         log.With("component", "CampaignTick"),
		campaigns:   deps.Campaigns,
		settings:    deps.Settings,
		connections: deps.Connections,
		gen:         deps.Generator,
		planner:     deps.Planner,
		metrics:     deps.Metrics,
		now:         now,
		cfg:         cfg.withDefaults(),
	}, nil
}

// PlatformFailure is one (campaign, platform) unit that did not produce a
// post.
type PlatformFailure struct {
	Platform types.Platform
	Kind     apperr.Kind
	Err      error
}

// Outcome describes what happened to one campaign in a cycle.
type Outcome struct {
	CampaignID uuid.UUID
	// Skipped is set when the campaign was claimed but not eligible.
	Skipped  scheduler.Reason
	Posts    []*types.SocialPost
	Failures []PlatformFailure
	// NextRunAt is set only when the schedule advanced.
	NextRunAt *time.Time
	// Paused is set when a configuration error disabled automation.
	Paused bool
}

type BatchResult struct {
	Listed   int
	Claimed  int
	Lost     int
	Skipped  int
	Advanced int
	Paused   int
	Failed   int
	Posts    int
}

// RunBatch processes every due campaign once. Per-campaign failures are
// logged and counted; only the listing query can fail the batch.
func (r *Runner) RunBatch(ctx context.Context) (BatchResult, error) {
	ctx, span := observability.Tracer().Start(ctx, "campaigntick.batch")
	defer span.End()

	start := time.Now()
	var res BatchResult

	due, err := r.campaigns.ListDue(dbctx.Context{Ctx: ctx}, r.now(), r.cfg.BatchLimit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list due campaigns")
		return res, fmt.Errorf("list due campaigns: %w", err)
	}
	res.Listed = len(due)
	span.SetAttributes(attribute.Int("campaigns.due", len(due)))

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Concurrency)
	for _, c := range due {
		id := c.ID
		g.Go(func() error {
			out, err := r.RunCampaign(gctx, id, false)
			mu.Lock()
			defer mu.Unlock()
			if errors.Is(err, apperr.ErrClaimed) {
				res.Lost++
				return nil
			}
			if out == nil {
				res.Failed++
				return nil
			}
			res.Claimed++
			res.Posts += len(out.Posts)
			switch {
			case out.Paused:
				res.Paused++
			case out.Skipped != "":
				res.Skipped++
			case err == nil && out.NextRunAt != nil:
				res.Advanced++
			default:
				res.Failed++
			}
			return nil
		})
	}
	_ = g.Wait()

	r.metrics.ObserveBatch(time.Since(start), res.Claimed)
	r.log.Info("Campaign batch finished",
		"listed", res.Listed,
		"claimed", res.Claimed,
		"lost", res.Lost,
		"advanced", res.Advanced,
		"skipped", res.Skipped,
		"paused", res.Paused,
		"failed", res.Failed,
		"posts", res.Posts,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

// RunCampaign claims one campaign, generates a post per connected platform
// and re-arms its schedule. With force the due-time check is bypassed, which
// is how "generate now" runs. ErrClaimed means the claim was refused: another
// unit holds the lease, or the campaign is not due and force is unset. A
// campaign that does not exist is a DataIntegrity error wrapping ErrNotFound.
func (r *Runner) RunCampaign(ctx context.Context, campaignID uuid.UUID, force bool) (*Outcome, error) {
	ctx, span := observability.Tracer().Start(ctx, "campaigntick.unit")
	defer span.End()
	span.SetAttributes(attribute.String("campaign.id", campaignID.String()), attribute.Bool("force", force))

	now := r.now()
	log := r.log.With("campaign_id", campaignID)
	if td := ctxutil.GetTraceData(ctx); td != nil && td.RequestID != "" {
		log = log.With("request_id", td.RequestID)
	}

	won, err := r.campaigns.Claim(dbctx.Context{Ctx: ctx}, campaignID, now, r.cfg.Lease, force)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("claim campaign: %w", err)
	}
	if !won {
		// A refused claim is also what a missing row looks like.
		c, err := r.campaigns.GetByID(dbctx.Context{Ctx: ctx}, campaignID)
		if err != nil {
			return nil, fmt.Errorf("load campaign: %w", err)
		}
		if c == nil {
			r.metrics.ObserveCampaign("data_integrity")
			return nil, apperr.DataIntegrity("claim_campaign", campaignID, apperr.ErrNotFound)
		}
		r.metrics.ObserveCampaign("lost")
		return nil, apperr.ErrClaimed
	}
	r.metrics.ObserveCampaign("claimed")

	out := &Outcome{CampaignID: campaignID}
	var nextRun *time.Time
	released := false
	release := func() {
		if released {
			return
		}
		released = true
		// The lease must be cleared even if the batch context was cancelled.
		rctx := context.WithoutCancel(ctx)
		if err := r.campaigns.Release(dbctx.Context{Ctx: rctx}, campaignID, r.now(), nextRun); err != nil {
			log.Error("Failed to release campaign lease", "error", err)
		}
	}
	defer release()

	runErr := r.process(ctx, log, campaignID, now, force, out)
	if runErr != nil {
		span.RecordError(runErr)
		span.SetStatus(codes.Error, string(apperr.KindOf(runErr)))
	}
	switch {
	case apperr.IsKind(runErr, apperr.KindConfiguration):
		log.Error("Configuration error; pausing campaign", "error", runErr)
		if err := r.campaigns.Pause(dbctx.Context{Ctx: context.WithoutCancel(ctx)}, campaignID, runErr.Error()); err != nil {
			log.Error("Failed to pause campaign", "error", err)
		} else {
			released = true
		}
		out.Paused = true
		r.metrics.ObserveCampaign("paused")
		return out, runErr
	case apperr.IsKind(runErr, apperr.KindDataIntegrity):
		log.Warn("Skipping campaign", "error", runErr)
		r.metrics.ObserveCampaign("data_integrity")
		return out, runErr
	case runErr != nil:
		log.Error("Campaign cycle failed", "error", runErr)
		return out, runErr
	}

	if out.Skipped != "" {
		log.Debug("Campaign not eligible", "reason", out.Skipped)
		r.metrics.ObserveCampaign("skipped_" + string(out.Skipped))
		return out, nil
	}
	if len(out.Posts) == 0 {
		log.Warn("No platform produced a post; schedule unchanged", "failures", len(out.Failures))
		return out, nil
	}
	nextRun = out.NextRunAt
	r.metrics.ObserveCampaign("advanced")
	return out, nil
}

func (r *Runner) process(ctx context.Context, log *logger.Logger, campaignID uuid.UUID, now time.Time, force bool, out *Outcome) error {
	dbc := dbctx.Context{Ctx: ctx}

	c, err := r.campaigns.GetByID(dbc, campaignID)
	if err != nil {
		return fmt.Errorf("load campaign: %w", err)
	}
	if c == nil {
		return apperr.DataIntegrity("load_campaign", campaignID, apperr.ErrNotFound)
	}
	settings, err := r.settings.GetByCampaign(dbc, campaignID)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if settings == nil {
		return apperr.DataIntegrity("load_settings", campaignID, apperr.ErrNotFound)
	}
	platforms, err := r.connections.ListConnected(dbc, campaignID)
	if err != nil {
		return fmt.Errorf("list connections: %w", err)
	}

	check := now
	if force && c.NextRunAt != nil && c.NextRunAt.After(now) {
		// Forced runs ignore the due time but nothing else.
		check = *c.NextRunAt
	}
	if ok, reason := scheduler.Eligible(c, settings, platforms, check); !ok {
		out.Skipped = reason
		return nil
	}
	if err := settings.Validate(); err != nil {
		return apperr.Configuration("validate_settings", campaignID, err)
	}

	for _, p := range platforms {
		res, err := r.gen.Generate(ctx, c, settings, p, settings.StrategyGoal)
		if err != nil {
			kind := apperr.KindOf(err)
			r.metrics.ObserveUnitFailure(string(p), string(kind))
			if kind == apperr.KindConfiguration {
				return err
			}
			log.Warn("Platform generation failed", "platform", p, "kind", kind, "error", err)
			out.Failures = append(out.Failures, PlatformFailure{Platform: p, Kind: kind, Err: err})
			continue
		}
		out.Posts = append(out.Posts, res.Post)
		r.metrics.ObservePost(string(p), string(res.Post.Stage), string(res.Post.Style))
	}
	if len(out.Posts) == 0 {
		return nil
	}

	next, err := r.planner.NextRun(ctx, c, settings, r.now())
	if err != nil {
		return err
	}
	out.NextRunAt = &next
	log.Info("Campaign cycle complete", "posts", len(out.Posts), "failures", len(out.Failures), "next_run_at", next)
	return nil
}
