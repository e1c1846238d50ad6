package scheduler

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/yungbote/moonshill-backend/internal/data/repos"
	types "github.com/yungbote/moonshill-backend/internal/domain"
	"github.com/yungbote/moonshill-backend/internal/modules/generation/humanize"
	"github.com/yungbote/moonshill-backend/internal/pkg/dbctx"
	apperr "github.com/yungbote/moonshill-backend/internal/pkg/errors"
	"github.com/yungbote/moonshill-backend/internal/platform/logger"
)

// Jitter perturbs a candidate run time. *humanize.Humanizer satisfies it.
type Jitter interface {
	NextSilence(base time.Time, unit humanize.Unit, lo, hi int) time.Time
}

// Plan is the pure next-run computation. postsToday counts posts since
// local midnight in the settings timezone.
func Plan(now time.Time, s *types.CampaignSettings, postsToday int64, j Jitter) (time.Time, error) {
	if s == nil {
		return time.Time{}, fmt.Errorf("settings missing")
	}
	if s.MaxDailyPosts <= 0 {
		return time.Time{}, fmt.Errorf("max_daily_posts must be positive, got %d", s.MaxDailyPosts)
	}
	loc, err := s.Location()
	if err != nil {
		return time.Time{}, fmt.Errorf("origin_timezone %q: %w", s.OriginTimezone, err)
	}

	base := 24 * time.Hour / time.Duration(s.MaxDailyPosts)
	candidate := now.Add(base)
	if j != nil {
		hi := int(math.Floor(2 * base.Hours()))
		if hi < 1 {
			hi = 1
		}
		candidate = j.NextSilence(candidate, humanize.UnitHour, 1, hi)
	}

	if floor := now.Add(time.Duration(s.MinTimeBetweenPosts) * time.Minute); candidate.Before(floor) {
		candidate = floor
	}
	if postsToday >= int64(s.MaxDailyPosts) {
		candidate = NextLocalMidnight(now, loc)
	}
	return candidate, nil
}

func LocalMidnight(now time.Time, loc *time.Location) time.Time {
	l := now.In(loc)
	return time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, loc)
}

func NextLocalMidnight(now time.Time, loc *time.Location) time.Time {
	l := now.In(loc)
	return time.Date(l.Year(), l.Month(), l.Day()+1, 0, 0, 0, 0, loc)
}

type Scheduler struct {
	posts  repos.PostRepo
	jitter Jitter
	log    *logger.Logger
}

func New(posts repos.PostRepo, jitter Jitter, log *logger.Logger) *Scheduler {
	if log == nil {
		log = logger.NewNop()
	}
	return &Scheduler{posts: posts, jitter: jitter, log: log.With("service", "Scheduler")}
}

// NextRun computes the campaign's next run time. Invalid settings surface as
// configuration errors.
func (s *Scheduler) NextRun(ctx context.Context, c *types.Campaign, settings *types.CampaignSettings, now time.Time) (time.Time, error) {
	if settings == nil {
		return time.Time{}, apperr.Configuration("next_run", c.ID, fmt.Errorf("settings missing"))
	}
	if settings.MaxDailyPosts <= 0 {
		return time.Time{}, apperr.Configuration("next_run", c.ID, fmt.Errorf("max_daily_posts must be positive, got %d", settings.MaxDailyPosts))
	}
	loc, err := settings.Location()
	if err != nil {
		return time.Time{}, apperr.Configuration("next_run", c.ID, fmt.Errorf("origin_timezone %q: %w", settings.OriginTimezone, err))
	}
	today, err := s.posts.CountSince(dbctx.Context{Ctx: ctx}, c.ID, LocalMidnight(now, loc))
	if err != nil {
		return time.Time{}, fmt.Errorf("count posts today: %w", err)
	}
	next, err := Plan(now, settings, today, s.jitter)
	if err != nil {
		return time.Time{}, apperr.Configuration("next_run", c.ID, err)
	}
	s.log.Debug("Planned next run", "campaign_id", c.ID, "posts_today", today, "next_run_at", next)
	return next, nil
}
