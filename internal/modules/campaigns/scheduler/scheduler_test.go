package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/moonshill-backend/internal/data/repos"
	"github.com/yungbote/moonshill-backend/internal/data/repos/testutil"
	types "github.com/yungbote/moonshill-backend/internal/domain"
	"github.com/yungbote/moonshill-backend/internal/modules/generation/humanize"
	"github.com/yungbote/moonshill-backend/internal/modules/generation/lifecycle"
	apperr "github.com/yungbote/moonshill-backend/internal/pkg/errors"
)

// fixedJitter always adds n units, or nothing when n is 0.
type fixedJitter struct {
	n     int
	calls []int
}

func (f *fixedJitter) NextSilence(base time.Time, unit humanize.Unit, lo, hi int) time.Time {
	f.calls = append(f.calls, lo, hi)
	if f.n == 0 {
		return base
	}
	return base.Add(time.Duration(f.n) * time.Duration(unit))
}

func settingsWith(maxDaily int) *types.CampaignSettings {
	s := types.DefaultCampaignSettings(uuid.New())
	s.MaxDailyPosts = maxDaily
	s.MinTimeBetweenPosts = 0
	return s
}

func TestPlanBaseInterval(t *testing.T) {
	now := time.Date(2026, 5, 6, 9, 0, 0, 0, time.UTC)
	j := &fixedJitter{}
	got, err := Plan(now, settingsWith(12), 0, j)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if want := now.Add(2 * time.Hour); !got.Equal(want) {
		t.Fatalf("next: want=%v got=%v", want, got)
	}
	if len(j.calls) != 2 || j.calls[0] != 1 || j.calls[1] != 4 {
		t.Fatalf("jitter bounds: want=[1 4] got=%v", j.calls)
	}
}

func TestPlanJitterCapped(t *testing.T) {
	now := time.Date(2026, 5, 6, 9, 0, 0, 0, time.UTC)
	got, err := Plan(now, settingsWith(12), 0, &fixedJitter{n: 4})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if want := now.Add(6 * time.Hour); !got.Equal(want) {
		t.Fatalf("next: want=%v got=%v", want, got)
	}
}

func TestPlanHighFrequencyKeepsOneHourJitterFloor(t *testing.T) {
	now := time.Date(2026, 5, 6, 9, 0, 0, 0, time.UTC)
	j := &fixedJitter{}
	if _, err := Plan(now, settingsWith(100), 0, j); err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if j.calls[0] != 1 || j.calls[1] != 1 {
		t.Fatalf("jitter bounds: want=[1 1] got=%v", j.calls)
	}
}

func TestPlanRejectsNonPositiveMaxDaily(t *testing.T) {
	now := time.Now()
	for _, n := range []int{0, -3} {
		if _, err := Plan(now, settingsWith(n), 0, nil); err == nil {
			t.Fatalf("Plan(max_daily_posts=%d): want error", n)
		}
	}
}

func TestPlanDailyCapLandsOnNextLocalMidnight(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	s := settingsWith(4)
	s.OriginTimezone = "America/New_York"
	now := time.Date(2026, 5, 6, 22, 30, 0, 0, loc)

	for _, jitter := range []int{0, 12} {
		got, err := Plan(now, s, 4, &fixedJitter{n: jitter})
		if err != nil {
			t.Fatalf("Plan: %v", err)
		}
		want := time.Date(2026, 5, 7, 0, 0, 0, 0, loc)
		if !got.Equal(want) {
			t.Fatalf("jitter=%d: want=%v got=%v", jitter, want, got)
		}
	}
}

func TestPlanHonoursMinSpacing(t *testing.T) {
	now := time.Date(2026, 5, 6, 9, 0, 0, 0, time.UTC)
	s := settingsWith(100)
	s.MinTimeBetweenPosts = 60
	got, err := Plan(now, s, 0, &fixedJitter{})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if want := now.Add(time.Hour); !got.Equal(want) {
		t.Fatalf("next: want=%v got=%v", want, got)
	}
}

func TestPlanAlwaysInFuture(t *testing.T) {
	h := humanize.NewSeeded(42)
	now := time.Date(2026, 5, 6, 23, 59, 0, 0, time.UTC)
	for _, maxDaily := range []int{1, 3, 12, 48, 100} {
		for today := int64(0); today < 3; today++ {
			got, err := Plan(now, settingsWith(maxDaily), today*int64(maxDaily), h)
			if err != nil {
				t.Fatalf("Plan: %v", err)
			}
			if !got.After(now) {
				t.Fatalf("max=%d today=%d: next %v not after %v", maxDaily, today, got, now)
			}
		}
	}
}

func TestEndToEndOneWeekCampaign(t *testing.T) {
	now := time.Date(2026, 5, 6, 9, 0, 0, 0, time.UTC)
	start := now.Add(-72 * time.Hour)
	if p := lifecycle.PhaseAt(start, types.TimelineOneWeek, now); p != types.PhaseMid {
		t.Fatalf("phase: want=MID got=%s", p)
	}
	if st := lifecycle.ResolveStage(types.PhaseMid, nil); st != types.StageDeepDive {
		t.Fatalf("stage: want=DEEP_DIVE got=%s", st)
	}
	h := humanize.NewSeeded(7)
	jittered := 0
	for i := 0; i < 500; i++ {
		got, err := Plan(now, settingsWith(12), 0, h)
		if err != nil {
			t.Fatalf("Plan: %v", err)
		}
		d := got.Sub(now)
		switch {
		case d == 2*time.Hour:
		case d >= 3*time.Hour && d <= 6*time.Hour:
			jittered++
		default:
			t.Fatalf("next run offset %v outside {2h} ∪ [3h,6h]", d)
		}
	}
	if jittered == 0 || jittered > 200 {
		t.Fatalf("jitter applied %d/500 times; want roughly 20%%", jittered)
	}
}

func TestSchedulerNextRunCountsTodaysPosts(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	set := repos.NewSet(db, log)
	now := time.Now().UTC()

	ws := testutil.SeedWorkspace(t, db)
	c := testutil.SeedCampaign(t, db, ws.ID, now.Add(-24*time.Hour), types.TimelineOneMonth)
	s := testutil.SeedSettings(t, db, c.ID, func(s *types.CampaignSettings) { s.MaxDailyPosts = 2 })

	midnight := LocalMidnight(now, time.UTC)
	testutil.SeedPost(t, db, c.ID, types.PlatformTwitter, types.StageIntro, midnight.Add(time.Second))
	testutil.SeedPost(t, db, c.ID, types.PlatformTwitter, types.StageIntro, midnight.Add(2*time.Second))
	testutil.SeedPost(t, db, c.ID, types.PlatformTwitter, types.StageIntro, midnight.Add(-time.Hour))

	sched := New(set.Posts, &fixedJitter{}, log)
	got, err := sched.NextRun(context.Background(), c, s, now)
	if err != nil {
		t.Fatalf("NextRun: %v", err)
	}
	if want := NextLocalMidnight(now, time.UTC); !got.Equal(want) {
		t.Fatalf("next: want=%v got=%v", want, got)
	}
}

func TestSchedulerNextRunConfigurationError(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	sched := New(repos.NewPostRepo(db, log), nil, log)
	c := &types.Campaign{ID: uuid.New()}

	_, err := sched.NextRun(context.Background(), c, settingsWith(0), time.Now())
	if !apperr.IsKind(err, apperr.KindConfiguration) {
		t.Fatalf("want configuration error got=%v", err)
	}
	_, err = sched.NextRun(context.Background(), c, nil, time.Now())
	if !apperr.IsKind(err, apperr.KindConfiguration) {
		t.Fatalf("nil settings: want configuration error got=%v", err)
	}
}

func TestEligible(t *testing.T) {
	now := time.Now().UTC()
	past := now.Add(-time.Minute)
	future := now.Add(time.Hour)
	base := func() *types.Campaign {
		return &types.Campaign{
			IsActive:  true,
			Status:    types.CampaignRunning,
			NextRunAt: &past,
			Workspace: &types.Workspace{IsActive: true},
		}
	}
	s := settingsWith(10)
	stopped := settingsWith(10)
	stopped.EmergencyStopEnabled = true
	connected := []types.Platform{types.PlatformTwitter}

	cases := []struct {
		name      string
		mutate    func(*types.Campaign)
		settings  *types.CampaignSettings
		platforms []types.Platform
		want      Reason
	}{
		{"eligible", nil, s, connected, ""},
		{"never scheduled", func(c *types.Campaign) { c.NextRunAt = nil }, s, connected, ""},
		{"inactive", func(c *types.Campaign) { c.IsActive = false }, s, connected, ReasonInactive},
		{"paused", func(c *types.Campaign) { c.IsPaused = true }, s, connected, ReasonPaused},
		{"pending", func(c *types.Campaign) { c.Status = types.CampaignPending }, s, connected, ReasonNotRunning},
		{"workspace deleted", func(c *types.Campaign) { c.Workspace.IsDeleted = true }, s, connected, ReasonWorkspaceInactive},
		{"workspace missing", func(c *types.Campaign) { c.Workspace = nil }, s, connected, ReasonWorkspaceInactive},
		{"no settings", nil, nil, connected, ReasonNoSettings},
		{"emergency stop", nil, stopped, connected, ReasonEmergencyStop},
		{"no platforms", nil, s, nil, ReasonNoPlatforms},
		{"not due", func(c *types.Campaign) { c.NextRunAt = &future }, s, connected, ReasonNotDue},
	}
	for _, tc := range cases {
		c := base()
		if tc.mutate != nil {
			tc.mutate(c)
		}
		ok, reason := Eligible(c, tc.settings, tc.platforms, now)
		if reason != tc.want || ok != (tc.want == "") {
			t.Fatalf("%s: want=(%v,%q) got=(%v,%q)", tc.name, tc.want == "", tc.want, ok, reason)
		}
	}
}
