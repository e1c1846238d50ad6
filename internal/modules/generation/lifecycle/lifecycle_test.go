package lifecycle

import (
	"math"
	"math/rand/v2"
	"testing"
	"time"

	types "github.com/yungbote/moonshill-backend/internal/domain"
)

func TestPhaseBreakpoints(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	day := 24 * time.Hour
	cases := []struct {
		timeline types.Timeline
		elapsed  time.Duration
		want     types.Phase
	}{
		{types.TimelineOneWeek, 0, types.PhaseEarly},
		{types.TimelineOneWeek, 2*day - time.Second, types.PhaseEarly},
		{types.TimelineOneWeek, 2 * day, types.PhaseMid},
		{types.TimelineOneWeek, 3 * day, types.PhaseMid},
		{types.TimelineOneWeek, 5 * day, types.PhaseLate},
		{types.TimelineTwoWeeks, 9 * day, types.PhaseMid},
		{types.TimelineTwoWeeks, 10 * day, types.PhaseLate},
		{types.TimelineOneMonth, 9 * day, types.PhaseEarly},
		{types.TimelineTwoMonths, 39 * day, types.PhaseMid},
		{types.TimelineThreeMonths, 60 * day, types.PhaseLate},
		{types.TimelineSixMonths, 59 * day, types.PhaseEarly},
		{types.TimelineOneYear, 240 * day, types.PhaseLate},
		{types.Timeline("10 Years"), 119 * day, types.PhaseEarly},
		{types.Timeline("10 Years"), 120 * day, types.PhaseMid},
	}
	for _, tc := range cases {
		got := PhaseAt(now.Add(-tc.elapsed), tc.timeline, now)
		if got != tc.want {
			t.Fatalf("PhaseAt(%s, %v): want=%s got=%s", tc.timeline, tc.elapsed, tc.want, got)
		}
	}
}

func TestFutureStartIsDayZero(t *testing.T) {
	now := time.Now().UTC()
	if d := ElapsedDays(now.Add(72*time.Hour), now); d != 0 {
		t.Fatalf("ElapsedDays(future): want=0 got=%d", d)
	}
	if p := PhaseAt(now.Add(72*time.Hour), types.TimelineOneWeek, now); p != types.PhaseEarly {
		t.Fatalf("PhaseAt(future): want=EARLY got=%s", p)
	}
}

func TestPhaseIsMonotonicInTime(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, tl := range types.Timelines {
		prev := -1
		for h := 0; h < 400*24; h += 7 {
			r := PhaseAt(start, tl, start.Add(time.Duration(h)*time.Hour)).Rank()
			if r < prev {
				t.Fatalf("timeline %s: phase went backwards at hour %d", tl, h)
			}
			prev = r
		}
	}
}

func stagePosts(stages ...types.Stage) []*types.SocialPost {
	out := make([]*types.SocialPost, 0, len(stages))
	for _, s := range stages {
		out = append(out, &types.SocialPost{Stage: s})
	}
	return out
}

func TestResolveStageQuotas(t *testing.T) {
	cases := []struct {
		phase  types.Phase
		recent []*types.SocialPost
		want   types.Stage
	}{
		{types.PhaseEarly, nil, types.StageIntro},
		{types.PhaseEarly, stagePosts(types.StageIntro), types.StageIntro},
		{types.PhaseEarly, stagePosts(types.StageIntro, types.StageIntro), types.StageHype},
		{types.PhaseEarly, stagePosts(types.StageIntro, types.StageIntro, types.StageHype, types.StageHype, types.StageHype), types.StageMeme},
		{types.PhaseMid, nil, types.StageDeepDive},
		{types.PhaseMid, stagePosts(types.StageDeepDive, types.StageDeepDive, types.StageHype), types.StageHype},
		{types.PhaseMid, stagePosts(types.StageDeepDive, types.StageDeepDive, types.StageHype, types.StageHype, types.StageHype), types.StageMeme},
		{types.PhaseLate, nil, types.StageCTA},
		{types.PhaseLate, stagePosts(types.StageCTA, types.StageCTA), types.StageDeepDive},
		{types.PhaseLate, stagePosts(types.StageCTA, types.StageCTA, types.StageDeepDive, types.StageDeepDive), types.StageHype},
	}
	for i, tc := range cases {
		if got := ResolveStage(tc.phase, tc.recent); got != tc.want {
			t.Fatalf("case %d (%s): want=%s got=%s", i, tc.phase, tc.want, got)
		}
	}
}

func TestResolveStageAlwaysDefined(t *testing.T) {
	valid := map[types.Stage]bool{
		types.StageIntro: true, types.StageHype: true, types.StageMeme: true,
		types.StageDeepDive: true, types.StageCTA: true,
	}
	for _, phase := range []types.Phase{types.PhaseEarly, types.PhaseMid, types.PhaseLate, types.Phase("")} {
		for _, window := range [][]*types.SocialPost{nil, stagePosts(types.StageNews, types.StageNews), {nil}} {
			if got := ResolveStage(phase, window); !valid[got] {
				t.Fatalf("ResolveStage(%q): undefined stage %q", phase, got)
			}
		}
	}
}

func TestChooseFallsBackToPhaseCandidates(t *testing.T) {
	s := NewStyleSampler(rand.New(rand.NewPCG(3, 4)))
	allowed := map[types.Style]bool{}
	for _, st := range FallbackStyles(types.PhaseMid) {
		allowed[st] = true
	}
	for i := 0; i < 200; i++ {
		if got := s.Choose(types.PhaseMid, nil); !allowed[got] {
			t.Fatalf("Choose(MID, nil): %s not in fallback set", got)
		}
	}
}

func TestChooseConvergesToDistribution(t *testing.T) {
	s := NewStyleSampler(rand.New(rand.NewPCG(11, 12)))
	dist := map[types.Style]float64{
		types.StyleThread: 0.5,
		types.StyleMeme:   0.3,
		types.StylePoll:   0.2,
		types.StyleNews:   0,
	}
	const n = 20000
	counts := map[types.Style]int{}
	for i := 0; i < n; i++ {
		counts[s.Choose(types.PhaseEarly, dist)]++
	}
	if counts[types.StyleNews] != 0 {
		t.Fatalf("zero-weight style sampled %d times", counts[types.StyleNews])
	}
	for st, w := range dist {
		got := float64(counts[st]) / n
		if math.Abs(got-w) > 0.02 {
			t.Fatalf("style %s: want≈%.2f got=%.3f", st, w, got)
		}
	}
}
