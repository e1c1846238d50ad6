package performance

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"github.com/yungbote/moonshill-backend/internal/data/repos"
	"github.com/yungbote/moonshill-backend/internal/data/repos/testutil"
	types "github.com/yungbote/moonshill-backend/internal/domain"
	"github.com/yungbote/moonshill-backend/internal/pkg/dbctx"
)

func metrics(er, vir, sent float64) types.PostMetrics {
	return types.PostMetrics{EngagementRate: er, ViralityScore: vir, SentimentScore: sent}
}

func TestClassifyRequiresAllThresholds(t *testing.T) {
	cases := []struct {
		name string
		m    types.PostMetrics
		want Tier
	}{
		{"high", metrics(0.06, 0.9, 0.8), TierHigh},
		{"high_on_boundary", metrics(0.05, 0.8, 0.7), TierHigh},
		{"high_er_low_virality", metrics(0.2, 0.6, 0.9), TierMedium},
		{"medium", metrics(0.03, 0.5, 0.5), TierMedium},
		{"low", metrics(0.015, 0.35, 0.3), TierLow},
		{"below_everything", metrics(0, 0, 0), TierLow},
		{"strong_er_no_sentiment", metrics(0.5, 0.9, 0.1), TierLow},
	}
	for _, tc := range cases {
		if got := Classify(tc.m); got != tc.want {
			t.Fatalf("%s: want=%s got=%s", tc.name, tc.want, got)
		}
	}
}

func post(stage types.Stage, style types.Style, hour int, m types.PostMetrics, vec []float32) *types.SocialPost {
	p := &types.SocialPost{
		ID:        uuid.New(),
		Stage:     stage,
		Style:     style,
		Metrics:   m,
		CreatedAt: time.Date(2026, 3, 1, hour, 15, 0, 0, time.UTC),
	}
	if vec != nil {
		v := pgvector.NewVector(vec)
		p.Embedding = &v
	}
	return p
}

func TestSplitAndSuccessful(t *testing.T) {
	high := post(types.StageHype, types.StyleMeme, 10, metrics(0.1, 0.9, 0.9), nil)
	med := post(types.StageIntro, types.StyleThread, 11, metrics(0.03, 0.6, 0.6), nil)
	low := post(types.StageCTA, types.StylePoll, 12, metrics(0, 0, 0), nil)

	tiered := Split([]*types.SocialPost{low, med, nil, high})
	if len(tiered.High) != 1 || len(tiered.Medium) != 1 || len(tiered.Low) != 1 {
		t.Fatalf("tiers: want=1/1/1 got=%d/%d/%d", len(tiered.High), len(tiered.Medium), len(tiered.Low))
	}
	succ := tiered.Successful()
	if len(succ) != 2 || succ[0] != high || succ[1] != med {
		t.Fatalf("successful: want=[high medium] got=%v", succ)
	}
	if tiered.Total() != 3 {
		t.Fatalf("total: want=3 got=%d", tiered.Total())
	}
}

func TestPatternsAggregate(t *testing.T) {
	posts := []*types.SocialPost{
		post(types.StageHype, types.StyleMeme, 9, metrics(0.04, 0.9, 0.9), []float32{1, 0}),
		post(types.StageHype, types.StyleMeme, 9, metrics(0.08, 0.9, 0.9), []float32{3, 2}),
		post(types.StageIntro, types.StyleThread, 18, metrics(0.03, 0.5, 0.5), []float32{1, 1, 1}),
		post(types.StageIntro, types.StyleMeme, 18, metrics(0.05, 0.5, 0.5), nil),
	}
	agg := Patterns(posts, time.UTC)
	if agg.Empty() || agg.SampleSize != 4 {
		t.Fatalf("sample size: want=4 got=%d", agg.SampleSize)
	}
	if agg.Stages[types.StageHype] != 0.5 || agg.Stages[types.StageIntro] != 0.5 {
		t.Fatalf("stages: want=0.5/0.5 got=%v", agg.Stages)
	}
	if agg.Styles[types.StyleMeme] != 0.75 || agg.Styles[types.StyleThread] != 0.25 {
		t.Fatalf("styles: want meme=0.75 thread=0.25 got=%v", agg.Styles)
	}
	if got := agg.EngagementByHour[9]; got < 0.0599 || got > 0.0601 {
		t.Fatalf("hour 9: want=0.06 got=%v", got)
	}
	if got := agg.EngagementByHour[18]; got < 0.0399 || got > 0.0401 {
		t.Fatalf("hour 18: want=0.04 got=%v", got)
	}
	if agg.BestHour() != 9 {
		t.Fatalf("best hour: want=9 got=%d", agg.BestHour())
	}
	if len(agg.Centroid) != 2 || agg.Centroid[0] != 2 || agg.Centroid[1] != 1 {
		t.Fatalf("centroid: want=[2 1] got=%v", agg.Centroid)
	}
	if top := agg.TopStyles(); len(top) != 2 || top[0] != types.StyleMeme {
		t.Fatalf("top styles: want meme first got=%v", top)
	}
}

func TestPatternsHoursUseLocation(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	agg := Patterns([]*types.SocialPost{
		post(types.StageHype, types.StyleMeme, 22, metrics(0.1, 0.9, 0.9), nil),
	}, loc)
	if _, ok := agg.EngagementByHour[1]; !ok {
		t.Fatalf("hour: want=1 got=%v", agg.EngagementByHour)
	}
}

func TestPatternsEmpty(t *testing.T) {
	agg := Patterns(nil, nil)
	if !agg.Empty() || agg.Centroid != nil || agg.BestHour() != -1 {
		t.Fatalf("empty aggregate: got=%+v", agg)
	}
}

func TestPatternPrefixCountsRunes(t *testing.T) {
	s := strings.Repeat("é", 80)
	if got := []rune(PatternPrefix(s)); len(got) != 64 {
		t.Fatalf("prefix runes: want=64 got=%d", len(got))
	}
	if PatternPrefix("short") != "short" {
		t.Fatalf("short prefix changed")
	}
}

func TestLearnFoldsEachPostOnce(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	set := repos.NewSet(db, log)

	ws := testutil.SeedWorkspace(t, db)
	c := testutil.SeedCampaign(t, db, ws.ID, time.Now().Add(-72*time.Hour), types.TimelineOneWeek)
	now := time.Now().UTC()
	a := testutil.SeedPost(t, db, c.ID, types.PlatformTwitter, types.StageHype, now.Add(-2*time.Hour))
	b := testutil.SeedPost(t, db, c.ID, types.PlatformTwitter, types.StageHype, now.Add(-time.Hour))
	testutil.SeedPost(t, db, c.ID, types.PlatformTwitter, types.StageMeme, now.Add(-30*time.Minute))

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}
	if err := set.Posts.UpdateMetrics(dbc, a.ID, metrics(0.06, 0.9, 0.8)); err != nil {
		t.Fatalf("UpdateMetrics: %v", err)
	}
	if err := set.Posts.UpdateMetrics(dbc, b.ID, metrics(0.1, 0.9, 0.8)); err != nil {
		t.Fatalf("UpdateMetrics: %v", err)
	}

	cls := NewClassifier(set.Posts, set.Patterns, log)
	agg, err := cls.Learn(ctx, c.ID, 0, time.UTC)
	if err != nil {
		t.Fatalf("Learn: %v", err)
	}
	if agg.SampleSize != 2 {
		t.Fatalf("sample size: want=2 got=%d", agg.SampleSize)
	}
	if len(agg.Proven) != 1 || agg.Proven[0].SampleSize != 2 || agg.Proven[0].Style != a.Style {
		t.Fatalf("proven: want one stored pattern with sample 2 got=%+v", agg.Proven)
	}

	rows, err := set.Patterns.ListByCampaign(dbc, c.ID, types.PatternTypeStyle)
	if err != nil {
		t.Fatalf("ListByCampaign: %v", err)
	}
	if len(rows) != 1 || rows[0].SampleSize != 2 {
		t.Fatalf("pattern rows: want one row with sample 2 got=%+v", rows)
	}
	if got := rows[0].SuccessRate; got < 0.0799 || got > 0.0801 {
		t.Fatalf("success rate: want=0.08 got=%v", got)
	}

	if _, err := cls.Learn(ctx, c.ID, 0, time.UTC); err != nil {
		t.Fatalf("second Learn: %v", err)
	}
	rows, err = set.Patterns.ListByCampaign(dbc, c.ID, types.PatternTypeStyle)
	if err != nil {
		t.Fatalf("ListByCampaign: %v", err)
	}
	if len(rows) != 1 || rows[0].SampleSize != 2 {
		t.Fatalf("refold: want sample 2 got=%+v", rows)
	}

	got, err := set.Posts.GetByID(dbc, a.ID)
	if err != nil || got == nil || got.PatternRecordedAt == nil {
		t.Fatalf("marker: want set got=%v err=%v", got, err)
	}
}
