package posts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"

	"github.com/yungbote/moonshill-backend/internal/data/repos/testutil"
	types "github.com/yungbote/moonshill-backend/internal/domain"
	"github.com/yungbote/moonshill-backend/internal/pkg/dbctx"
	apperr "github.com/yungbote/moonshill-backend/internal/pkg/errors"
)

func TestPostRepoHistoryQueries(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewPostRepo(db, testutil.Logger(t))

	now := time.Now().UTC()
	ws := testutil.SeedWorkspace(t, tx)
	c := testutil.SeedCampaign(t, tx, ws.ID, now.Add(-72*time.Hour), types.TimelineOneWeek)

	testutil.SeedPost(t, tx, c.ID, types.PlatformTwitter, types.StageIntro, now.Add(-30*time.Hour))
	testutil.SeedPost(t, tx, c.ID, types.PlatformTwitter, types.StageIntro, now.Add(-3*time.Hour))
	testutil.SeedPost(t, tx, c.ID, types.PlatformDiscord, types.StageHype, now.Add(-2*time.Hour))
	newest := testutil.SeedPost(t, tx, c.ID, types.PlatformTwitter, types.StageHype, now.Add(-1*time.Hour))

	recent, err := repo.Recent(dbc, c.ID, nil, 3)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 3 || recent[0].ID != newest.ID {
		t.Fatalf("Recent: want 3 rows newest first got=%d", len(recent))
	}

	tw := types.PlatformTwitter
	onTwitter, err := repo.Recent(dbc, c.ID, &tw, 10)
	if err != nil || len(onTwitter) != 3 {
		t.Fatalf("Recent(twitter): want=3 got=%d err=%v", len(onTwitter), err)
	}

	intro, err := repo.ByStage(dbc, c.ID, types.StageIntro, nil, 3)
	if err != nil || len(intro) != 2 {
		t.Fatalf("ByStage(intro): want=2 got=%d err=%v", len(intro), err)
	}
	for _, p := range intro {
		if p.Stage != types.StageIntro {
			t.Fatalf("ByStage: want stage=intro got=%s", p.Stage)
		}
	}

	n, err := repo.CountSince(dbc, c.ID, now.Add(-24*time.Hour))
	if err != nil || n != 3 {
		t.Fatalf("CountSince: want=3 got=%d err=%v", n, err)
	}

	if rows, _ := repo.Recent(dbc, c.ID, nil, 0); len(rows) != 0 {
		t.Fatalf("Recent(limit=0): want=0 got=%d", len(rows))
	}
}

func TestPostRepoAddKeepsEmbeddingAndMetadata(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewPostRepo(db, testutil.Logger(t))

	ws := testutil.SeedWorkspace(t, tx)
	c := testutil.SeedCampaign(t, tx, ws.ID, time.Now().UTC(), types.TimelineOneWeek)

	vec := pgvector.NewVector([]float32{0.25, -1, 3})
	post := &types.SocialPost{
		CampaignID:    c.ID,
		Platform:      types.PlatformTelegram,
		Content:       "gm frens",
		Stage:         types.StageIntro,
		Style:         types.StyleQuestion,
		ScheduledTime: time.Now(),
		Embedding:     &vec,
		Metadata: datatypes.NewJSONType(types.PostMetadata{
			Phase:     types.PhaseEarly,
			Intensity: 0.7,
		}),
	}
	if _, err := repo.Add(dbc, post); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if post.Status != types.PostDraft || post.Type != types.PostTypeText {
		t.Fatalf("defaults: want=DRAFT/text got=%s/%s", post.Status, post.Type)
	}

	got, err := repo.GetByID(dbc, post.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByID: got=%v err=%v", got, err)
	}
	v := got.Vector()
	if len(v) != 3 || v[0] != 0.25 || v[2] != 3 {
		t.Fatalf("embedding: want=[0.25 -1 3] got=%v", v)
	}
	if md := got.Metadata.Data(); md.Phase != types.PhaseEarly || md.Intensity != 0.7 {
		t.Fatalf("metadata: got=%+v", md)
	}
	if got.Likes != 0 || got.EngagementRate != 0 {
		t.Fatalf("metrics: want zeroed got=%+v", got.Metrics)
	}
}

func TestPostRepoStatusIsMonotonic(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewPostRepo(db, testutil.Logger(t))

	ws := testutil.SeedWorkspace(t, tx)
	c := testutil.SeedCampaign(t, tx, ws.ID, time.Now().UTC(), types.TimelineOneWeek)
	p := testutil.SeedPost(t, tx, c.ID, types.PlatformTwitter, types.StageIntro, time.Now())

	if err := repo.UpdateStatus(dbc, p.ID, types.PostPublished); err != nil {
		t.Fatalf("SCHEDULED->PUBLISHED: %v", err)
	}
	err := repo.UpdateStatus(dbc, p.ID, types.PostScheduled)
	if !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Fatalf("PUBLISHED->SCHEDULED: want ErrInvalidArgument got=%v", err)
	}
	got, _ := repo.GetByID(dbc, p.ID)
	if got.Status != types.PostPublished {
		t.Fatalf("status: want=PUBLISHED got=%s", got.Status)
	}
}

func TestPostRepoUpdateMetrics(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewPostRepo(db, testutil.Logger(t))

	ws := testutil.SeedWorkspace(t, tx)
	c := testutil.SeedCampaign(t, tx, ws.ID, time.Now().UTC(), types.TimelineOneWeek)
	p := testutil.SeedPost(t, tx, c.ID, types.PlatformTwitter, types.StageIntro, time.Now())

	m := types.PostMetrics{Likes: 40, Views: 1000, EngagementRate: 0.06, ViralityScore: 0.9, SentimentScore: 0.8}
	if err := repo.UpdateMetrics(dbc, p.ID, m); err != nil {
		t.Fatalf("UpdateMetrics: %v", err)
	}
	got, _ := repo.GetByID(dbc, p.ID)
	if got.Likes != 40 || got.EngagementRate != 0.06 {
		t.Fatalf("metrics: want likes=40 er=0.06 got=%+v", got.Metrics)
	}
}
