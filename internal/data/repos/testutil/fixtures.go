package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/moonshill-backend/internal/domain"
)

func SeedWorkspace(tb testing.TB, tx *gorm.DB) *types.Workspace {
	tb.Helper()
	w := &types.Workspace{
		ID:       uuid.New(),
		Name:     "workspace",
		IsActive: true,
	}
	if err := tx.Create(w).Error; err != nil {
		tb.Fatalf("seed workspace: %v", err)
	}
	return w
}

// SeedCampaign creates a running, active campaign that is due now.
func SeedCampaign(tb testing.TB, tx *gorm.DB, workspaceID uuid.UUID, start time.Time, timeline types.Timeline) *types.Campaign {
	tb.Helper()
	c := &types.Campaign{
		ID:              uuid.New(),
		WorkspaceID:     workspaceID,
		Name:            "campaign",
		ProjectName:     "Moon",
		ProjectInfo:     "A community token on a fast chain.",
		TokenAddress:    "0xabc",
		Chain:           "ethereum",
		StartDate:       start.UTC(),
		Timeline:        timeline,
		KeyMessages:     datatypes.JSONSlice[string]{"fair launch", "locked liquidity"},
		ProhibitedTerms: datatypes.JSONSlice[string]{},
		Status:          types.CampaignRunning,
		IsActive:        true,
	}
	if err := tx.Omit("Workspace").Create(c).Error; err != nil {
		tb.Fatalf("seed campaign: %v", err)
	}
	return c
}

func SeedSettings(tb testing.TB, tx *gorm.DB, campaignID uuid.UUID, mutate func(*types.CampaignSettings)) *types.CampaignSettings {
	tb.Helper()
	s := types.DefaultCampaignSettings(campaignID)
	if mutate != nil {
		mutate(s)
	}
	if err := tx.Create(s).Error; err != nil {
		tb.Fatalf("seed settings: %v", err)
	}
	return s
}

func SeedConnection(tb testing.TB, tx *gorm.DB, campaignID uuid.UUID, platform types.Platform, connected bool) *types.PlatformConnection {
	tb.Helper()
	c := &types.PlatformConnection{
		ID:          uuid.New(),
		CampaignID:  campaignID,
		Platform:    platform,
		Handle:      "@moon",
		IsConnected: connected,
	}
	if err := tx.Create(c).Error; err != nil {
		tb.Fatalf("seed connection: %v", err)
	}
	return c
}

func SeedPost(tb testing.TB, tx *gorm.DB, campaignID uuid.UUID, platform types.Platform, stage types.Stage, createdAt time.Time) *types.SocialPost {
	tb.Helper()
	p := &types.SocialPost{
		ID:            uuid.New(),
		CampaignID:    campaignID,
		Platform:      platform,
		Content:       "gm " + string(stage),
		Stage:         stage,
		Style:         types.StyleThread,
		Status:        types.PostScheduled,
		ScheduledTime: createdAt.UTC(),
		CreatedAt:     createdAt.UTC(),
		UpdatedAt:     createdAt.UTC(),
	}
	if err := tx.Create(p).Error; err != nil {
		tb.Fatalf("seed post: %v", err)
	}
	return p
}
