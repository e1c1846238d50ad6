package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/moonshill-backend/internal/data/repos/campaigns"
	"github.com/yungbote/moonshill-backend/internal/data/repos/posts"
	"github.com/yungbote/moonshill-backend/internal/platform/logger"
)

type WorkspaceRepo = campaigns.WorkspaceRepo
type CampaignRepo = campaigns.CampaignRepo
type SettingsRepo = campaigns.SettingsRepo
type ConnectionRepo = campaigns.ConnectionRepo

type PostRepo = posts.PostRepo
type PatternRepo = posts.PatternRepo

func NewWorkspaceRepo(db *gorm.DB, baseLog *logger.Logger) WorkspaceRepo {
	return campaigns.NewWorkspaceRepo(db, baseLog)
}

func NewCampaignRepo(db *gorm.DB, baseLog *logger.Logger) CampaignRepo {
	return campaigns.NewCampaignRepo(db, baseLog)
}

func NewSettingsRepo(db *gorm.DB, baseLog *logger.Logger) SettingsRepo {
	return campaigns.NewSettingsRepo(db, baseLog)
}

func NewConnectionRepo(db *gorm.DB, baseLog *logger.Logger) ConnectionRepo {
	return campaigns.NewConnectionRepo(db, baseLog)
}

func NewPostRepo(db *gorm.DB, baseLog *logger.Logger) PostRepo {
	return posts.NewPostRepo(db, baseLog)
}

func NewPatternRepo(db *gorm.DB, baseLog *logger.Logger) PatternRepo {
	return posts.NewPatternRepo(db, baseLog)
}

// Set bundles every repo the engine uses.
type Set struct {
	Workspaces  WorkspaceRepo
	Campaigns   CampaignRepo
	Settings    SettingsRepo
	Connections ConnectionRepo
	Posts       PostRepo
	Patterns    PatternRepo
}

func NewSet(db *gorm.DB, baseLog *logger.Logger) Set {
	return Set{
		Workspaces:  NewWorkspaceRepo(db, baseLog),
		Campaigns:   NewCampaignRepo(db, baseLog),
		Settings:    NewSettingsRepo(db, baseLog),
		Connections: NewConnectionRepo(db, baseLog),
		Posts:       NewPostRepo(db, baseLog),
		Patterns:    NewPatternRepo(db, baseLog),
	}
}
