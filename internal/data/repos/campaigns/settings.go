package campaigns

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/moonshill-backend/internal/domain"
	"github.com/yungbote/moonshill-backend/internal/pkg/dbctx"
	"github.com/yungbote/moonshill-backend/internal/platform/logger"
)

type SettingsRepo interface {
	Create(dbc dbctx.Context, s *types.CampaignSettings) (*types.CampaignSettings, error)
	// GetByCampaign returns nil, nil when the campaign has no settings row.
	GetByCampaign(dbc dbctx.Context, campaignID uuid.UUID) (*types.CampaignSettings, error)
	Save(dbc dbctx.Context, s *types.CampaignSettings) error
}

type settingsRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSettingsRepo(db *gorm.DB, baseLog *logger.Logger) SettingsRepo {
	return &settingsRepo{
		db:  db,
		log: baseLog.With("repo", "SettingsRepo"),
	}
}

func (r *settingsRepo) Create(dbc dbctx.Context, s *types.CampaignSettings) (*types.CampaignSettings, error) {
	if s == nil {
		return nil, errors.New("settings is nil")
	}
	if err := dbc.Or(r.db).Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

func (r *settingsRepo) GetByCampaign(dbc dbctx.Context, campaignID uuid.UUID) (*types.CampaignSettings, error) {
	if campaignID == uuid.Nil {
		return nil, nil
	}
	var s types.CampaignSettings
	err := dbc.Or(r.db).
		Where("campaign_id = ?", campaignID).
		Limit(1).
		Find(&s).Error
	if err != nil {
		return nil, err
	}
	if s.ID == uuid.Nil {
		return nil, nil
	}
	return &s, nil
}

func (r *settingsRepo) Save(dbc dbctx.Context, s *types.CampaignSettings) error {
	if s == nil || s.ID == uuid.Nil {
		return errors.New("settings missing id")
	}
	return dbc.Or(r.db).Save(s).Error
}
