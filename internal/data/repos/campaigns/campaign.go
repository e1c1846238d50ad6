package campaigns

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/moonshill-backend/internal/domain"
	"github.com/yungbote/moonshill-backend/internal/pkg/dbctx"
	"github.com/yungbote/moonshill-backend/internal/platform/logger"
)

type CampaignRepo interface {
	Create(dbc dbctx.Context, c *types.Campaign) (*types.Campaign, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Campaign, error)
	ListDue(dbc dbctx.Context, now time.Time, limit int) ([]*types.Campaign, error)
	// Claim takes the campaign lease when no live lease exists. Unless force is
	// set the campaign must also be due. It reports whether this caller won.
	Claim(dbc dbctx.Context, id uuid.UUID, now time.Time, lease time.Duration, force bool) (bool, error)
	// Release clears the lease. When nextRunAt is non-nil the schedule is
	// advanced in the same statement.
	Release(dbc dbctx.Context, id uuid.UUID, now time.Time, nextRunAt *time.Time) error
	Pause(dbc dbctx.Context, id uuid.UUID, reason string) error
}

type campaignRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCampaignRepo(db *gorm.DB, baseLog *logger.Logger) CampaignRepo {
	return &campaignRepo{
		db:  db,
		log: baseLog.With("repo", "CampaignRepo"),
	}
}

func (r *campaignRepo) Create(dbc dbctx.Context, c *types.Campaign) (*types.Campaign, error) {
	if c == nil {
		return nil, errors.New("campaign is nil")
	}
	if err := dbc.Or(r.db).Omit("Workspace").Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

func (r *campaignRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Campaign, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var c types.Campaign
	err := dbc.Or(r.db).
		Preload("Workspace").
		Where("id = ?", id).
		Limit(1).
		Find(&c).Error
	if err != nil {
		return nil, err
	}
	if c.ID == uuid.Nil {
		return nil, nil
	}
	return &c, nil
}

func (r *campaignRepo) ListDue(dbc dbctx.Context, now time.Time, limit int) ([]*types.Campaign, error) {
	now = now.UTC()
	if limit <= 0 {
		limit = 500
	}
	var out []*types.Campaign
	err := dbc.Or(r.db).
		Preload("Workspace").
		Where("is_active = ? AND is_paused = ? AND status = ?", true, false, types.CampaignRunning).
		Where("next_run_at IS NULL OR next_run_at <= ?", now).
		Where("lease_until IS NULL OR lease_until < ?", now).
		Order("next_run_at ASC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *campaignRepo) Claim(dbc dbctx.Context, id uuid.UUID, now time.Time, lease time.Duration, force bool) (bool, error) {
	if id == uuid.Nil {
		return false, nil
	}
	now = now.UTC()
	if lease <= 0 {
		lease = 10 * time.Minute
	}
	q := dbc.Or(r.db).
		Model(&types.Campaign{}).
		Where("id = ?", id).
		Where("lease_until IS NULL OR lease_until < ?", now)
	if !force {
		q = q.Where("next_run_at IS NULL OR next_run_at <= ?", now)
	}
	res := q.Updates(map[string]interface{}{
		"lease_until": now.Add(lease),
		"updated_at":  now,
	})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *campaignRepo) Release(dbc dbctx.Context, id uuid.UUID, now time.Time, nextRunAt *time.Time) error {
	now = now.UTC()
	updates := map[string]interface{}{
		"lease_until": nil,
		"updated_at":  now,
	}
	if nextRunAt != nil {
		updates["next_run_at"] = nextRunAt.UTC()
		updates["last_run_at"] = now
	}
	return dbc.Or(r.db).
		Model(&types.Campaign{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *campaignRepo) Pause(dbc dbctx.Context, id uuid.UUID, reason string) error {
	res := dbc.Or(r.db).
		Model(&types.Campaign{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_paused":    true,
			"pause_reason": reason,
			"lease_until":  nil,
			"updated_at":   time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		r.log.Warn("Pause matched no campaign", "campaign_id", id)
	}
	return nil
}
