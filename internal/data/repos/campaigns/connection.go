package campaigns

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/moonshill-backend/internal/domain"
	"github.com/yungbote/moonshill-backend/internal/pkg/dbctx"
	"github.com/yungbote/moonshill-backend/internal/platform/logger"
)

type ConnectionRepo interface {
	// ListConnected returns the platforms the campaign can currently post to,
	// in a stable order.
	ListConnected(dbc dbctx.Context, campaignID uuid.UUID) ([]types.Platform, error)
	Upsert(dbc dbctx.Context, conn *types.PlatformConnection) error
}

type connectionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewConnectionRepo(db *gorm.DB, baseLog *logger.Logger) ConnectionRepo {
	return &connectionRepo{
		db:  db,
		log: baseLog.With("repo", "ConnectionRepo"),
	}
}

func (r *connectionRepo) ListConnected(dbc dbctx.Context, campaignID uuid.UUID) ([]types.Platform, error) {
	if campaignID == uuid.Nil {
		return nil, nil
	}
	var rows []types.PlatformConnection
	err := dbc.Or(r.db).
		Where("campaign_id = ? AND is_connected = ?", campaignID, true).
		Order("platform ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]types.Platform, 0, len(rows))
	for _, row := range rows {
		if !row.Platform.Valid() {
			r.log.Warn("Skipping unknown platform connection", "campaign_id", campaignID, "platform", row.Platform)
			continue
		}
		out = append(out, row.Platform)
	}
	return out, nil
}

func (r *connectionRepo) Upsert(dbc dbctx.Context, conn *types.PlatformConnection) error {
	if conn == nil || conn.CampaignID == uuid.Nil {
		return errors.New("connection missing campaign_id")
	}
	if !conn.Platform.Valid() {
		return errors.New("connection has unknown platform")
	}
	return dbc.Or(r.db).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "campaign_id"}, {Name: "platform"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"handle":       conn.Handle,
				"is_connected": conn.IsConnected,
				"updated_at":   time.Now().UTC(),
			}),
		}).
		Create(conn).Error
}
