package posts

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

type PatternRepo interface {
	// Record folds one observation into the (campaign, type, style, value)
	// row: sample_size grows by one and success_rate becomes the running mean.
	Record(dbc dbctx.Context, p *types.EngagementPattern) error
	ListByCampaign(dbc dbctx.Context, campaignID uuid.UUID, patternType string) ([]*types.EngagementPattern, error)
}

type patternRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPatternRepo(db *gorm.DB, baseLog *logger.Logger) PatternRepo {
	return &patternRepo{
		db:  db,
		log: baseLog.With("repo", "PatternRepo"),
	}
}

func (r *patternRepo) Record(dbc dbctx.Context, p *types.EngagementPattern) error {
	if p == nil || p.CampaignID == uuid.Nil {
		return errors.New("pattern missing campaign_id")
	}
	if p.PatternType == "" {
		p.PatternType = types.PatternTypeStyle
	}
	p.SampleSize = 1
	return dbc.Or(r.db).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "campaign_id"},
				{Name: "pattern_type"},
				{Name: "style"},
				{Name: "pattern_value"},
			},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"success_rate": gorm.Expr("(engagement_pattern.success_rate * engagement_pattern.sample_size + excluded.success_rate) / (engagement_pattern.sample_size + 1)"),
				"sample_size":  gorm.Expr("engagement_pattern.sample_size + 1"),
				"updated_at":   time.Now().UTC(),
			}),
		}).
		Create(p).Error
}

func (r *patternRepo) ListByCampaign(dbc dbctx.Context, campaignID uuid.UUID, patternType string) ([]*types.EngagementPattern, error) {
	var out []*types.EngagementPattern
	if campaignID == uuid.Nil {
		return out, nil
	}
	q := dbc.Or(r.db).Where("campaign_id = ?", campaignID)
	if patternType != "" {
		q = q.Where("pattern_type = ?", patternType)
	}
	if err := q.Order("sample_size DESC").Order("style ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
