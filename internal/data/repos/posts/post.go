package posts

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/moonshill-backend/internal/domain"
	"github.com/yungbote/moonshill-backend/internal/pkg/dbctx"
	apperr "github.com/yungbote/moonshill-backend/internal/pkg/errors"
	"github.com/yungbote/moonshill-backend/internal/platform/logger"
)

type PostRepo interface {
	Add(dbc dbctx.Context, post *types.SocialPost) (*types.SocialPost, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.SocialPost, error)
	// Recent returns the newest posts first. A nil platform means every
	// platform of the campaign.
	Recent(dbc dbctx.Context, campaignID uuid.UUID, platform *types.Platform, limit int) ([]*types.SocialPost, error)
	ByStage(dbc dbctx.Context, campaignID uuid.UUID, stage types.Stage, platform *types.Platform, limit int) ([]*types.SocialPost, error)
	CountSince(dbc dbctx.Context, campaignID uuid.UUID, since time.Time) (int64, error)
	// UpdateStatus moves a post forward. Backwards or repeated transitions
	// fail with ErrInvalidArgument.
	UpdateStatus(dbc dbctx.Context, id uuid.UUID, next types.PostStatus) error
	UpdateMetrics(dbc dbctx.Context, id uuid.UUID, m types.PostMetrics) error
	MarkPatternRecorded(dbc dbctx.Context, ids []uuid.UUID, at time.Time) error
}

type postRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostRepo(db *gorm.DB, baseLog *logger.Logger) PostRepo {
	return &postRepo{
		db:  db,
		log: baseLog.With("repo", "PostRepo"),
	}
}

func (r *postRepo) Add(dbc dbctx.Context, post *types.SocialPost) (*types.SocialPost, error) {
	if post == nil {
		return nil, errors.New("post is nil")
	}
	if post.CampaignID == uuid.Nil {
		return nil, fmt.Errorf("post missing campaign_id: %w", apperr.ErrInvalidArgument)
	}
	if !post.ScheduledTime.IsZero() {
		post.ScheduledTime = post.ScheduledTime.UTC()
	}
	if err := dbc.Or(r.db).Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

func (r *postRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.SocialPost, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var p types.SocialPost
	if err := dbc.Or(r.db).Where("id = ?", id).Limit(1).Find(&p).Error; err != nil {
		return nil, err
	}
	if p.ID == uuid.Nil {
		return nil, nil
	}
	return &p, nil
}

func (r *postRepo) Recent(dbc dbctx.Context, campaignID uuid.UUID, platform *types.Platform, limit int) ([]*types.SocialPost, error) {
	return r.list(dbc, campaignID, nil, platform, limit)
}

func (r *postRepo) ByStage(dbc dbctx.Context, campaignID uuid.UUID, stage types.Stage, platform *types.Platform, limit int) ([]*types.SocialPost, error) {
	return r.list(dbc, campaignID, &stage, platform, limit)
}

func (r *postRepo) list(dbc dbctx.Context, campaignID uuid.UUID, stage *types.Stage, platform *types.Platform, limit int) ([]*types.SocialPost, error) {
	var out []*types.SocialPost
	if campaignID == uuid.Nil || limit <= 0 {
		return out, nil
	}
	q := dbc.Or(r.db).Where("campaign_id = ?", campaignID)
	if stage != nil {
		q = q.Where("stage = ?", *stage)
	}
	if platform != nil {
		q = q.Where("platform = ?", *platform)
	}
	err := q.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *postRepo) CountSince(dbc dbctx.Context, campaignID uuid.UUID, since time.Time) (int64, error) {
	var n int64
	err := dbc.Or(r.db).
		Model(&types.SocialPost{}).
		Where("campaign_id = ? AND created_at >= ?", campaignID, since.UTC()).
		Count(&n).Error
	return n, err
}

func (r *postRepo) UpdateStatus(dbc dbctx.Context, id uuid.UUID, next types.PostStatus) error {
	run := func(tx *gorm.DB) error {
		var cur types.SocialPost
		if err := tx.Select("id", "status").Where("id = ?", id).Limit(1).Find(&cur).Error; err != nil {
			return err
		}
		if cur.ID == uuid.Nil {
			return apperr.ErrNotFound
		}
		if !cur.Status.CanTransition(next) {
			return fmt.Errorf("post status %s -> %s: %w", cur.Status, next, apperr.ErrInvalidArgument)
		}
		res := tx.Model(&types.SocialPost{}).
			Where("id = ? AND status = ?", id, cur.Status).
			Updates(map[string]interface{}{
				"status":     next,
				"updated_at": time.Now().UTC(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("post status changed concurrently: %w", apperr.ErrInvalidArgument)
		}
		return nil
	}
	if dbc.Tx != nil {
		return run(dbc.Or(r.db))
	}
	return dbc.Or(r.db).Transaction(run)
}

func (r *postRepo) UpdateMetrics(dbc dbctx.Context, id uuid.UUID, m types.PostMetrics) error {
	res := dbc.Or(r.db).
		Model(&types.SocialPost{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"likes":           m.Likes,
			"shares":          m.Shares,
			"comments":        m.Comments,
			"views":           m.Views,
			"clicks":          m.Clicks,
			"sentiment_score": m.SentimentScore,
			"engagement_rate": m.EngagementRate,
			"virality_score":  m.ViralityScore,
			"updated_at":      time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *postRepo) MarkPatternRecorded(dbc dbctx.Context, ids []uuid.UUID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	return dbc.Or(r.db).
		Model(&types.SocialPost{}).
		Where("id IN ? AND pattern_recorded_at IS NULL", ids).
		Update("pattern_recorded_at", at.UTC()).Error
}
