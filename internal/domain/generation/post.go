package generation

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/moonshill-backend/internal/domain/campaigns"
)

// Metrics are filled in after publication by the ingestion path.
type Metrics struct {
	Likes          int     `gorm:"column:likes;not null;default:0" json:"likes"`
	Shares         int     `gorm:"column:shares;not null;default:0" json:"shares"`
	Comments       int     `gorm:"column:comments;not null;default:0" json:"comments"`
	Views          int     `gorm:"column:views;not null;default:0" json:"views"`
	Clicks         int     `gorm:"column:clicks;not null;default:0" json:"clicks"`
	SentimentScore float64 `gorm:"column:sentiment_score;not null;default:0" json:"sentiment_score"`
	EngagementRate float64 `gorm:"column:engagement_rate;not null;default:0" json:"engagement_rate"`
	ViralityScore  float64 `gorm:"column:virality_score;not null;default:0" json:"virality_score"`
}

// PostMetadata records how a post was produced.
type PostMetadata struct {
	Phase     Phase                  `json:"phase,omitempty"`
	Goal      campaigns.StrategyGoal `json:"goal,omitempty"`
	Model     string                 `json:"model,omitempty"`
	Intensity float64                `json:"intensity"`
	Device    campaigns.Device       `json:"device,omitempty"`
	Trending  []string               `json:"trending,omitempty"`
}

type SocialPost struct {
	ID            uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	CampaignID    uuid.UUID          `gorm:"type:uuid;not null;index:idx_post_campaign_created,priority:1" json:"campaign_id"`
	Platform      campaigns.Platform `gorm:"column:platform;not null;index" json:"platform"`
	Content       string             `gorm:"column:content;type:text;not null" json:"content"`
	Stage         Stage              `gorm:"column:stage;not null;index" json:"stage"`
	Style         Style              `gorm:"column:style;not null" json:"style"`
	Type          PostType           `gorm:"column:type;not null" json:"type"`
	Status        PostStatus         `gorm:"column:status;not null;index" json:"status"`
	ScheduledTime time.Time          `gorm:"column:scheduled_time;not null;index" json:"scheduled_time"`
	Embedding     *pgvector.Vector   `gorm:"column:embedding;type:vector" json:"-"`

	Metrics `gorm:"embedded"`

	Metadata datatypes.JSONType[PostMetadata] `gorm:"column:metadata" json:"metadata"`

	// PatternRecordedAt is set once the post has been folded into the
	// campaign's engagement patterns.
	PatternRecordedAt *time.Time `gorm:"column:pattern_recorded_at;index" json:"pattern_recorded_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index:idx_post_campaign_created,priority:2" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (SocialPost) TableName() string { return "social_post" }

func (p *SocialPost) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = PostDraft
	}
	if p.Type == "" {
		p.Type = PostTypeText
	}
	return nil
}

// Vector returns the embedding as a float slice, or nil.
func (p *SocialPost) Vector() []float32 {
	if p == nil || p.Embedding == nil {
		return nil
	}
	return p.Embedding.Slice()
}

// EngagementPattern accumulates evidence that a style/content opening worked
// for a campaign. Rows are never deleted; repeat observations raise
// SampleSize.
type EngagementPattern struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CampaignID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_pattern_key,priority:1" json:"campaign_id"`
	PatternType  string    `gorm:"column:pattern_type;not null;uniqueIndex:idx_pattern_key,priority:2" json:"pattern_type"`
	Style        Style     `gorm:"column:style;not null;uniqueIndex:idx_pattern_key,priority:3" json:"style"`
	PatternValue string    `gorm:"column:pattern_value;not null;uniqueIndex:idx_pattern_key,priority:4" json:"pattern_value"`
	SuccessRate  float64   `gorm:"column:success_rate;not null;default:0" json:"success_rate"`
	SampleSize   int       `gorm:"column:sample_size;not null;default:0" json:"sample_size"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (EngagementPattern) TableName() string { return "engagement_pattern" }

func (p *EngagementPattern) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

const PatternTypeStyle = "style"
