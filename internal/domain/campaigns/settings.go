package campaigns

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PlatformSettings are per-platform formatting overrides.
type PlatformSettings struct {
	MaxLength  int               `json:"max_length,omitempty"`
	ThreadMode bool              `json:"thread_mode,omitempty"`
	Extra      map[string]string `json:"extra,omitempty"`
}

// Settings is the full set of knobs a campaign exposes to the engine.
type Settings struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CampaignID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"campaign_id"`

	ContentApprovalRequired bool `gorm:"column:content_approval_required;not null;default:false" json:"content_approval_required"`
	MaxDailyPosts           int  `gorm:"column:max_daily_posts;not null" json:"max_daily_posts"`
	MinTimeBetweenPosts     int  `gorm:"column:min_time_between_posts;not null" json:"min_time_between_posts"`

	LanguageStyle      LanguageStyle `gorm:"column:language_style;not null" json:"language_style"`
	Persona            Persona       `gorm:"column:persona;not null" json:"persona"`
	EmojiUsage         UsageLevel    `gorm:"column:emoji_usage;not null" json:"emoji_usage"`
	HashtagUsage       UsageLevel    `gorm:"column:hashtag_usage;not null" json:"hashtag_usage"`
	MaxHashtagsPerPost int           `gorm:"column:max_hashtags_per_post;not null" json:"max_hashtags_per_post"`

	PlatformSettings datatypes.JSONType[map[Platform]PlatformSettings] `gorm:"column:platform_settings" json:"platform_settings"`
	BlockedKeywords  datatypes.JSONSlice[string]                       `gorm:"column:blocked_keywords" json:"blocked_keywords"`

	AICreativityLevel float64      `gorm:"column:ai_creativity_level;not null" json:"ai_creativity_level"`
	AIMemoryRetention int          `gorm:"column:ai_memory_retention;not null" json:"ai_memory_retention"`
	StrategyGoal      StrategyGoal `gorm:"column:strategy_goal;not null" json:"strategy_goal"`
	Device            Device       `gorm:"column:device;not null" json:"device"`

	OriginTimezone  string `gorm:"column:origin_timezone;not null" json:"origin_timezone"`
	PrimaryLanguage string `gorm:"column:primary_language;not null" json:"primary_language"`

	EmergencyStopEnabled bool `gorm:"column:emergency_stop_enabled;not null;default:false" json:"emergency_stop_enabled"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Settings) TableName() string { return "campaign_settings" }

func (s *Settings) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// DefaultSettings mirrors the product defaults for a new campaign.
func DefaultSettings(campaignID uuid.UUID) *Settings {
	return &Settings{
		CampaignID:          campaignID,
		MaxDailyPosts:       10,
		MinTimeBetweenPosts: 30,
		LanguageStyle:       LanguageProfessional,
		Persona:             PersonaNeutral,
		EmojiUsage:          UsageModerate,
		HashtagUsage:        UsageModerate,
		MaxHashtagsPerPost:  2,
		PlatformSettings:    datatypes.NewJSONType(map[Platform]PlatformSettings{}),
		BlockedKeywords:     datatypes.JSONSlice[string]{},
		AICreativityLevel:   0.7,
		AIMemoryRetention:   5,
		StrategyGoal:        GoalAwareness,
		Device:              DeviceMobile,
		OriginTimezone:      "UTC",
		PrimaryLanguage:     "en",
	}
}

// Validate returns the first invalid field, if any.
func (s *Settings) Validate() error {
	if s == nil {
		return fmt.Errorf("settings missing")
	}
	switch {
	case s.MaxDailyPosts <= 0 || s.MaxDailyPosts > 100:
		return fmt.Errorf("max_daily_posts must be in [1,100], got %d", s.MaxDailyPosts)
	case s.MinTimeBetweenPosts < 0 || s.MinTimeBetweenPosts > 1440:
		return fmt.Errorf("min_time_between_posts must be in [0,1440], got %d", s.MinTimeBetweenPosts)
	case s.AICreativityLevel < 0 || s.AICreativityLevel > 1:
		return fmt.Errorf("ai_creativity_level must be in [0,1], got %v", s.AICreativityLevel)
	case s.AIMemoryRetention < 0 || s.AIMemoryRetention > 30:
		return fmt.Errorf("ai_memory_retention must be in [0,30], got %d", s.AIMemoryRetention)
	case s.MaxHashtagsPerPost < 0 || s.MaxHashtagsPerPost > 30:
		return fmt.Errorf("max_hashtags_per_post must be in [0,30], got %d", s.MaxHashtagsPerPost)
	}
	if _, err := s.Location(); err != nil {
		return fmt.Errorf("origin_timezone %q: %w", s.OriginTimezone, err)
	}
	return nil
}

// Location resolves OriginTimezone, defaulting to UTC.
func (s *Settings) Location() (*time.Location, error) {
	if s == nil || strings.TrimSpace(s.OriginTimezone) == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(strings.TrimSpace(s.OriginTimezone))
}

// MemoryWindow is the number of recent posts consulted for stage quotas.
func (s *Settings) MemoryWindow() int {
	if s == nil || s.AIMemoryRetention <= 0 {
		return 5
	}
	return s.AIMemoryRetention
}

// Platform returns the overrides for p, falling back to platform defaults.
func (s *Settings) Platform(p Platform) PlatformSettings {
	var out PlatformSettings
	if s != nil {
		if m := s.PlatformSettings.Data(); m != nil {
			out = m[p]
		}
	}
	if out.MaxLength <= 0 {
		out.MaxLength = p.MaxLength()
	}
	return out
}
