package campaigns

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Workspace struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string         `gorm:"column:name;not null" json:"name"`
	IsActive  bool           `gorm:"column:is_active;not null" json:"is_active"`
	IsDeleted bool           `gorm:"column:is_deleted;not null;default:false" json:"is_deleted"`
	CreatedAt time.Time      `gorm:"not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Workspace) TableName() string { return "workspace" }

func (w *Workspace) BeforeCreate(*gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

type Campaign struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	WorkspaceID  uuid.UUID `gorm:"type:uuid;not null;index" json:"workspace_id"`
	Name         string    `gorm:"column:name;not null" json:"name"`
	ProjectName  string    `gorm:"column:project_name" json:"project_name"`
	ProjectInfo  string    `gorm:"column:project_info" json:"project_info"`
	TokenAddress string    `gorm:"column:token_address" json:"token_address,omitempty"`
	Chain        string    `gorm:"column:chain" json:"chain,omitempty"`

	StartDate time.Time `gorm:"column:start_date;not null" json:"start_date"`
	Timeline  Timeline  `gorm:"column:timeline;not null" json:"timeline"`

	KeyMessages     datatypes.JSONSlice[string] `gorm:"column:key_messages" json:"key_messages"`
	ProhibitedTerms datatypes.JSONSlice[string] `gorm:"column:prohibited_terms" json:"prohibited_terms"`

	Status      Status `gorm:"column:status;not null;index" json:"status"`
	IsActive    bool   `gorm:"column:is_active;not null;index" json:"is_active"`
	IsPaused    bool   `gorm:"column:is_paused;not null;default:false;index" json:"is_paused"`
	PauseReason string `gorm:"column:pause_reason" json:"pause_reason,omitempty"`

	NextRunAt  *time.Time `gorm:"column:next_run_at;index" json:"next_run_at,omitempty"`
	LeaseUntil *time.Time `gorm:"column:lease_until;index" json:"lease_until,omitempty"`
	LastRunAt  *time.Time `gorm:"column:last_run_at" json:"last_run_at,omitempty"`

	Workspace *Workspace `gorm:"foreignKey:WorkspaceID" json:"workspace,omitempty"`

	CreatedAt time.Time      `gorm:"not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Campaign) TableName() string { return "campaign" }

func (c *Campaign) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Status == "" {
		c.Status = StatusPending
	}
	return nil
}

// Due reports whether the campaign's next run time has passed. A campaign
// that was never scheduled is due.
func (c *Campaign) Due(now time.Time) bool {
	return c.NextRunAt == nil || !c.NextRunAt.After(now)
}

type PlatformConnection struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CampaignID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_connection_campaign_platform" json:"campaign_id"`
	Platform    Platform  `gorm:"column:platform;not null;uniqueIndex:idx_connection_campaign_platform" json:"platform"`
	Handle      string    `gorm:"column:handle" json:"handle,omitempty"`
	IsConnected bool      `gorm:"column:is_connected;not null;default:false;index" json:"is_connected"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (PlatformConnection) TableName() string { return "platform_connection" }

func (p *PlatformConnection) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
