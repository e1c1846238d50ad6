package domain

import (
	"github.com/yungbote/moonshill-backend/internal/domain/campaigns"
	"github.com/yungbote/moonshill-backend/internal/domain/generation"
)

type (
	Workspace          = campaigns.Workspace
	Campaign           = campaigns.Campaign
	CampaignSettings   = campaigns.Settings
	PlatformSettings   = campaigns.PlatformSettings
	PlatformConnection = campaigns.PlatformConnection

	Timeline       = campaigns.Timeline
	CampaignStatus = campaigns.Status
	Platform       = campaigns.Platform
	Persona        = campaigns.Persona
	LanguageStyle  = campaigns.LanguageStyle
	UsageLevel     = campaigns.UsageLevel
	StrategyGoal   = campaigns.StrategyGoal
	Device         = campaigns.Device
)

type (
	SocialPost        = generation.SocialPost
	PostMetrics       = generation.Metrics
	PostMetadata      = generation.PostMetadata
	EngagementPattern = generation.EngagementPattern

	Phase      = generation.Phase
	Stage      = generation.Stage
	Style      = generation.Style
	PostType   = generation.PostType
	PostStatus = generation.PostStatus
)

const (
	TimelineOneWeek     = campaigns.TimelineOneWeek
	TimelineTwoWeeks    = campaigns.TimelineTwoWeeks
	TimelineOneMonth    = campaigns.TimelineOneMonth
	TimelineTwoMonths   = campaigns.TimelineTwoMonths
	TimelineThreeMonths = campaigns.TimelineThreeMonths
	TimelineSixMonths   = campaigns.TimelineSixMonths
	TimelineOneYear     = campaigns.TimelineOneYear

	CampaignPending   = campaigns.StatusPending
	CampaignPaused    = campaigns.StatusPaused
	CampaignRunning   = campaigns.StatusRunning
	CampaignCompleted = campaigns.StatusCompleted
	CampaignCancelled = campaigns.StatusCancelled

	PlatformTwitter  = campaigns.PlatformTwitter
	PlatformTelegram = campaigns.PlatformTelegram
	PlatformDiscord  = campaigns.PlatformDiscord

	DeviceMobile  = campaigns.DeviceMobile
	DeviceDesktop = campaigns.DeviceDesktop

	GoalAwareness    = campaigns.GoalAwareness
	GoalFOMO         = campaigns.GoalFOMO
	GoalReEngagement = campaigns.GoalReEngagement
	GoalCallToAction = campaigns.GoalCallToAction

	UsageNone     = campaigns.UsageNone
	UsageMinimal  = campaigns.UsageMinimal
	UsageModerate = campaigns.UsageModerate
	UsageHeavy    = campaigns.UsageHeavy

	PersonaNeutral  = campaigns.PersonaNeutral
	PersonaDegen    = campaigns.PersonaDegen
	PersonaHype     = campaigns.PersonaHype
	PersonaMemelord = campaigns.PersonaMemelord

	LanguageProfessional = campaigns.LanguageProfessional
	LanguageCasual       = campaigns.LanguageCasual
	LanguageFormal       = campaigns.LanguageFormal
	LanguageFriendly     = campaigns.LanguageFriendly
	LanguageTechnical    = campaigns.LanguageTechnical

	PhaseEarly = generation.PhaseEarly
	PhaseMid   = generation.PhaseMid
	PhaseLate  = generation.PhaseLate

	StageIntro       = generation.StageIntro
	StageHype        = generation.StageHype
	StageMeme        = generation.StageMeme
	StageDeepDive    = generation.StageDeepDive
	StageCTA         = generation.StageCTA
	StageFUDResponse = generation.StageFUDResponse
	StageNews        = generation.StageNews
	StageAnalysis    = generation.StageAnalysis

	StyleThread      = generation.StyleThread
	StyleMeme        = generation.StyleMeme
	StyleQuestion    = generation.StyleQuestion
	StyleFUDResponse = generation.StyleFUDResponse
	StyleNews        = generation.StyleNews
	StyleAnalysis    = generation.StyleAnalysis
	StyleTutorial    = generation.StyleTutorial
	StylePoll        = generation.StylePoll
	StyleDiscussion  = generation.StyleDiscussion

	PostTypeText = generation.PostTypeText

	PostDraft              = generation.PostDraft
	PostScheduled          = generation.PostScheduled
	PostPublished          = generation.PostPublished
	PostFailed             = generation.PostFailed
	PostPartiallyPublished = generation.PostPartiallyPublished
	PostCancelled          = generation.PostCancelled

	PatternTypeStyle = generation.PatternTypeStyle
)

var (
	Timelines               = campaigns.Timelines
	Platforms               = campaigns.Platforms
	DefaultCampaignSettings = campaigns.DefaultSettings
	ParseTimeline           = campaigns.ParseTimeline
)

// Models lists every persisted type in migration order.
func Models() []any {
	return []any{
		&Workspace{},
		&Campaign{},
		&CampaignSettings{},
		&PlatformConnection{},
		&SocialPost{},
		&EngagementPattern{},
	}
}
