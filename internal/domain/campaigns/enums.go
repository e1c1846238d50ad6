package campaigns

import "strings"

type Timeline string

const (
	TimelineOneWeek     Timeline = "1 Week"
	TimelineTwoWeeks    Timeline = "2 Weeks"
	TimelineOneMonth    Timeline = "1 Month"
	TimelineTwoMonths   Timeline = "2 Months"
	TimelineThreeMonths Timeline = "3 Months"
	TimelineSixMonths   Timeline = "6 Months"
	TimelineOneYear     Timeline = "1 Year"
)

var Timelines = []Timeline{
	TimelineOneWeek,
	TimelineTwoWeeks,
	TimelineOneMonth,
	TimelineTwoMonths,
	TimelineThreeMonths,
	TimelineSixMonths,
	TimelineOneYear,
}

// ParseTimeline accepts the display form ("2 Weeks") or the constant form
// ("TWO_WEEKS"), case-insensitively.
func ParseTimeline(s string) (Timeline, bool) {
	key := strings.ToUpper(strings.TrimSpace(s))
	for _, t := range Timelines {
		if strings.ToUpper(string(t)) == key {
			return t, true
		}
	}
	switch key {
	case "ONE_WEEK":
		return TimelineOneWeek, true
	case "TWO_WEEKS":
		return TimelineTwoWeeks, true
	case "ONE_MONTH":
		return TimelineOneMonth, true
	case "TWO_MONTHS":
		return TimelineTwoMonths, true
	case "THREE_MONTHS":
		return TimelineThreeMonths, true
	case "SIX_MONTHS":
		return TimelineSixMonths, true
	case "ONE_YEAR":
		return TimelineOneYear, true
	}
	return "", false
}

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPaused    Status = "PAUSED"
	StatusRunning   Status = "RUNNING"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

type Platform string

const (
	PlatformTwitter  Platform = "twitter"
	PlatformTelegram Platform = "telegram"
	PlatformDiscord  Platform = "discord"
)

var Platforms = []Platform{PlatformTwitter, PlatformTelegram, PlatformDiscord}

func (p Platform) Valid() bool {
	for _, v := range Platforms {
		if v == p {
			return true
		}
	}
	return false
}

// MaxLength is the default content limit in runes.
func (p Platform) MaxLength() int {
	switch p {
	case PlatformTwitter:
		return 280
	case PlatformDiscord:
		return 2000
	case PlatformTelegram:
		return 4096
	default:
		return 0
	}
}

type Persona string

const (
	PersonaNeutral  Persona = "neutral"
	PersonaDegen    Persona = "degen"
	PersonaHype     Persona = "hype"
	PersonaMemelord Persona = "memelord"
)

type LanguageStyle string

const (
	LanguageProfessional LanguageStyle = "professional"
	LanguageCasual       LanguageStyle = "casual"
	LanguageFormal       LanguageStyle = "formal"
	LanguageFriendly     LanguageStyle = "friendly"
	LanguageTechnical    LanguageStyle = "technical"
)

type UsageLevel string

const (
	UsageNone     UsageLevel = "none"
	UsageMinimal  UsageLevel = "minimal"
	UsageModerate UsageLevel = "moderate"
	UsageHeavy    UsageLevel = "heavy"
)

type StrategyGoal string

const (
	GoalAwareness    StrategyGoal = "awareness"
	GoalFOMO         StrategyGoal = "fomo"
	GoalReEngagement StrategyGoal = "re_engagement"
	GoalCallToAction StrategyGoal = "call_to_action"
)

type Device string

const (
	DeviceMobile  Device = "mobile"
	DeviceDesktop Device = "desktop"
)
