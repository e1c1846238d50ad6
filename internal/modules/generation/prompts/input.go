package prompts

import (
	types "github.com/yungbote/moonshill-backend/internal/domain"
	"github.com/yungbote/moonshill-backend/internal/modules/generation/performance"
	"github.com/yungbote/moonshill-backend/internal/platform/marketdata"
)

// Input carries everything the fragments render. Zero values render as
// empty sections rather than errors.
type Input struct {
	ProjectName string
	ProjectInfo string
	KeyMessages []string

	Persona       types.Persona
	LanguageStyle types.LanguageStyle
	EmojiUsage    types.UsageLevel
	HashtagUsage  types.UsageLevel
	MaxHashtags   int

	Platform         types.Platform
	PlatformSettings types.PlatformSettings

	Market   *marketdata.MarketData
	Trending []string

	Goal  types.StrategyGoal
	Phase types.Phase
	Stage types.Stage
	Style types.Style

	Recent     []*types.SocialPost
	StagePosts []*types.SocialPost

	Performance performance.Aggregate

	Time TimeContext
}
