package generation

type Phase string

const (
	PhaseEarly Phase = "EARLY"
	PhaseMid   Phase = "MID"
	PhaseLate  Phase = "LATE"
)

// Rank orders phases so later phases compare greater.
func (p Phase) Rank() int {
	switch p {
	case PhaseEarly:
		return 0
	case PhaseMid:
		return 1
	case PhaseLate:
		return 2
	default:
		return -1
	}
}

type Stage string

const (
	StageIntro       Stage = "intro"
	StageHype        Stage = "hype"
	StageMeme        Stage = "meme"
	StageDeepDive    Stage = "deep_dive"
	StageCTA         Stage = "cta"
	StageFUDResponse Stage = "fud_response"
	StageNews        Stage = "news"
	StageAnalysis    Stage = "analysis"
)

type Style string

const (
	StyleThread      Style = "thread"
	StyleMeme        Style = "meme"
	StyleQuestion    Style = "question"
	StyleFUDResponse Style = "fud_response"
	StyleNews        Style = "news"
	StyleAnalysis    Style = "analysis"
	StyleTutorial    Style = "tutorial"
	StylePoll        Style = "poll"
	StyleDiscussion  Style = "discussion"
)

type PostType string

const (
	PostTypeText    PostType = "text"
	PostTypeImage   PostType = "image"
	PostTypeVideo   PostType = "video"
	PostTypeArticle PostType = "article"
	PostTypeThread  PostType = "thread"
	PostTypePoll    PostType = "poll"
	PostTypeLink    PostType = "link"
	PostTypeMixed   PostType = "mixed"
)

type PostStatus string

const (
	PostDraft              PostStatus = "DRAFT"
	PostScheduled          PostStatus = "SCHEDULED"
	PostPublished          PostStatus = "PUBLISHED"
	PostFailed             PostStatus = "FAILED"
	PostPartiallyPublished PostStatus = "PARTIALLY_PUBLISHED"
	PostCancelled          PostStatus = "CANCELLED"
)

// Terminal statuses never change again.
func (s PostStatus) Terminal() bool {
	switch s {
	case PostPublished, PostFailed, PostPartiallyPublished, PostCancelled:
		return true
	default:
		return false
	}
}

// CanTransition reports whether s may move to next. Status only moves
// forward: DRAFT -> SCHEDULED -> terminal, and DRAFT may also be cancelled
// directly.
func (s PostStatus) CanTransition(next PostStatus) bool {
	if s == next {
		return false
	}
	switch s {
	case PostDraft:
		return next == PostScheduled || next == PostCancelled
	case PostScheduled:
		return next.Terminal()
	default:
		return false
	}
}
