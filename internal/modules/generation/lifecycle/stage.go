package lifecycle

import (
	types "github.com/yungbote/moonshill-backend/internal/domain"
)

type quota struct {
	stage types.Stage
	limit int
}

// Each phase fills its quotas in order; the last entry is the fallback once
// every quota in the window is met.
var stagePlans = map[types.Phase]struct {
	quotas   []quota
	fallback types.Stage
}{
	types.PhaseEarly: {
		quotas:   []quota{{types.StageIntro, 2}, {types.StageHype, 3}},
		fallback: types.StageMeme,
	},
	types.PhaseMid: {
		quotas:   []quota{{types.StageDeepDive, 2}, {types.StageHype, 3}},
		fallback: types.StageMeme,
	},
	types.PhaseLate: {
		quotas:   []quota{{types.StageCTA, 2}, {types.StageDeepDive, 2}},
		fallback: types.StageHype,
	},
}

// StageCounts tallies stages in a post window.
func StageCounts(posts []*types.SocialPost) map[types.Stage]int {
	counts := make(map[types.Stage]int, 4)
	for _, p := range posts {
		if p == nil {
			continue
		}
		counts[p.Stage]++
	}
	return counts
}

// NextStage picks the first stage whose quota in the window is not yet met.
// Unknown phases are treated as LATE.
func NextStage(phase types.Phase, counts map[types.Stage]int) types.Stage {
	plan, ok := stagePlans[phase]
	if !ok {
		plan = stagePlans[types.PhaseLate]
	}
	for _, q := range plan.quotas {
		if counts[q.stage] < q.limit {
			return q.stage
		}
	}
	return plan.fallback
}

// ResolveStage is NextStage over a window of recent posts.
func ResolveStage(phase types.Phase, recent []*types.SocialPost) types.Stage {
	return NextStage(phase, StageCounts(recent))
}
