package lifecycle

import (
	"time"

	types "github.com/yungbote/moonshill-backend/internal/domain"
)

// Breakpoints are the elapsed-day thresholds where a campaign moves from
// EARLY to MID and from MID to LATE.
type Breakpoints struct {
	Mid  int
	Late int
}

var breakpoints = map[types.Timeline]Breakpoints{
	types.TimelineOneWeek:     {Mid: 2, Late: 5},
	types.TimelineTwoWeeks:    {Mid: 4, Late: 10},
	types.TimelineOneMonth:    {Mid: 10, Late: 20},
	types.TimelineTwoMonths:   {Mid: 20, Late: 40},
	types.TimelineThreeMonths: {Mid: 30, Late: 60},
	types.TimelineSixMonths:   {Mid: 60, Late: 120},
	types.TimelineOneYear:     {Mid: 120, Late: 240},
}

// BreakpointsFor falls back to the one-year tier for unknown timelines.
func BreakpointsFor(t types.Timeline) Breakpoints {
	if bp, ok := breakpoints[t]; ok {
		return bp
	}
	return breakpoints[types.TimelineOneYear]
}

// ElapsedDays counts whole days since start. A start in the future is day 0.
func ElapsedDays(start, now time.Time) int {
	d := now.Sub(start)
	if d <= 0 {
		return 0
	}
	return int(d / (24 * time.Hour))
}

func PhaseAt(start time.Time, timeline types.Timeline, now time.Time) types.Phase {
	days := ElapsedDays(start, now)
	bp := BreakpointsFor(timeline)
	switch {
	case days < bp.Mid:
		return types.PhaseEarly
	case days < bp.Late:
		return types.PhaseMid
	default:
		return types.PhaseLate
	}
}

// CampaignPhase is PhaseAt for a campaign record.
func CampaignPhase(c *types.Campaign, now time.Time) types.Phase {
	if c == nil {
		return types.PhaseEarly
	}
	return PhaseAt(c.StartDate, c.Timeline, now)
}
