package prompts

import "time"

type TimeContext struct {
	Date    string
	Clock   string
	Weekday string
	Season  string
	Weekend bool
	Hour    int
}

// NewTimeContext describes now as seen in loc (UTC when nil).
func NewTimeContext(now time.Time, loc *time.Location) TimeContext {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	wd := local.Weekday()
	return TimeContext{
		Date:    local.Format("2006-01-02"),
		Clock:   local.Format("15:04:05"),
		Weekday: wd.String(),
		Season:  Season(local.Month()),
		Weekend: wd == time.Saturday || wd == time.Sunday,
		Hour:    local.Hour(),
	}
}

// Season uses northern-hemisphere meteorological seasons.
func Season(m time.Month) string {
	switch m {
	case time.December, time.January, time.February:
		return "winter"
	case time.March, time.April, time.May:
		return "spring"
	case time.June, time.July, time.August:
		return "summer"
	default:
		return "autumn"
	}
}
