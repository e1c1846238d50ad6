package prompts

import (
	"sort"
	"strings"
)

const (
	FragmentPersona     = "persona"
	FragmentProject     = "project"
	FragmentPlatform    = "platform"
	FragmentTrending    = "trending"
	FragmentStrategy    = "strategy"
	FragmentMemory      = "memory"
	FragmentPerformance = "performance"
	FragmentTime        = "time"
)

// Fixed importance weights. Higher weights are placed earlier in the prompt.
var Weights = map[string]float64{
	FragmentPersona:     1.8,
	FragmentProject:     3.0,
	FragmentPlatform:    2.8,
	FragmentTrending:    2.2,
	FragmentStrategy:    2.4,
	FragmentMemory:      2.5,
	FragmentPerformance: 2.3,
	FragmentTime:        1.5,
}

// Fragment is one weighted section of a generation prompt.
type Fragment struct {
	Name    string
	Content string
	Weight  float64
}

// Order returns fragments sorted by descending weight. Equal weights keep
// their input order.
func Order(fragments []Fragment) []Fragment {
	out := make([]Fragment, len(fragments))
	copy(out, fragments)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Weight > out[j].Weight })
	return out
}

// Combine joins ordered fragments with a blank line, skipping empty ones.
func Combine(fragments []Fragment) string {
	parts := make([]string, 0, len(fragments))
	for _, f := range Order(fragments) {
		c := strings.TrimSpace(f.Content)
		if c == "" {
			continue
		}
		parts = append(parts, c)
	}
	return strings.Join(parts, "\n\n")
}
