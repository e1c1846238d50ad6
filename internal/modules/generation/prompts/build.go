package prompts

import (
	types "github.com/yungbote/moonshill-backend/internal/domain"
	"github.com/yungbote/moonshill-backend/internal/modules/generation/performance"
)

type performanceView struct {
	Style       types.Style
	HasShare    bool
	StyleShare  float64
	BestHour    int
	HasCentroid bool
	Proven      []performance.Proven
}

// Fragments renders the eight prompt sections in their canonical order.
// The performance section is empty when there is no success evidence.
func Fragments(in Input) ([]Fragment, error) {
	perf := ""
	if !in.Performance.Empty() {
		var err error
		perf, err = render(FragmentPerformance, performanceView{
			Style:       in.Style,
			HasShare:    in.Performance.SampleSize > 0,
			StyleShare:  in.Performance.Styles[in.Style],
			BestHour:    in.Performance.BestHour(),
			HasCentroid: len(in.Performance.Centroid) > 0,
			Proven:      in.Performance.Proven,
		})
		if err != nil {
			return nil, err
		}
	}

	sections := []struct {
		name string
		data any
	}{
		{FragmentPersona, in},
		{FragmentProject, in},
		{FragmentPlatform, in},
		{FragmentTrending, in},
		{FragmentStrategy, in},
		{FragmentMemory, in},
		{FragmentPerformance, nil},
		{FragmentTime, in.Time},
	}
	out := make([]Fragment, 0, len(sections))
	for _, s := range sections {
		content := perf
		if s.name != FragmentPerformance {
			var err error
			if content, err = render(s.name, s.data); err != nil {
				return nil, err
			}
		}
		out = append(out, Fragment{Name: s.name, Content: content, Weight: Weights[s.name]})
	}
	return out, nil
}

// Build renders and combines the prompt.
func Build(in Input) (string, error) {
	fr, err := Fragments(in)
	if err != nil {
		return "", err
	}
	return Combine(fr), nil
}
