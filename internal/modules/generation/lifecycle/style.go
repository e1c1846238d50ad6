package lifecycle

import (
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	types "github.com/yungbote/moonshill-backend/internal/domain"
)

var fallbackStyles = map[types.Phase][]types.Style{
	types.PhaseEarly: {types.StyleThread, types.StyleQuestion, types.StyleNews},
	types.PhaseMid:   {types.StyleMeme, types.StyleAnalysis, types.StyleFUDResponse},
	types.PhaseLate:  {types.StyleThread, types.StyleAnalysis, types.StyleFUDResponse},
}

// FallbackStyles returns the phase's candidate set when no success history
// exists.
func FallbackStyles(phase types.Phase) []types.Style {
	if s, ok := fallbackStyles[phase]; ok {
		return append([]types.Style(nil), s...)
	}
	return append([]types.Style(nil), fallbackStyles[types.PhaseLate]...)
}

type StyleSampler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewStyleSampler(rng *rand.Rand) *StyleSampler {
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x7374796c))
	}
	return &StyleSampler{rng: rng}
}

// Choose samples dist proportionally to its weights. With no positive
// weight it draws uniformly from the phase's fallback set.
func (s *StyleSampler) Choose(phase types.Phase, dist map[types.Style]float64) types.Style {
	keys := make([]types.Style, 0, len(dist))
	total := 0.0
	for k, w := range dist {
		if w > 0 {
			keys = append(keys, k)
			total += w
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if total <= 0 {
		cands := FallbackStyles(phase)
		return cands[s.rng.IntN(len(cands))]
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	x := s.rng.Float64() * total
	for _, k := range keys {
		x -= dist[k]
		if x < 0 {
			return k
		}
	}
	return keys[len(keys)-1]
}
