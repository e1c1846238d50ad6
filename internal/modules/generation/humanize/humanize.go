package humanize

import (
	"math/rand/v2"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	types "github.com/yungbote/moonshill-backend/internal/domain"
)

// Profile is the voice being imitated.
type Profile struct {
	Device types.Device
	// Emoji is the campaign's emoji usage; UsageNone disables emoji steps.
	Emoji types.UsageLevel
}

// Step is one perturbation. It fires with probability Weight × intensity and,
// when Applies is set, only if Applies accepts the input.
type Step struct {
	Name      string
	Weight    float64
	Applies   func(text string, p Profile) bool
	Transform func(r *rand.Rand, text string, device types.Device) string
}

// Humanizer applies its steps in a freshly shuffled order on every call. It
// is safe for concurrent use; calls serialize on the shared RNG.
type Humanizer struct {
	mu    sync.Mutex
	rng   *rand.Rand
	steps []Step
}

// New returns a Humanizer with the default step list.
func New(rng *rand.Rand) *Humanizer {
	return NewWithSteps(rng, DefaultSteps())
}

func NewWithSteps(rng *rand.Rand, steps []Step) *Humanizer {
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x6d6f6f6e))
	}
	cp := make([]Step, len(steps))
	copy(cp, steps)
	return &Humanizer{rng: rng, steps: cp}
}

// NewSeeded is a convenience for reproducible output.
func NewSeeded(seed uint64) *Humanizer {
	return New(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

func (h *Humanizer) Humanize(text string, intensity float64, device types.Device) string {
	out, _ := h.TraceAs(text, intensity, Profile{Device: device})
	return out
}

// HumanizeAs is Humanize for a full voice profile.
func (h *Humanizer) HumanizeAs(text string, intensity float64, p Profile) string {
	out, _ := h.TraceAs(text, intensity, p)
	return out
}

// Trace is Humanize that also reports which steps fired, in order.
func (h *Humanizer) Trace(text string, intensity float64, device types.Device) (string, []string) {
	return h.TraceAs(text, intensity, Profile{Device: device})
}

func (h *Humanizer) TraceAs(text string, intensity float64, p Profile) (string, []string) {
	if intensity <= 0 || strings.TrimSpace(text) == "" {
		return text, nil
	}
	if intensity > 1 {
		intensity = 1
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	order := make([]int, len(h.steps))
	for i := range order {
		order[i] = i
	}
	h.rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	var applied []string
	for _, idx := range order {
		s := h.steps[idx]
		if h.rng.Float64() >= s.Weight*intensity {
			continue
		}
		if s.Applies != nil && !s.Applies(text, p) {
			continue
		}
		next := s.Transform(h.rng, text, p.Device)
		if next != text {
			applied = append(applied, s.Name)
			text = next
		}
	}
	return text, applied
}

type Unit time.Duration

const (
	UnitMinute = Unit(time.Minute)
	UnitHour   = Unit(time.Hour)
	UnitDay    = Unit(24 * time.Hour)
)

// NextSilence adds a random pause of [lo, hi] units to base 20% of the time
// and returns base unchanged otherwise.
func (h *Humanizer) NextSilence(base time.Time, unit Unit, lo, hi int) time.Time {
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo < 0 {
		lo = 0
	}
	if hi < lo {
		hi = lo
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rng.Float64() >= 0.2 {
		return base
	}
	n := lo + h.rng.IntN(hi-lo+1)
	return base.Add(time.Duration(n) * time.Duration(unit))
}

// -------------------- shared helpers --------------------

var protectedRE = regexp.MustCompile(`https?://\S+|www\.\S+|[#@$][\p{L}\p{N}_]+|0x[0-9a-fA-F]+`)

type span struct{ start, end int }

func protectedSpans(text string) []span {
	var out []span
	for _, m := range protectedRE.FindAllStringIndex(text, -1) {
		out = append(out, span{m[0], m[1]})
	}
	return out
}

func overlaps(spans []span, start, end int) bool {
	for _, s := range spans {
		if start < s.end && end > s.start {
			return true
		}
	}
	return false
}

// replaceSome rewrites matches of re outside protected tokens. Each match is
// picked with probability p; when none is picked but candidates exist, one is
// picked at random so a fired step always changes something.
func replaceSome(r *rand.Rand, text string, re *regexp.Regexp, p float64, repl func(groups []string) string) string {
	protected := protectedSpans(text)
	var candidates [][]int
	for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
		if overlaps(protected, m[0], m[1]) {
			continue
		}
		candidates = append(candidates, m)
	}
	if len(candidates) == 0 {
		return text
	}
	chosen := make([]bool, len(candidates))
	picked := false
	for i := range candidates {
		if r.Float64() < p {
			chosen[i] = true
			picked = true
		}
	}
	if !picked {
		chosen[r.IntN(len(candidates))] = true
	}

	var b strings.Builder
	last := 0
	for i, m := range candidates {
		if !chosen[i] {
			continue
		}
		groups := make([]string, len(m)/2)
		for g := range groups {
			if m[2*g] >= 0 {
				groups[g] = text[m[2*g]:m[2*g+1]]
			}
		}
		b.WriteString(text[last:m[0]])
		b.WriteString(repl(groups))
		last = m[1]
	}
	b.WriteString(text[last:])
	return b.String()
}

var multiSpaceRE = regexp.MustCompile(`[ \t]{2,}`)

func squeezeSpaces(s string) string {
	lines := strings.Split(s, "\n")
	for i, ln := range lines {
		lines[i] = strings.TrimSpace(multiSpaceRE.ReplaceAllString(ln, " "))
	}
	return strings.Join(lines, "\n")
}

func alternation(words []string) string {
	sorted := append([]string(nil), words...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if len(sorted[i]) != len(sorted[j]) {
			return len(sorted[i]) > len(sorted[j])
		}
		return sorted[i] < sorted[j]
	})
	for i, w := range sorted {
		sorted[i] = regexp.QuoteMeta(w)
	}
	return strings.Join(sorted, "|")
}
