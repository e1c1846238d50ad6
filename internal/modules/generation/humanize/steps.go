package humanize

import (
	"math/rand/v2"
	"regexp"
	"strings"

	types "github.com/yungbote/moonshill-backend/internal/domain"
)

const (
	StepAbbreviation = "abbreviation"
	StepTypo         = "typo"
	StepEmoji        = "emoji"
	StepPunctuation  = "punctuation"
	StepCapitals     = "capitals"
	StepDevice       = "device"
)

// DefaultSteps is the production step list. Order here is irrelevant since
// every call shuffles it.
func DefaultSteps() []Step {
	return []Step{
		{Name: StepAbbreviation, Weight: 0.6, Transform: abbreviate},
		{Name: StepTypo, Weight: 0.35, Transform: typo},
		{
			Name:   StepEmoji,
			Weight: 0.5,
			Applies: func(_ string, p Profile) bool {
				return p.Emoji != types.UsageNone
			},
			Transform: emoji,
		},
		{Name: StepPunctuation, Weight: 0.5, Transform: punctuation},
		{Name: StepCapitals, Weight: 0.3, Transform: capitals},
		{
			Name:   StepDevice,
			Weight: 0.5,
			Applies: func(_ string, p Profile) bool {
				return p.Device == types.DeviceMobile || p.Device == types.DeviceDesktop
			},
			Transform: deviceQuirks,
		},
	}
}

// -------------------- abbreviations --------------------

var abbreviations = map[string]string{
	"the": "teh", "and": "adn", "you": "u", "your": "ur", "are": "r",
	"for": "4", "to": "2", "too": "2", "be": "b", "see": "c", "why": "y",
	"with": "w/", "without": "w/o", "because": "cuz", "though": "tho",
	"through": "thru", "tonight": "2nite", "today": "2day", "tomorrow": "2moro",
	"please": "plz", "thanks": "thx", "thank you": "ty", "great": "gr8",
	"wait": "w8", "mate": "m8", "later": "l8r", "before": "b4", "about": "abt",
	"people": "ppl", "probably": "prob", "definitely": "def", "whatever": "wtv",
	"what": "wut", "want": "wnt", "would": "wld", "should": "shld", "could": "cld",
	"going to": "gonna", "want to": "wanna", "got to": "gotta", "kind of": "kinda",
	"sort of": "sorta", "right now": "rn", "in my opinion": "imo", "to be honest": "tbh",
	"oh my god": "omg", "laughing out loud": "lol",
}

var abbreviationRE = func() *regexp.Regexp {
	keys := make([]string, 0, len(abbreviations))
	for k := range abbreviations {
		keys = append(keys, k)
	}
	return regexp.MustCompile(`(?i)\b(` + alternation(keys) + `)\b`)
}()

func abbreviate(r *rand.Rand, text string, _ types.Device) string {
	return replaceSome(r, text, abbreviationRE, 0.35, func(g []string) string {
		if short, ok := abbreviations[strings.ToLower(g[1])]; ok {
			return short
		}
		return g[0]
	})
}

// -------------------- keyboard typos --------------------

var adjacentKeys = map[byte]string{
	'a': "qwsz", 'b': "vghn", 'c': "xdfv", 'd': "serfcx", 'e': "wsdr",
	'f': "drtgvc", 'g': "ftyhbv", 'h': "gyujnb", 'i': "ujko", 'j': "huikmn",
	'k': "jiolm", 'l': "kop", 'm': "njk", 'n': "bhjm", 'o': "iklp",
	'p': "ol", 'q': "wa", 'r': "edft", 's': "awedxz", 't': "rfgy",
	'u': "yhji", 'v': "cfgb", 'w': "qase", 'x': "zsdc", 'y': "tghu",
	'z': "asx",
}

var typoWordRE = regexp.MustCompile(`\b[A-Za-z]{3,}\b`)

// typo swaps one interior letter of some words for a QWERTY neighbour,
// keeping the original letter case.
func typo(r *rand.Rand, text string, _ types.Device) string {
	return replaceSome(r, text, typoWordRE, 0.08, func(g []string) string {
		w := []byte(g[0])
		pos := 1 + r.IntN(len(w)-1)
		c := w[pos]
		lower := c | 0x20
		near, ok := adjacentKeys[lower]
		if !ok {
			return g[0]
		}
		repl := near[r.IntN(len(near))]
		if c != lower {
			repl &^= 0x20
		}
		w[pos] = repl
		return string(w)
	})
}

// -------------------- emoji --------------------

var (
	emojiRE     = regexp.MustCompile(`[\x{1F300}-\x{1FAFF}\x{2600}-\x{27BF}]`)
	extraEmojis = []string{"😅", "🤔", "💭", "✨", "🔥", "💯", "👀", "🙌"}
)

func emoji(r *rand.Rand, text string, _ types.Device) string {
	padded := squeezeSpaces(emojiRE.ReplaceAllString(text, " $0 "))
	if padded != squeezeSpaces(text) && r.Float64() < 0.5 {
		return padded
	}
	return strings.TrimRight(padded, " ") + " " + extraEmojis[r.IntN(len(extraEmojis))]
}

// -------------------- punctuation --------------------

var (
	sentencePeriodRE = regexp.MustCompile(`([\p{L}\p{N})])\.(\s|$)`)
	bangRE           = regexp.MustCompile(`!+`)
	questionRE       = regexp.MustCompile(`\?+`)
)

type punctVariant struct {
	re   *regexp.Regexp
	repl func(g []string) string
}

var punctVariants = []punctVariant{
	{sentencePeriodRE, func(g []string) string { return g[1] + "..." + g[2] }},
	{bangRE, func(g []string) string { return "!!!" }},
	{questionRE, func(g []string) string { return "???" }},
}

func punctuation(r *rand.Rand, text string, _ types.Device) string {
	out := text
	for _, v := range punctVariants {
		if r.Float64() < 0.5 {
			out = replaceSome(r, out, v.re, 0.5, v.repl)
		}
	}
	if out != text {
		return out
	}
	for _, v := range punctVariants {
		out = replaceSome(r, out, v.re, 0.5, v.repl)
		if out != text {
			return out
		}
	}
	return strings.TrimRight(text, " ") + "..."
}

// -------------------- capitalization --------------------

var longWordRE = regexp.MustCompile(`\b[A-Za-z]{4,}\b`)

func capitals(r *rand.Rand, text string, _ types.Device) string {
	return replaceSome(r, text, longWordRE, 0.15, func(g []string) string {
		return strings.ToUpper(g[0])
	})
}

// -------------------- device quirks --------------------

var (
	spaceBeforePunctRE = regexp.MustCompile(`([\p{L}\p{N}])([.,])(\s|$)`)
	ingRE              = regexp.MustCompile(`\b([A-Za-z]{2,})ing\b`)
	youRE              = regexp.MustCompile(`(?i)\byou\b`)
	areRE              = regexp.MustCompile(`(?i)\bare\b`)
	lowerWordRE        = regexp.MustCompile(`\b([a-z])([a-z]{3,})\b`)
)

func deviceQuirks(r *rand.Rand, text string, d types.Device) string {
	switch d {
	case types.DeviceMobile:
		out := replaceSome(r, text, spaceBeforePunctRE, 1, func(g []string) string {
			return g[1] + " " + g[2] + g[3]
		})
		if out != text && r.Float64() >= 0.3 {
			return out
		}
		out = replaceSome(r, out, ingRE, 0.5, func(g []string) string { return g[1] + "in" })
		out = replaceSome(r, out, youRE, 0.5, func([]string) string { return "u" })
		return replaceSome(r, out, areRE, 0.5, func([]string) string { return "r" })
	case types.DeviceDesktop:
		return replaceSome(r, text, lowerWordRE, 0.3, func(g []string) string {
			return strings.ToUpper(g[1]) + g[2]
		})
	default:
		return text
	}
}
