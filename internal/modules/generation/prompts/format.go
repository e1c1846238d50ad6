package prompts

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	types "github.com/yungbote/moonshill-backend/internal/domain"
)

type FormatOptions struct {
	// MaxLength is in runes; 0 disables truncation.
	MaxLength   int
	MaxHashtags int
	// Redact lists terms replaced with *** as whole words, case-insensitively.
	Redact []string
}

// OptionsFor derives formatting constraints for one platform.
func OptionsFor(c *types.Campaign, s *types.CampaignSettings, p types.Platform) FormatOptions {
	opts := FormatOptions{MaxLength: s.Platform(p).MaxLength}
	if s != nil {
		if s.HashtagUsage != types.UsageNone {
			opts.MaxHashtags = s.MaxHashtagsPerPost
		}
		opts.Redact = append(opts.Redact, s.BlockedKeywords...)
	}
	if c != nil {
		opts.Redact = append(opts.Redact, c.ProhibitedTerms...)
	}
	return opts
}

const (
	redaction = "***"
	ellipsis  = "…"
)

var (
	excessNewlinesRE = regexp.MustCompile(`\n{3,}`)
	hashtagRE        = regexp.MustCompile(`#[\p{L}\p{N}_]+`)
	hashtagGapRE     = regexp.MustCompile(`[ \t]{2,}`)
)

// Format applies platform constraints to generated text: newline
// collapsing, redaction, hashtag limits and rune-length truncation, in that
// order.
func Format(text string, opts FormatOptions) string {
	out := excessNewlinesRE.ReplaceAllString(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n")
	out = strings.TrimSpace(out)
	out = redact(out, opts.Redact)
	out = limitHashtags(out, opts.MaxHashtags)
	return truncate(out, opts.MaxLength)
}

func redact(text string, terms []string) string {
	var words []string
	for _, t := range terms {
		if t = strings.TrimSpace(t); t != "" {
			words = append(words, regexp.QuoteMeta(t))
		}
	}
	if len(words) == 0 {
		return text
	}
	re := regexp.MustCompile(`(?i)(^|[^\p{L}\p{N}_])(` + strings.Join(words, "|") + `)($|[^\p{L}\p{N}_])`)
	// Adjacent matches share a boundary rune, so repeat until stable.
	for {
		next := re.ReplaceAllString(text, "${1}"+redaction+"${3}")
		if next == text {
			return text
		}
		text = next
	}
}

// limitHashtags drops hashtags past limit, scanning from the end.
func limitHashtags(text string, limit int) string {
	if limit < 0 {
		limit = 0
	}
	locs := hashtagRE.FindAllStringIndex(text, -1)
	if len(locs) <= limit {
		return text
	}
	drop := locs[limit:]
	var b strings.Builder
	last := 0
	for _, l := range drop {
		b.WriteString(text[last:l[0]])
		last = l[1]
	}
	b.WriteString(text[last:])

	lines := strings.Split(b.String(), "\n")
	for i, ln := range lines {
		lines[i] = strings.TrimRight(hashtagGapRE.ReplaceAllString(ln, " "), " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// truncate cuts text to at most limit runes including the ellipsis, at the
// last word boundary when one exists.
func truncate(text string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}
	if limit == 1 {
		return ellipsis
	}
	all := []rune(text)
	r := all[:limit-1]
	cut := len(r)
	if !unicode.IsSpace(all[limit-1]) {
		for i := len(r) - 1; i > 0; i-- {
			if unicode.IsSpace(r[i]) {
				cut = i
				break
			}
		}
	}
	return strings.TrimRightFunc(string(r[:cut]), unicode.IsSpace) + ellipsis
}
