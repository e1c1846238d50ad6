package prompts

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

var funcs = template.FuncMap{
	"join": strings.Join,
	"pct":  func(f float64) string { return fmt.Sprintf("%.1f%%", f*100) },
	"usd": func(f float64) string {
		if f >= 1 {
			return fmt.Sprintf("$%.2f", f)
		}
		return fmt.Sprintf("$%.6g", f)
	},
	"yesno": func(b bool) string {
		if b {
			return "Yes"
		}
		return "No"
	},
	"hashtag": func(s string) string { return "#" + strings.ReplaceAll(s, " ", "") },
}

var tmpl = template.Must(template.New("prompts").Option("missingkey=zero").Funcs(funcs).Parse(`
{{define "persona"}}
Act as a {{.Persona}} voice with {{.EmojiUsage}} emoji usage, {{.HashtagUsage}} hashtag usage and a {{.LanguageStyle}} language style.
{{- if gt .MaxHashtags 0}}
Use at most {{.MaxHashtags}} hashtags.
{{- else}}
Do not use hashtags.
{{- end}}
{{end}}

{{define "project"}}
Project: {{.ProjectName}}
Info: {{.ProjectInfo}}
{{- with .Market}}
Market Data:
- Price: {{usd .PriceUSD}}
- 24h Change: {{printf "%.2f" .PriceChange24h}}%
- 24h Volume: {{usd .Volume24h}}
- Market Cap: {{usd .MarketCap}}
{{- end}}
{{end}}

{{define "platform"}}
Platform: {{.Platform}}
- Max length: {{.PlatformSettings.MaxLength}} characters
{{- if .PlatformSettings.ThreadMode}}
- Thread mode: split into short numbered parts
{{- end}}
{{- range $k, $v := .PlatformSettings.Extra}}
- {{$k}}: {{$v}}
{{- end}}
{{end}}

{{define "trending"}}
{{- if .Trending}}
Trending topics: {{join .Trending ", "}}
Relevant hashtags:{{range .Trending}} {{hashtag .}}{{end}}
{{- else}}
Trending topics: none right now
{{- end}}
{{end}}

{{define "strategy"}}
Goal: {{.Goal}}
Phase: {{.Phase}}
Key Messages: {{join .KeyMessages ", "}}
{{end}}

{{define "memory"}}
Post History Context:
Current Stage: {{.Stage}}
Style: {{.Style}}

Recent Posts:
{{- range .Recent}}
Recent post ({{.Stage}}): {{.Content}}
{{- end}}

Previous {{.Stage}} Posts:
{{- range .StagePosts}}
Previous {{.Stage}} post: {{.Content}}
{{- end}}

Instructions:
- Ensure post progression and avoid repeating ideas
- Build upon previous posts while maintaining consistency
- Vary the approach while staying within the current stage
{{end}}

{{define "performance"}}
Performance Insights:
{{- if .HasShare}}
- The {{.Style}} style makes up {{pct .StyleShare}} of recent successful posts
{{- end}}
- Aim to match the tone and style of previous successful posts
{{- if ge .BestHour 0}}
- Engagement has peaked around {{printf "%02d:00" .BestHour}}
{{- end}}
{{- if .HasCentroid}}
- Use similar semantic patterns to successful posts
{{- end}}
{{- range .Proven}}
- Proven {{.Style}} opening ({{.SampleSize}} posts, {{pct .SuccessRate}} avg engagement): "{{.Opening}}"
{{- end}}
{{end}}

{{define "time"}}
Time Context:
- Current Date: {{.Date}}
- Current Time: {{.Clock}}
- Day of Week: {{.Weekday}}
- Season: {{.Season}}
- Is Weekend: {{yesno .Weekend}}

Instructions:
- Consider time-appropriate content and tone
- Consider seasonal relevance in content
{{end}}
`))

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return strings.TrimSpace(buf.String()), nil
}
