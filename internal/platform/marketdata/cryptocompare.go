package marketdata

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/moonshill-backend/internal/pkg/httpx"
)

const defaultCryptoCompareURL = "https://min-api.cryptocompare.com/data/v2"

type CryptoCompare struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

type newsResponse struct {
	Data []struct {
		Title       string `json:"title"`
		URL         string `json:"url"`
		Source      string `json:"source"`
		PublishedOn int64  `json:"published_on"`
	} `json:"Data"`
}

// News returns headlines whose title matches any keyword.
func (c *CryptoCompare) News(ctx context.Context, keywords []string) ([]NewsItem, error) {
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		base = defaultCryptoCompareURL
	}
	var headers map[string]string
	if c.APIKey != "" {
		headers = map[string]string{"authorization": "Apikey " + c.APIKey}
	}
	var resp newsResponse
	if err := httpx.DoJSON(ctx, c.HTTPClient, "cryptocompare", http.MethodGet, base+"/news/?lang=EN", headers, nil, &resp); err != nil {
		return nil, err
	}
	var out []NewsItem
	for _, n := range resp.Data {
		if strings.TrimSpace(n.Title) == "" || !matchesAny(n.Title, keywords) {
			continue
		}
		out = append(out, NewsItem{
			Title:       n.Title,
			URL:         n.URL,
			Source:      n.Source,
			PublishedAt: time.Unix(n.PublishedOn, 0).UTC(),
		})
	}
	return out, nil
}
