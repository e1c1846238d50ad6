package marketdata

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yungbote/moonshill-backend/internal/pkg/httpx"
)

const defaultCoinGeckoURL = "https://api.coingecko.com/api/v3"

type CoinGecko struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

type tokenPrice struct {
	USD          float64 `json:"usd"`
	USD24hVol    float64 `json:"usd_24h_vol"`
	USDMarketCap float64 `json:"usd_market_cap"`
	USD24hChange float64 `json:"usd_24h_change"`
	LastUpdated  int64   `json:"last_updated_at"`
}

func (c *CoinGecko) base() string {
	if strings.TrimSpace(c.BaseURL) == "" {
		return defaultCoinGeckoURL
	}
	return strings.TrimRight(c.BaseURL, "/")
}

func (c *CoinGecko) headers() map[string]string {
	return map[string]string{"x-cg-demo-api-key": c.APIKey}
}

// TokenPrice returns nil, nil when CoinGecko does not list the token.
func (c *CoinGecko) TokenPrice(ctx context.Context, chain, tokenAddress string) (*MarketData, error) {
	tokenAddress = strings.ToLower(strings.TrimSpace(tokenAddress))
	if tokenAddress == "" {
		return nil, nil
	}
	chain = strings.ToLower(strings.TrimSpace(chain))
	if chain == "" {
		chain = "ethereum"
	}
	params := url.Values{}
	params.Set("contract_addresses", tokenAddress)
	params.Set("vs_currencies", "usd")
	params.Set("include_24hr_vol", "true")
	params.Set("include_24hr_change", "true")
	params.Set("include_market_cap", "true")
	params.Set("include_last_updated_at", "true")
	u := fmt.Sprintf("%s/simple/token_price/%s?%s", c.base(), url.PathEscape(chain), params.Encode())

	var out map[string]tokenPrice
	if err := httpx.DoJSON(ctx, c.HTTPClient, "coingecko", http.MethodGet, u, c.headers(), nil, &out); err != nil {
		return nil, err
	}
	tp, ok := out[tokenAddress]
	if !ok {
		return nil, nil
	}
	md := &MarketData{
		PriceUSD:       tp.USD,
		Volume24h:      tp.USD24hVol,
		MarketCap:      tp.USDMarketCap,
		PriceChange24h: tp.USD24hChange,
	}
	if tp.LastUpdated > 0 {
		md.LastUpdated = time.Unix(tp.LastUpdated, 0).UTC()
	}
	return md, nil
}

type trendingResponse struct {
	Coins []struct {
		Item struct {
			ID     string `json:"id"`
			Name   string `json:"name"`
			Symbol string `json:"symbol"`
		} `json:"item"`
	} `json:"coins"`
}

// Trending returns CoinGecko's trending coins in rank order.
func (c *CoinGecko) Trending(ctx context.Context) ([]Topic, error) {
	var resp trendingResponse
	if err := httpx.DoJSON(ctx, c.HTTPClient, "coingecko", http.MethodGet, c.base()+"/search/trending", c.headers(), nil, &resp); err != nil {
		return nil, err
	}
	out := make([]Topic, 0, len(resp.Coins))
	for _, coin := range resp.Coins {
		name := strings.TrimSpace(coin.Item.Name)
		if name == "" {
			continue
		}
		out = append(out, Topic{
			Name:   name,
			Source: "coingecko",
			URL:    "https://www.coingecko.com/en/coins/" + coin.Item.ID,
		})
	}
	return out, nil
}
