package coingeckomarkets

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/emptyfist/crypto-portfolio/pkg/types/market"
)

var _ market.Fetcher = (*Fetcher)(nil)

// symbolToCoinID maps internal symbols to CoinGecko coin ids. Only symbols
// listed here can be priced; everything else is skipped by FetchQuotes.
var symbolToCoinID = map[string]string{
	"BTC":   "bitcoin",
	"ETH":   "ethereum",
	"BNB":   "binancecoin",
	"ADA":   "cardano",
	"SOL":   "solana",
	"DOT":   "polkadot",
	"MATIC": "matic-network",
	"AVAX":  "avalanche-2",
	"LINK":  "chainlink",
	"UNI":   "uniswap",
	"ATOM":  "cosmos",
	"LTC":   "litecoin",
	"XRP":   "ripple",
	"DOGE":  "dogecoin",
	"SHIB":  "shiba-inu",
	"USDT":  "tether",
	"USDC":  "usd-coin",
	"BUSD":  "binance-usd",
	"DAI":   "dai",
}

// SupportedSymbols returns the fixed allow-list of symbols the provider
// mapping covers.
func SupportedSymbols() []string {
	symbols := make([]string, 0, len(symbolToCoinID))
	for s := range symbolToCoinID {
		symbols = append(symbols, s)
	}
	return symbols
}

type Fetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

type Option func(*Fetcher)

func WithBaseURL(u string) Option {
	return func(f *Fetcher) {
		f.BaseURL = u
	}
}

// WithAPIKey sets an optional demo API key for higher rate limits.
func WithAPIKey(key string) Option {
	return func(f *Fetcher) {
		f.APIKey = key
	}
}

func WithClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.Client = c
	}
}

func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		BaseURL: "https://api.coingecko.com/api/v3",
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

type coinMarket struct {
	ID                       string  `json:"id"`
	Symbol                   string  `json:"symbol"`
	Name                     string  `json:"name"`
	CurrentPrice             float64 `json:"current_price"`
	MarketCap                float64 `json:"market_cap"`
	TotalVolume              float64 `json:"total_volume"`
	PriceChangePercentage24h float64 `json:"price_change_percentage_24h"`
}

// FetchQuotes pulls current USD market data for the given symbols from the
// CoinGecko markets endpoint. Symbols without a coin-id mapping, and coin
// ids the provider does not return, are silently dropped from the result.
func (f *Fetcher) FetchQuotes(ctx context.Context, symbols []string) ([]market.Quote, error) {
	idToSymbol := make(map[string]string, len(symbols))
	ids := make([]string, 0, len(symbols))
	for _, symbol := range symbols {
		id, ok := symbolToCoinID[strings.ToUpper(symbol)]
		if !ok {
			continue
		}
		idToSymbol[id] = strings.ToUpper(symbol)
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	q := url.Values{}
	q.Set("vs_currency", "usd")
	q.Set("ids", strings.Join(ids, ","))
	q.Set("order", "market_cap_desc")
	q.Set("per_page", "100")
	q.Set("page", "1")
	q.Set("sparkline", "false")
	q.Set("price_change_percentage", "24h")
	endpoint := fmt.Sprintf("%s/coins/markets?%s", f.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if f.APIKey != "" {
		req.Header.Set("x-cg-demo-api-key", f.APIKey)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch market data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var markets []coinMarket
	if err := json.NewDecoder(resp.Body).Decode(&markets); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	quotes := make([]market.Quote, 0, len(markets))
	for _, m := range markets {
		symbol, ok := idToSymbol[m.ID]
		if !ok {
			continue
		}
		quotes = append(quotes, market.Quote{
			Symbol:       symbol,
			Name:         m.Name,
			PriceUSD:     m.CurrentPrice,
			MarketCapUSD: int64(math.Round(m.MarketCap)),
			Volume24hUSD: int64(math.Round(m.TotalVolume)),
			Change24hPct: m.PriceChangePercentage24h,
		})
	}

	return quotes, nil
}
