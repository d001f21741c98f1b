// Package market defines the market-data feed contract. Integrations under
// pkg/integrations/market implement Fetcher against a concrete provider.
package market

import "context"

// Quote is one symbol's current market snapshot in USD.
type Quote struct {
	Symbol       string
	Name         string
	PriceUSD     float64
	MarketCapUSD int64
	Volume24hUSD int64
	Change24hPct float64
}

// Fetcher retrieves current quotes for a set of internal symbols. A fetch
// covers the whole set or fails; symbols unknown to the provider are
// omitted from the result rather than reported as errors.
type Fetcher interface {
	FetchQuotes(ctx context.Context, symbols []string) ([]Quote, error)
}
