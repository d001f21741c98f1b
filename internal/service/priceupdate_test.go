package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/emptyfist/crypto-portfolio/internal/models"
	"github.com/emptyfist/crypto-portfolio/pkg/integrations/memcache"
	"github.com/emptyfist/crypto-portfolio/pkg/types/market"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type mockFetcher struct {
	quotes []market.Quote
	err    error
}

func (m *mockFetcher) FetchQuotes(ctx context.Context, symbols []string) ([]market.Quote, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.quotes, nil
}

type mockPriceRepo struct {
	stored    map[string]*models.TokenPrice
	failOn    string
	upsertErr error
	countErr  error
}

func newMockPriceRepo() *mockPriceRepo {
	return &mockPriceRepo{stored: map[string]*models.TokenPrice{}}
}

func (m *mockPriceRepo) UpsertTokenPrice(price *models.TokenPrice) error {
	if m.failOn == price.Symbol {
		return m.upsertErr
	}
	m.stored[price.Symbol] = price
	return nil
}

func (m *mockPriceRepo) CountTokenPrices() (int64, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	return int64(len(m.stored)), nil
}

func TestPriceService_InvalidConfig(t *testing.T) {
	ctx := context.Background()
	fetcher := &mockFetcher{}
	repo := newMockPriceRepo()
	priceCache := memcache.New[string, float64]()

	tests := []struct {
		name string
		opts []PriceOption
	}{
		{"no context", []PriceOption{
			WithPriceLogger(discardLogger),
			WithPriceFetcher(fetcher),
			WithPriceRepo(repo),
			WithPriceCache(priceCache),
		}},
		{"no logger", []PriceOption{
			WithPriceContext(ctx),
			WithPriceFetcher(fetcher),
			WithPriceRepo(repo),
			WithPriceCache(priceCache),
		}},
		{"no fetcher", []PriceOption{
			WithPriceContext(ctx),
			WithPriceLogger(discardLogger),
			WithPriceRepo(repo),
			WithPriceCache(priceCache),
		}},
		{"no repo", []PriceOption{
			WithPriceContext(ctx),
			WithPriceLogger(discardLogger),
			WithPriceFetcher(fetcher),
			WithPriceCache(priceCache),
		}},
		{"no cache", []PriceOption{
			WithPriceContext(ctx),
			WithPriceLogger(discardLogger),
			WithPriceFetcher(fetcher),
			WithPriceRepo(repo),
		}},
		{"no symbols", []PriceOption{
			WithPriceContext(ctx),
			WithPriceLogger(discardLogger),
			WithPriceFetcher(fetcher),
			WithPriceRepo(repo),
			WithPriceCache(priceCache),
			WithPriceSymbols(nil),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPriceService(tt.opts...)
			assert.ErrorIs(t, err, ErrInvalidPriceServiceConfig)
		})
	}
}

func newTestPriceService(t *testing.T, fetcher market.Fetcher, repo PriceRepository) (*PriceService, *memcache.Cache[string, float64]) {
	t.Helper()

	priceCache := memcache.New[string, float64]()
	svc, err := NewPriceService(
		WithPriceContext(context.Background()),
		WithPriceLogger(discardLogger),
		WithPriceFetcher(fetcher),
		WithPriceRepo(repo),
		WithPriceCache(priceCache),
	)
	require.NoError(t, err)
	return svc, priceCache
}

func TestPriceService_UpdatePrices(t *testing.T) {
	fetcher := &mockFetcher{quotes: []market.Quote{
		{Symbol: "BTC", Name: "Bitcoin", PriceUSD: 15000, MarketCapUSD: 3, Change24hPct: 1.2},
		{Symbol: "ETH", Name: "Ethereum", PriceUSD: 2000, MarketCapUSD: 2},
	}}
	repo := newMockPriceRepo()
	svc, priceCache := newTestPriceService(t, fetcher, repo)

	result, err := svc.UpdatePrices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Updated)
	assert.Equal(t, int64(2), result.TotalPrices)

	require.Contains(t, repo.stored, "BTC")
	assert.Equal(t, 15000.0, repo.stored["BTC"].PriceUSD)
	assert.Equal(t, 1.2, repo.stored["BTC"].PriceChange24h)

	cached, ok := priceCache.Get("ETH")
	require.True(t, ok)
	assert.Equal(t, 2000.0, cached)
}

func TestPriceService_FeedFailureAbortsRun(t *testing.T) {
	repo := newMockPriceRepo()
	svc, _ := newTestPriceService(t, &mockFetcher{err: errors.New("feed down")}, repo)

	_, err := svc.UpdatePrices(context.Background())
	require.Error(t, err)
	assert.Empty(t, repo.stored)
}

func TestPriceService_SymbolFailureSkipped(t *testing.T) {
	fetcher := &mockFetcher{quotes: []market.Quote{
		{Symbol: "BTC", PriceUSD: 15000},
		{Symbol: "ETH", PriceUSD: 2000},
	}}
	repo := newMockPriceRepo()
	repo.failOn = "BTC"
	repo.upsertErr = errors.New("constraint violation")
	svc, priceCache := newTestPriceService(t, fetcher, repo)

	result, err := svc.UpdatePrices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, int64(1), result.TotalPrices)

	_, ok := priceCache.Get("BTC")
	assert.False(t, ok)
	_, ok = priceCache.Get("ETH")
	assert.True(t, ok)
}
