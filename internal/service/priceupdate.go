package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/emptyfist/crypto-portfolio/internal/models"
	"github.com/emptyfist/crypto-portfolio/pkg/integrations/market/coingeckomarkets"
	tickerScheduler "github.com/emptyfist/crypto-portfolio/pkg/integrations/scheduler"
	"github.com/emptyfist/crypto-portfolio/pkg/types/cache"
	"github.com/emptyfist/crypto-portfolio/pkg/types/market"
	"github.com/emptyfist/crypto-portfolio/pkg/types/scheduler"

	"github.com/pkg/errors"
)

var ErrInvalidPriceServiceConfig = errors.New("invalid price service config")

type PriceRepository interface {
	UpsertTokenPrice(price *models.TokenPrice) error
	CountTokenPrices() (int64, error)
}

// PriceUpdateResult reports one refresh run: how many snapshots this run
// wrote and how many symbols have a snapshot afterwards.
type PriceUpdateResult struct {
	Updated     int   `json:"updated"`
	TotalPrices int64 `json:"totalPrices"`
}

// PriceService keeps the token price table fresh. It pulls the allow-listed
// symbols from the market feed on a schedule and on manual trigger, and
// mirrors the latest USD prices into an in-process cache.
type PriceService struct {
	ctx       context.Context
	logger    *slog.Logger
	fetcher   market.Fetcher
	repo      PriceRepository
	cache     cache.Cache[string, float64]
	scheduler scheduler.Scheduler
	interval  time.Duration
	symbols   []string
}

type PriceOption func(*PriceService)

func WithPriceContext(ctx context.Context) PriceOption {
	return func(s *PriceService) {
		s.ctx = ctx
	}
}

func WithPriceLogger(l *slog.Logger) PriceOption {
	return func(s *PriceService) {
		s.logger = l
	}
}

func WithPriceFetcher(f market.Fetcher) PriceOption {
	return func(s *PriceService) {
		s.fetcher = f
	}
}

func WithPriceRepo(r PriceRepository) PriceOption {
	return func(s *PriceService) {
		s.repo = r
	}
}

func WithPriceCache(c cache.Cache[string, float64]) PriceOption {
	return func(s *PriceService) {
		s.cache = c
	}
}

func WithPriceInterval(d time.Duration) PriceOption {
	return func(s *PriceService) {
		s.interval = d
	}
}

func WithPriceSymbols(symbols []string) PriceOption {
	return func(s *PriceService) {
		s.symbols = symbols
	}
}

func (s *PriceService) IsValid() error {
	switch {
	case s.ctx == nil:
		return errors.Wrap(ErrInvalidPriceServiceConfig, "ctx cannot be nil")
	case s.logger == nil:
		return errors.Wrap(ErrInvalidPriceServiceConfig, "logger cannot be nil")
	case s.fetcher == nil:
		return errors.Wrap(ErrInvalidPriceServiceConfig, "fetcher cannot be nil")
	case s.repo == nil:
		return errors.Wrap(ErrInvalidPriceServiceConfig, "repo cannot be nil")
	case s.cache == nil:
		return errors.Wrap(ErrInvalidPriceServiceConfig, "cache cannot be nil")
	case len(s.symbols) == 0:
		return errors.Wrap(ErrInvalidPriceServiceConfig, "symbols cannot be empty")
	default:
		return nil
	}
}

func NewPriceService(opts ...PriceOption) (*PriceService, error) {
	s := &PriceService{
		interval: scheduler.IntervalHourly,
		symbols:  coingeckomarkets.SupportedSymbols(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if err := s.IsValid(); err != nil {
		return nil, err
	}

	sched, err := tickerScheduler.New(
		tickerScheduler.WithContext(s.ctx),
		tickerScheduler.WithLogger(s.logger),
		tickerScheduler.WithInterval(s.interval),
		tickerScheduler.WithHandler(s.tick),
		tickerScheduler.WithImmediateRun(),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create scheduler")
	}
	s.scheduler = sched

	return s, nil
}

func (s *PriceService) Start() error {
	return s.scheduler.Start()
}

func (s *PriceService) Stop() {
	s.scheduler.Stop()
}

func (s *PriceService) tick() error {
	result, err := s.UpdatePrices(s.ctx)
	if err != nil {
		return err
	}

	s.logger.Info("refreshed token prices", "updated", result.Updated, "total", result.TotalPrices)
	return nil
}

// UpdatePrices runs one refresh. A feed failure aborts the run before any
// snapshot is touched; a single symbol failing to persist is logged and
// skipped without failing the rest.
func (s *PriceService) UpdatePrices(ctx context.Context) (*PriceUpdateResult, error) {
	quotes, err := s.fetcher.FetchQuotes(ctx, s.symbols)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch market quotes")
	}

	updated := 0
	for _, quote := range quotes {
		price := &models.TokenPrice{
			Symbol:         quote.Symbol,
			Name:           quote.Name,
			PriceUSD:       quote.PriceUSD,
			MarketCapUSD:   quote.MarketCapUSD,
			Volume24hUSD:   quote.Volume24hUSD,
			PriceChange24h: quote.Change24hPct,
		}
		if err := s.repo.UpsertTokenPrice(price); err != nil {
			s.logger.Error("failed to store price snapshot", "symbol", quote.Symbol, "error", err)
			continue
		}

		s.cache.Set(quote.Symbol, quote.PriceUSD)
		updated++
	}

	total, err := s.repo.CountTokenPrices()
	if err != nil {
		return nil, errors.Wrap(err, "failed to count price snapshots")
	}

	return &PriceUpdateResult{Updated: updated, TotalPrices: total}, nil
}
