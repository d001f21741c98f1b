package controller

import (
	"log/slog"
	"time"

	"github.com/emptyfist/crypto-portfolio/internal/repo"
	"github.com/emptyfist/crypto-portfolio/internal/service"
	"github.com/emptyfist/crypto-portfolio/pkg/types/cache"

	"github.com/pkg/errors"
)

var ErrInvalidControllerConfig = errors.New("invalid controller config")

type Controller struct {
	repo       *repo.Repository
	logger     *slog.Logger
	prices     *service.PriceService
	priceCache cache.Cache[string, float64]
	jwtSecret  string
	jwtIssuer  string
	tokenTTL   time.Duration
}

type Option func(*Controller)

func WithRepo(r *repo.Repository) Option {
	return func(c *Controller) {
		c.repo = r
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

func WithPriceService(s *service.PriceService) Option {
	return func(c *Controller) {
		c.prices = s
	}
}

func WithPriceCache(pc cache.Cache[string, float64]) Option {
	return func(c *Controller) {
		c.priceCache = pc
	}
}

func WithJWTSecret(secret string) Option {
	return func(c *Controller) {
		c.jwtSecret = secret
	}
}

func WithJWTIssuer(issuer string) Option {
	return func(c *Controller) {
		c.jwtIssuer = issuer
	}
}

func WithTokenTTL(ttl time.Duration) Option {
	return func(c *Controller) {
		c.tokenTTL = ttl
	}
}

func (c *Controller) IsValid() error {
	switch {
	case c.repo == nil:
		return errors.Wrap(ErrInvalidControllerConfig, "repo cannot be nil")
	case c.jwtSecret == "":
		return errors.Wrap(ErrInvalidControllerConfig, "jwt secret cannot be empty")
	default:
		return nil
	}
}

func New(opts ...Option) (*Controller, error) {
	c := &Controller{
		jwtIssuer: "crypto-portfolio",
		tokenTTL:  24 * time.Hour,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}

	if err := c.IsValid(); err != nil {
		return nil, err
	}

	return c, nil
}
