package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/emptyfist/crypto-portfolio/internal/controller"
	"github.com/emptyfist/crypto-portfolio/internal/middleware"
	"github.com/emptyfist/crypto-portfolio/internal/repo"
	"github.com/emptyfist/crypto-portfolio/internal/service"
	"github.com/emptyfist/crypto-portfolio/pkg/types/cache"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

var (
	ErrNilEngine     = errors.New("engine is required")
	ErrNilRepository = errors.New("repository is required")
	ErrNoJWTSecret   = errors.New("jwt secret is required")
)

type Handler struct {
	engine     *gin.Engine
	repository *repo.Repository
	logger     *slog.Logger
	priceSvc   *service.PriceService
	priceCache cache.Cache[string, float64]
	jwtSecret  string
	jwtIssuer  string
	tokenTTL   time.Duration
}

func (h *Handler) IsValid() error {
	if h.engine == nil {
		return ErrNilEngine
	}
	if h.repository == nil {
		return ErrNilRepository
	}
	if h.jwtSecret == "" {
		return ErrNoJWTSecret
	}
	return nil
}

type Option func(*Handler)

func WithEngine(engine *gin.Engine) Option {
	return func(h *Handler) {
		h.engine = engine
	}
}

func WithRepository(repository *repo.Repository) Option {
	return func(h *Handler) {
		h.repository = repository
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = l
	}
}

func WithPriceService(svc *service.PriceService) Option {
	return func(h *Handler) {
		h.priceSvc = svc
	}
}

func WithPriceCache(pc cache.Cache[string, float64]) Option {
	return func(h *Handler) {
		h.priceCache = pc
	}
}

func WithJWTSecret(secret string) Option {
	return func(h *Handler) {
		h.jwtSecret = secret
	}
}

func WithJWTIssuer(issuer string) Option {
	return func(h *Handler) {
		h.jwtIssuer = issuer
	}
}

func WithTokenTTL(ttl time.Duration) Option {
	return func(h *Handler) {
		h.tokenTTL = ttl
	}
}

func New(opts ...Option) (*Handler, error) {
	h := &Handler{
		jwtIssuer: "crypto-portfolio",
		tokenTTL:  24 * time.Hour,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	if err := h.IsValid(); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *Handler) Setup() error {
	ctrl, err := controller.New(
		controller.WithRepo(h.repository),
		controller.WithLogger(h.logger),
		controller.WithPriceService(h.priceSvc),
		controller.WithPriceCache(h.priceCache),
		controller.WithJWTSecret(h.jwtSecret),
		controller.WithJWTIssuer(h.jwtIssuer),
		controller.WithTokenTTL(h.tokenTTL),
	)
	if err != nil {
		return err
	}

	h.engine.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := h.engine.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/signup", ctrl.Signup)
	auth.POST("/login", ctrl.Login)

	authed := api.Group("")
	authed.Use(middleware.AuthRequired(h.jwtSecret))

	transactions := authed.Group("/transactions")
	transactions.POST("/upload", ctrl.UploadTransactions)
	transactions.POST("/import", ctrl.ImportTransactions)
	transactions.GET("/history", ctrl.TransactionHistory)
	transactions.GET("/export", ctrl.ExportTransactions)
	transactions.GET("/template", ctrl.TransactionTemplate)
	transactions.PUT("/:id", ctrl.UpdateTransaction)
	transactions.DELETE("/:id", ctrl.DeleteTransaction)

	holdings := authed.Group("/holdings")
	holdings.GET("", ctrl.Holdings)
	holdings.GET("/export", ctrl.ExportHoldings)

	authed.GET("/leaderboard", ctrl.Leaderboard)

	prices := authed.Group("/prices")
	prices.GET("", ctrl.ListPrices)
	prices.POST("/update", ctrl.UpdatePrices)
	prices.GET("/:symbol", ctrl.GetPrice)

	auditLogs := authed.Group("/audit-logs")
	auditLogs.GET("", ctrl.AuditLogs)
	auditLogs.GET("/stats", ctrl.AuditStats)

	return nil
}
