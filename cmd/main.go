package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/emptyfist/crypto-portfolio/docs"
	"github.com/emptyfist/crypto-portfolio/internal/config"
	"github.com/emptyfist/crypto-portfolio/internal/handler"
	"github.com/emptyfist/crypto-portfolio/internal/repo"
	"github.com/emptyfist/crypto-portfolio/internal/service"
	"github.com/emptyfist/crypto-portfolio/pkg/database"
	"github.com/emptyfist/crypto-portfolio/pkg/integrations/market/coingeckomarkets"
	"github.com/emptyfist/crypto-portfolio/pkg/integrations/memcache"
	"github.com/emptyfist/crypto-portfolio/pkg/integrations/wmPubsub"
	"github.com/emptyfist/crypto-portfolio/pkg/utils"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Crypto Portfolio API
// @version 1.0
// @description Cryptocurrency portfolio tracking API: CSV import, holdings, leaderboard and audit trail

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	utils.LoadEnv()

	cfg, err := config.Load(utils.GetEnv("CONFIG_PATH", ""))
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logLevel := slog.LevelInfo
	if cfg.Log.Level == "debug" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.New(database.WithPath(cfg.Database.Path))
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer db.Close()

	auditCh := make(chan []byte, cfg.Audit.QueueSize)
	auditPub := wmPubsub.New(
		wmPubsub.WithContext(ctx),
		wmPubsub.WithLogger(logger),
		wmPubsub.WithTopic("audit-events"),
		wmPubsub.WithChannel(auditCh),
	)

	repository, err := repo.New(
		repo.WithDB(db.Get()),
		repo.WithEventPublisher(auditPub),
		repo.WithLogger(logger),
	)
	if err != nil {
		log.Fatal("Failed to create repository:", err)
	}
	if err := repository.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	auditRecorder, err := service.NewAuditService(
		service.WithAuditContext(ctx),
		service.WithAuditLogger(logger),
		service.WithAuditRepo(repository),
		service.WithAuditChannel(auditCh),
	)
	if err != nil {
		log.Fatal("Failed to create audit service:", err)
	}
	if err := auditRecorder.Start(); err != nil {
		log.Fatal("Failed to start audit service:", err)
	}

	priceCache := memcache.New[string, float64]()
	var priceSvc *service.PriceService
	if cfg.Prices.Enabled {
		fetcher := coingeckomarkets.New(
			coingeckomarkets.WithBaseURL(cfg.Prices.BaseURL),
			coingeckomarkets.WithAPIKey(cfg.Prices.APIKey),
		)
		priceSvc, err = service.NewPriceService(
			service.WithPriceContext(ctx),
			service.WithPriceLogger(logger),
			service.WithPriceFetcher(fetcher),
			service.WithPriceRepo(repository),
			service.WithPriceCache(priceCache),
			service.WithPriceInterval(time.Duration(cfg.Prices.IntervalMinutes)*time.Minute),
		)
		if err != nil {
			log.Fatal("Failed to create price service:", err)
		}
		if err := priceSvc.Start(); err != nil {
			log.Fatal("Failed to start price service:", err)
		}
	}

	gin.SetMode(cfg.Server.Mode)
	r := gin.Default()

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	h, err := handler.New(
		handler.WithEngine(r),
		handler.WithRepository(repository),
		handler.WithLogger(logger),
		handler.WithPriceService(priceSvc),
		handler.WithPriceCache(priceCache),
		handler.WithJWTSecret(cfg.JWT.Secret),
		handler.WithJWTIssuer(cfg.JWT.Issuer),
		handler.WithTokenTTL(time.Duration(cfg.JWT.ExpireHours)*time.Hour),
	)
	if err != nil {
		log.Fatal("Failed to create handler:", err)
	}
	if err := h.Setup(); err != nil {
		log.Fatal("Failed to setup routes:", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		logger.Info("shutting down...")
		cancel()
		if priceSvc != nil {
			priceSvc.Stop()
		}
		os.Exit(0)
	}()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	logger.Info("starting crypto-portfolio", "addr", addr)
	if err := r.Run(addr); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
