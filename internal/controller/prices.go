package controller

import (
	"net/http"
	"strings"

	"github.com/emptyfist/crypto-portfolio/internal/repo"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// ListPrices returns all price snapshots
// @Summary List token prices
// @Description Latest market snapshot per symbol, ordered by market cap
// @Tags prices
// @Produce json
// @Success 200 {array} models.TokenPrice
// @Failure 401 {object} APIError
// @Router /api/prices [get]
func (c *Controller) ListPrices(ctx *gin.Context) {
	prices, err := c.repo.ListTokenPrices()
	if err != nil {
		c.logger.Error("failed to list prices", "error", err)
		internalError(ctx, "failed to fetch prices")
		return
	}
	ctx.JSON(http.StatusOK, prices)
}

// GetPrice returns one symbol's snapshot
// @Summary Get token price
// @Description Latest market snapshot for one symbol
// @Tags prices
// @Produce json
// @Param symbol path string true "Token symbol"
// @Success 200 {object} models.TokenPrice
// @Failure 401 {object} APIError
// @Failure 404 {object} APIError
// @Router /api/prices/{symbol} [get]
func (c *Controller) GetPrice(ctx *gin.Context) {
	symbol := strings.ToUpper(ctx.Param("symbol"))

	price, err := c.repo.GetTokenPrice(symbol)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			notFound(ctx, "no price snapshot for symbol")
			return
		}
		c.logger.Error("failed to get price", "symbol", symbol, "error", err)
		internalError(ctx, "failed to fetch price")
		return
	}

	// The live cache may be fresher than the persisted snapshot between
	// scheduler runs.
	if c.priceCache != nil {
		if live, ok := c.priceCache.Get(symbol); ok {
			price.PriceUSD = live
		}
	}

	ctx.JSON(http.StatusOK, price)
}

// UpdatePrices triggers a refresh run
// @Summary Refresh token prices
// @Description Fetch current market data for all supported symbols and upsert the snapshots
// @Tags prices
// @Produce json
// @Success 200 {object} service.PriceUpdateResult
// @Failure 401 {object} APIError
// @Failure 502 {object} APIError
// @Failure 503 {object} APIError
// @Router /api/prices/update [post]
func (c *Controller) UpdatePrices(ctx *gin.Context) {
	if c.prices == nil {
		serviceUnavailable(ctx, "price updates are disabled")
		return
	}

	result, err := c.prices.UpdatePrices(ctx.Request.Context())
	if err != nil {
		c.logger.Error("price refresh failed", "error", err)
		errorResponse(ctx, http.StatusBadGateway, "failed to fetch prices from market feed")
		return
	}
	ctx.JSON(http.StatusOK, result)
}
