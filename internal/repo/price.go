package repo

import (
	"time"

	"github.com/emptyfist/crypto-portfolio/internal/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UpsertTokenPrice writes the latest snapshot for one symbol, overwriting
// any previous row in place. No price history is retained.
func (r *Repository) UpsertTokenPrice(price *models.TokenPrice) error {
	price.UpdatedAt = time.Now().UTC()
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "price_usd", "market_cap_usd", "volume_24h_usd", "price_change_24h", "updated_at"}),
	}).Create(price).Error
}

// ListTokenPrices returns all snapshots ordered by market cap.
func (r *Repository) ListTokenPrices() ([]models.TokenPrice, error) {
	var prices []models.TokenPrice
	if err := r.db.Order("market_cap_usd DESC").Find(&prices).Error; err != nil {
		return nil, err
	}
	return prices, nil
}

// GetTokenPrice returns the snapshot for one symbol.
func (r *Repository) GetTokenPrice(symbol string) (*models.TokenPrice, error) {
	var price models.TokenPrice
	if err := r.db.First(&price, "symbol = ?", symbol).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &price, nil
}

// CountTokenPrices reports how many symbols currently have a snapshot.
func (r *Repository) CountTokenPrices() (int64, error) {
	var count int64
	if err := r.db.Model(&models.TokenPrice{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// PricesBySymbol returns the full price table keyed by symbol for the
// holdings aggregation.
func (r *Repository) PricesBySymbol() (map[string]models.TokenPrice, error) {
	prices, err := r.ListTokenPrices()
	if err != nil {
		return nil, err
	}
	bySymbol := make(map[string]models.TokenPrice, len(prices))
	for _, p := range prices {
		bySymbol[p.Symbol] = p
	}
	return bySymbol, nil
}
