package service

import (
	"testing"

	"github.com/emptyfist/crypto-portfolio/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buy(symbol string, amount, price float64) models.Transaction {
	return models.Transaction{Symbol: symbol, Type: "Buy", Amount: amount, Price: price}
}

func sell(symbol string, amount, price float64) models.Transaction {
	return models.Transaction{Symbol: symbol, Type: "Sell", Amount: amount, Price: price}
}

func priceTable(pairs map[string]float64) map[string]models.TokenPrice {
	prices := make(map[string]models.TokenPrice, len(pairs))
	for symbol, usd := range pairs {
		prices[symbol] = models.TokenPrice{Symbol: symbol, PriceUSD: usd}
	}
	return prices
}

func TestComputeHoldings_SingleBuy(t *testing.T) {
	summary := ComputeHoldings(
		[]models.Transaction{buy("BTC", 1, 10000)},
		priceTable(map[string]float64{"BTC": 15000}),
	)

	require.Len(t, summary.Holdings, 1)
	h := summary.Holdings[0]
	assert.Equal(t, "BTC", h.Symbol)
	assert.Equal(t, 1.0, h.Amount)
	assert.Equal(t, 10000.0, h.AveragePrice)
	assert.Equal(t, 10000.0, h.CostBasis)
	assert.Equal(t, 15000.0, h.Value)
	assert.Equal(t, 5000.0, h.ProfitLoss)
	assert.InDelta(t, 50.0, h.ProfitLossPercent, 1e-9)

	assert.Equal(t, 15000.0, summary.TotalValue)
	assert.Equal(t, 10000.0, summary.TotalCost)
	assert.Equal(t, 5000.0, summary.TotalProfitLoss)
	assert.InDelta(t, 50.0, summary.TotalProfitLossPercent, 1e-9)
}

func TestComputeHoldings_Empty(t *testing.T) {
	summary := ComputeHoldings(nil, nil)

	assert.Empty(t, summary.Holdings)
	assert.Zero(t, summary.TotalValue)
	assert.Zero(t, summary.TotalCost)
	assert.Zero(t, summary.TotalProfitLoss)
	assert.Zero(t, summary.TotalProfitLossPercent)
}

func TestComputeHoldings_SellReducesAtAverageCost(t *testing.T) {
	summary := ComputeHoldings(
		[]models.Transaction{
			buy("ETH", 2, 1000),
			buy("ETH", 2, 3000),
			sell("ETH", 1, 5000),
		},
		priceTable(map[string]float64{"ETH": 2000}),
	)

	require.Len(t, summary.Holdings, 1)
	h := summary.Holdings[0]
	assert.InDelta(t, 3.0, h.Amount, 1e-9)
	// 8000 cost over 4 units; selling 1 removes 2000 of cost.
	assert.InDelta(t, 2000.0, h.AveragePrice, 1e-9)
	assert.InDelta(t, 6000.0, h.CostBasis, 1e-9)
	assert.InDelta(t, 6000.0, h.Value, 1e-9)
	assert.InDelta(t, 0.0, h.ProfitLoss, 1e-9)
}

func TestComputeHoldings_FullySoldPositionDropped(t *testing.T) {
	summary := ComputeHoldings(
		[]models.Transaction{
			buy("SOL", 0.3, 100),
			sell("SOL", 0.1, 120),
			sell("SOL", 0.2, 130),
			buy("BTC", 1, 10000),
		},
		priceTable(map[string]float64{"SOL": 150, "BTC": 12000}),
	)

	require.Len(t, summary.Holdings, 1)
	assert.Equal(t, "BTC", summary.Holdings[0].Symbol)
}

func TestComputeHoldings_MissingSnapshotValuesAtZero(t *testing.T) {
	summary := ComputeHoldings(
		[]models.Transaction{buy("ADA", 100, 2)},
		nil,
	)

	require.Len(t, summary.Holdings, 1)
	h := summary.Holdings[0]
	assert.Equal(t, 0.0, h.CurrentPrice)
	assert.Equal(t, 0.0, h.Value)
	assert.Equal(t, -200.0, h.ProfitLoss)
	assert.InDelta(t, -100.0, h.ProfitLossPercent, 1e-9)
}

func TestComputeHoldings_SortedByValueDescending(t *testing.T) {
	summary := ComputeHoldings(
		[]models.Transaction{
			buy("ADA", 100, 2),
			buy("BTC", 1, 10000),
			buy("ETH", 2, 1500),
		},
		priceTable(map[string]float64{"ADA": 3, "BTC": 15000, "ETH": 2000}),
	)

	require.Len(t, summary.Holdings, 3)
	assert.Equal(t, "BTC", summary.Holdings[0].Symbol)
	assert.Equal(t, "ETH", summary.Holdings[1].Symbol)
	assert.Equal(t, "ADA", summary.Holdings[2].Symbol)
}

func TestComputeHoldings_SymbolsNormalizedToUpper(t *testing.T) {
	summary := ComputeHoldings(
		[]models.Transaction{
			buy("btc", 1, 10000),
			buy("BTC", 1, 12000),
		},
		priceTable(map[string]float64{"BTC": 15000}),
	)

	require.Len(t, summary.Holdings, 1)
	assert.Equal(t, "BTC", summary.Holdings[0].Symbol)
	assert.Equal(t, 2.0, summary.Holdings[0].Amount)
	assert.Equal(t, 22000.0, summary.Holdings[0].CostBasis)
}
