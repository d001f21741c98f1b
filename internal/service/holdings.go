package service

import (
	"sort"
	"strings"

	"github.com/emptyfist/crypto-portfolio/internal/models"
)

// positionEpsilon absorbs float drift when a position is fully sold off.
const positionEpsilon = 1e-9

// Holding is a user's derived position in one asset. It is computed from
// the transaction history and the latest price snapshot, never persisted.
type Holding struct {
	Symbol            string  `json:"symbol"`
	Amount            float64 `json:"amount"`
	AveragePrice      float64 `json:"averagePrice"`
	CostBasis         float64 `json:"costBasis"`
	CurrentPrice      float64 `json:"currentPrice"`
	Value             float64 `json:"value"`
	ProfitLoss        float64 `json:"profitLoss"`
	ProfitLossPercent float64 `json:"profitLossPercent"`
}

type HoldingsSummary struct {
	Holdings               []Holding `json:"holdings"`
	TotalValue             float64   `json:"totalValue"`
	TotalCost              float64   `json:"totalCost"`
	TotalProfitLoss        float64   `json:"totalProfitLoss"`
	TotalProfitLossPercent float64   `json:"totalProfitLossPercent"`
}

type position struct {
	amount float64
	cost   float64
}

// ComputeHoldings folds one user's transactions into per-symbol positions
// and values them against the latest price snapshots. Buys add amount and
// amount*price to the cost basis; sells remove amount and a proportional
// share of the cost at the running average price. Symbols without a price
// snapshot value at zero. An empty transaction set yields an all-zero
// summary with an empty holdings list.
func ComputeHoldings(transactions []models.Transaction, prices map[string]models.TokenPrice) *HoldingsSummary {
	positions := make(map[string]*position)

	for _, tx := range transactions {
		symbol := strings.ToUpper(tx.Symbol)
		pos, ok := positions[symbol]
		if !ok {
			pos = &position{}
			positions[symbol] = pos
		}

		switch {
		case strings.EqualFold(tx.Type, "Buy"):
			pos.amount += tx.Amount
			pos.cost += tx.Amount * tx.Price
		case strings.EqualFold(tx.Type, "Sell"):
			avg := 0.0
			if pos.amount > 0 {
				avg = pos.cost / pos.amount
			}
			pos.amount -= tx.Amount
			pos.cost -= tx.Amount * avg
		}
	}

	summary := &HoldingsSummary{
		Holdings: []Holding{},
	}

	for symbol, pos := range positions {
		if pos.amount <= positionEpsilon {
			continue
		}

		holding := Holding{
			Symbol:       symbol,
			Amount:       pos.amount,
			AveragePrice: pos.cost / pos.amount,
			CostBasis:    pos.cost,
		}
		if price, ok := prices[symbol]; ok {
			holding.CurrentPrice = price.PriceUSD
			holding.Value = pos.amount * price.PriceUSD
		}
		holding.ProfitLoss = holding.Value - holding.CostBasis
		if holding.CostBasis != 0 {
			holding.ProfitLossPercent = holding.ProfitLoss / holding.CostBasis * 100
		}

		summary.Holdings = append(summary.Holdings, holding)
		summary.TotalValue += holding.Value
		summary.TotalCost += holding.CostBasis
	}

	sort.Slice(summary.Holdings, func(i, j int) bool {
		return summary.Holdings[i].Value > summary.Holdings[j].Value
	})

	summary.TotalProfitLoss = summary.TotalValue - summary.TotalCost
	if summary.TotalCost != 0 {
		summary.TotalProfitLossPercent = summary.TotalProfitLoss / summary.TotalCost * 100
	}

	return summary
}
