package service

import (
	"sort"

	"github.com/emptyfist/crypto-portfolio/internal/models"

	"github.com/pkg/errors"
)

type LeaderboardRepository interface {
	ListUsers() ([]models.User, error)
	TransactionsForUser(userID string) ([]models.Transaction, error)
	PricesBySymbol() (map[string]models.TokenPrice, error)
}

type LeaderboardEntry struct {
	Rank              int     `json:"rank"`
	UserID            string  `json:"userId"`
	Email             string  `json:"email"`
	FullName          string  `json:"fullName"`
	TotalValue        float64 `json:"totalValue"`
	TotalCost         float64 `json:"totalCost"`
	ProfitLoss        float64 `json:"profitLoss"`
	ProfitLossPercent float64 `json:"profitLossPercent"`
	HoldingsCount     int     `json:"holdingsCount"`
}

// ComputeLeaderboard values every account with the same fold used for the
// caller's own holdings and ranks the results by portfolio value. Any repo
// error aborts the whole computation; there is no stale fallback.
func ComputeLeaderboard(repo LeaderboardRepository) ([]LeaderboardEntry, error) {
	users, err := repo.ListUsers()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}

	prices, err := repo.PricesBySymbol()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load price snapshots")
	}

	entries := make([]LeaderboardEntry, 0, len(users))
	for _, user := range users {
		txs, err := repo.TransactionsForUser(user.ID)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to load transactions for user %s", user.ID)
		}

		summary := ComputeHoldings(txs, prices)
		entries = append(entries, LeaderboardEntry{
			UserID:            user.ID,
			Email:             user.Email,
			FullName:          user.FullName,
			TotalValue:        summary.TotalValue,
			TotalCost:         summary.TotalCost,
			ProfitLoss:        summary.TotalProfitLoss,
			ProfitLossPercent: summary.TotalProfitLossPercent,
			HoldingsCount:     len(summary.Holdings),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TotalValue > entries[j].TotalValue
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	return entries, nil
}
