package service

import (
	"testing"

	"github.com/emptyfist/crypto-portfolio/internal/models"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockLeaderboardRepo struct {
	users  []models.User
	txs    map[string][]models.Transaction
	prices map[string]models.TokenPrice

	usersErr  error
	txsErr    error
	pricesErr error
}

func (m *mockLeaderboardRepo) ListUsers() ([]models.User, error) {
	return m.users, m.usersErr
}

func (m *mockLeaderboardRepo) TransactionsForUser(userID string) ([]models.Transaction, error) {
	if m.txsErr != nil {
		return nil, m.txsErr
	}
	return m.txs[userID], nil
}

func (m *mockLeaderboardRepo) PricesBySymbol() (map[string]models.TokenPrice, error) {
	return m.prices, m.pricesErr
}

func TestComputeLeaderboard_RankedByValue(t *testing.T) {
	repo := &mockLeaderboardRepo{
		users: []models.User{
			{ID: "u1", Email: "alice@example.com", FullName: "Alice"},
			{ID: "u2", Email: "bob@example.com", FullName: "Bob"},
			{ID: "u3", Email: "carol@example.com"},
		},
		txs: map[string][]models.Transaction{
			"u1": {buy("BTC", 1, 10000)},
			"u2": {buy("ETH", 10, 1500)},
		},
		prices: priceTable(map[string]float64{"BTC": 15000, "ETH": 2000}),
	}

	entries, err := ComputeLeaderboard(repo)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "bob@example.com", entries[0].Email)
	assert.Equal(t, 20000.0, entries[0].TotalValue)
	assert.Equal(t, 1, entries[0].HoldingsCount)

	assert.Equal(t, 2, entries[1].Rank)
	assert.Equal(t, "alice@example.com", entries[1].Email)
	assert.InDelta(t, 50.0, entries[1].ProfitLossPercent, 1e-9)

	// No transactions at all still yields a ranked zero entry.
	assert.Equal(t, 3, entries[2].Rank)
	assert.Equal(t, 0.0, entries[2].TotalValue)
	assert.Equal(t, 0, entries[2].HoldingsCount)
}

func TestComputeLeaderboard_Empty(t *testing.T) {
	entries, err := ComputeLeaderboard(&mockLeaderboardRepo{})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestComputeLeaderboard_RepoErrorsSurface(t *testing.T) {
	boom := errors.New("db down")

	_, err := ComputeLeaderboard(&mockLeaderboardRepo{usersErr: boom})
	assert.ErrorIs(t, err, boom)

	_, err = ComputeLeaderboard(&mockLeaderboardRepo{
		users:     []models.User{{ID: "u1"}},
		pricesErr: boom,
	})
	assert.ErrorIs(t, err, boom)

	_, err = ComputeLeaderboard(&mockLeaderboardRepo{
		users:  []models.User{{ID: "u1"}},
		txsErr: boom,
	})
	assert.ErrorIs(t, err, boom)
}
