package repo

import (
	"testing"

	"github.com/emptyfist/crypto-portfolio/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser_RoundTrip(t *testing.T) {
	r := setupRepo(t)

	user := &models.User{
		Email:        "alice@example.com",
		FullName:     "Alice",
		PasswordHash: "hashed",
	}
	require.NoError(t, r.CreateUser(user))
	require.NotEmpty(t, user.ID)

	byEmail, err := r.GetUserByEmail("alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byID, err := r.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", byID.FullName)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	r := setupRepo(t)

	require.NoError(t, r.CreateUser(&models.User{Email: "alice@example.com", PasswordHash: "a"}))
	err := r.CreateUser(&models.User{Email: "alice@example.com", PasswordHash: "b"})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestGetUser_Missing(t *testing.T) {
	r := setupRepo(t)

	_, err := r.GetUserByEmail("nobody@example.com")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = r.GetUserByID("missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListUsers(t *testing.T) {
	r := setupRepo(t)

	require.NoError(t, r.CreateUser(&models.User{Email: "a@example.com", PasswordHash: "x"}))
	require.NoError(t, r.CreateUser(&models.User{Email: "b@example.com", PasswordHash: "x"}))

	users, err := r.ListUsers()
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
