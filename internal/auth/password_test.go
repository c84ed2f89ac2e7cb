package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCheckPassword(t *testing.T) {
	hashed, err := HashPassword("Correct&Horse1", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "Correct&Horse1", hashed)

	assert.True(t, CheckPassword("Correct&Horse1", hashed))
	assert.False(t, CheckPassword("Wrong&Horse1", hashed))
	assert.False(t, CheckPassword("", hashed))
}

func TestHashPassword_SaltedPerCall(t *testing.T) {
	a, err := HashPassword("Correct&Horse1", bcrypt.MinCost)
	require.NoError(t, err)
	b, err := HashPassword("Correct&Horse1", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestHashPassword_InvalidCostFallsBack(t *testing.T) {
	hashed, err := HashPassword("Correct&Horse1", -1)
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hashed))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}
