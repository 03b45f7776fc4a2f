package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-password")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-password", hash)

	assert.True(t, CheckPasswordHash("s3cret-password", hash))
	assert.False(t, CheckPasswordHash("wrong-password", hash))
}

func TestGenerateAndParseJWT(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateJWT(7, "CUSTOMER", "buyer@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseJWT(token)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, "buyer@example.com", claims.Email)
	assert.Equal(t, "CUSTOMER", claims.Role)
}

func TestParseJWT_WrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "first-secret")
	token, err := GenerateJWT(7, "CUSTOMER", "buyer@example.com")
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "other-secret")
	_, err = ParseJWT(token)
	assert.Error(t, err)
}

func TestGenerateJWT_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := GenerateJWT(7, "CUSTOMER", "buyer@example.com")
	assert.Error(t, err)
}
