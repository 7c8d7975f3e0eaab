package auth

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/vidpress/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndVerifyToken(t *testing.T) {
	secret := []byte("test-secret")

	token, err := GenerateToken("9a7b1c9e-0000-4000-8000-000000000001", secret, time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	identity, err := IdentityFromToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "9a7b1c9e-0000-4000-8000-000000000001", identity)
}

func TestIdentityFromToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken("id-1", []byte("right"), time.Minute)
	require.NoError(t, err)

	_, err = IdentityFromToken(token, []byte("wrong"))
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestIdentityFromToken_Expired(t *testing.T) {
	token, err := GenerateToken("id-1", []byte("secret"), -time.Minute)
	require.NoError(t, err)

	_, err = IdentityFromToken(token, []byte("secret"))
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestIdentityFromToken_Garbage(t *testing.T) {
	_, err := IdentityFromToken("not-a-token", []byte("secret"))
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}
