package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestGenerateAndValidate(t *testing.T) {
	token, err := GenerateToken("wallet-addr", AccessToken, testSecret, time.Minute)
	require.NoError(t, err)

	claims, err := ValidateToken(token, testSecret)
	require.NoError(t, err)
	require.Equal(t, "wallet-addr", claims.Wallet)
	require.Equal(t, AccessToken, claims.TokenType)

	_, err = ValidateToken(token, "wrong-secret")
	require.Error(t, err)
}

func TestExpiredToken(t *testing.T) {
	token, err := GenerateToken("wallet-addr", AccessToken, testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(token, testSecret)
	require.Error(t, err)
}

func TestIsTokenValid(t *testing.T) {
	token, err := GenerateToken("wallet-addr", RefreshToken, testSecret, time.Minute)
	require.NoError(t, err)

	require.True(t, IsTokenValid(token, testSecret, RefreshToken))
	require.False(t, IsTokenValid(token, testSecret, AccessToken))
	require.False(t, IsTokenValid("garbage", testSecret, RefreshToken))
}
