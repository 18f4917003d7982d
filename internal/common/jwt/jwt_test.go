// Package jwt JWT令牌管理单元测试
package jwt

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestManager() *Manager {
	return NewManager(&Config{
		Secret:           "test-secret-key-for-jwt-token-signing",
		AccessExpireTime: 15 * time.Minute,
		Issuer:           "hotel-revenue",
	})
}

func TestGenerateAndParse(t *testing.T) {
	m := setupTestManager()

	token, err := m.GenerateToken(1, "admin")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.NotEmpty(t, token.ID)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), token.ExpiresAt, 5*time.Second)

	claims, err := m.ParseToken(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(1), claims.AdminID)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, token.ID, claims.ID)
	assert.Equal(t, "hotel-revenue", claims.Issuer)
	assert.InDelta(t, (15 * time.Minute).Seconds(), claims.RemainingTTL().Seconds(), 5)
}

func TestGenerateToken_UniqueID(t *testing.T) {
	m := setupTestManager()
	a, err := m.GenerateToken(1, "admin")
	require.NoError(t, err)
	b, err := m.GenerateToken(1, "admin")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestParseToken_Errors(t *testing.T) {
	m := setupTestManager()

	t.Run("格式错误", func(t *testing.T) {
		_, err := m.ParseToken("not.a.jwt")
		assert.ErrorIs(t, err, ErrTokenMalformed)
	})

	t.Run("签名不匹配", func(t *testing.T) {
		other := NewManager(&Config{Secret: "another-secret", AccessExpireTime: time.Minute, Issuer: "hotel-revenue"})
		token, err := other.GenerateToken(1, "admin")
		require.NoError(t, err)
		_, err = m.ParseToken(token.AccessToken)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("签发者不匹配", func(t *testing.T) {
		other := NewManager(&Config{Secret: "test-secret-key-for-jwt-token-signing", AccessExpireTime: time.Minute, Issuer: "other"})
		token, err := other.GenerateToken(1, "admin")
		require.NoError(t, err)
		_, err = m.ParseToken(token.AccessToken)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("已过期", func(t *testing.T) {
		expired := NewManager(&Config{Secret: "test-secret-key-for-jwt-token-signing", AccessExpireTime: -time.Minute, Issuer: "hotel-revenue"})
		token, err := expired.GenerateToken(1, "admin")
		require.NoError(t, err)
		_, err = m.ParseToken(token.AccessToken)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("非 HMAC 算法", func(t *testing.T) {
		unsigned, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, &Claims{AdminID: 1}).
			SignedString(gojwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = m.ParseToken(unsigned)
		assert.Error(t, err)
	})
}

func TestRemainingTTL(t *testing.T) {
	assert.Zero(t, (&Claims{}).RemainingTTL())

	past := &Claims{RegisteredClaims: gojwt.RegisteredClaims{ExpiresAt: gojwt.NewNumericDate(time.Now().Add(-time.Hour))}}
	assert.Zero(t, past.RemainingTTL())
}
