package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("s3cret!", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", hash)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)

	t.Run("非法 cost 使用默认值", func(t *testing.T) {
		hash, err := HashPassword("pw", 99)
		require.NoError(t, err)
		cost, err := bcrypt.Cost([]byte(hash))
		require.NoError(t, err)
		assert.Equal(t, bcrypt.DefaultCost, cost)
	})
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct", bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, VerifyPassword("correct", hash))
	assert.False(t, VerifyPassword("wrong", hash))
	assert.False(t, VerifyPassword("correct", ""))
	assert.False(t, VerifyPassword("correct", "not-a-hash"))
}

func TestSecureEqual(t *testing.T) {
	assert.True(t, SecureEqual("admin", "admin"))
	assert.False(t, SecureEqual("admin", "Admin"))
	assert.False(t, SecureEqual("admin", "admin "))
	assert.True(t, SecureEqual("", ""))
}
