package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	password := "mysecretpassword"
	pepper := "test-pepper-for-unit-tests"

	hashed, err := hashPassword(password, pepper)
	require.NoError(t, err)
	require.NotEmpty(t, hashed)
	assert.NotEqual(t, password, hashed)

	assert.True(t, checkPasswordHash(password, hashed, pepper), "correct password and pepper")
	assert.False(t, checkPasswordHash("wrongpassword", hashed, pepper), "wrong password")
	// Перец не хранится в хеше, поэтому другой перец не подходит
	assert.False(t, checkPasswordHash(password, hashed, "another-pepper"), "wrong pepper")
	assert.False(t, checkPasswordHash(password, "not-a-bcrypt-hash", pepper), "invalid hash format")
}

func TestHashPassword_LongPasswordsAreDistinguished(t *testing.T) {
	// bcrypt смотрит только на первые 72 байта, HMAC снимает это ограничение
	prefix := strings.Repeat("a", 80)
	pepper := "pepper"

	hashed, err := hashPassword(prefix+"1", pepper)
	require.NoError(t, err)
	assert.True(t, checkPasswordHash(prefix+"1", hashed, pepper))
	assert.False(t, checkPasswordHash(prefix+"2", hashed, pepper))
}

func TestApplyPepper_Deterministic(t *testing.T) {
	assert.Equal(t, applyPepper("pw", "p"), applyPepper("pw", "p"))
	assert.NotEqual(t, applyPepper("pw", "p1"), applyPepper("pw", "p2"))
	assert.Len(t, applyPepper("pw", "p"), 32)
}
