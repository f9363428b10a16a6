package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashSecret_RoundTrip(t *testing.T) {
	t.Parallel()

	hash, err := HashSecret("super_password123")
	require.NoError(t, err)
	assert.NotEqual(t, "super_password123", hash)

	assert.True(t, CheckSecret(hash, "super_password123"))
	assert.False(t, CheckSecret(hash, "wrong_password"))
}

func TestHashSecret_UniqueSalt(t *testing.T) {
	t.Parallel()

	first, err := HashSecret("same_secret")
	require.NoError(t, err)
	second, err := HashSecret("same_secret")
	require.NoError(t, err)

	// bcrypt солит каждый хеш заново
	assert.NotEqual(t, first, second)
}

func TestCheckSecret_MalformedHash(t *testing.T) {
	t.Parallel()

	assert.False(t, CheckSecret("not-a-bcrypt-hash", "anything"))
	assert.False(t, CheckSecret("", "anything"))
}

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	assert.Error(t, ValidatePassword("short"))
	assert.Error(t, ValidatePassword("1234567"))
	assert.NoError(t, ValidatePassword("12345678"))
	assert.NoError(t, ValidatePassword("a_much_longer_password"))
}

func TestRandomTokens_Distinct(t *testing.T) {
	t.Parallel()

	first, err := NewRefreshSecret()
	require.NoError(t, err)
	second, err := NewRefreshSecret()
	require.NoError(t, err)

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)

	reset, err := NewResetToken()
	require.NoError(t, err)
	verification, err := NewVerificationToken()
	require.NoError(t, err)

	// Токен подтверждения длиннее токена сброса
	assert.Greater(t, len(verification), len(reset))
}
