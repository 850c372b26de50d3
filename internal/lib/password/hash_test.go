package password_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NartechSolution/fatsAiBackend/internal/lib/password"
)

func TestGetHashAndCompare(t *testing.T) {
	hash, err := password.GetHash("secret123")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "secret123", hash)

	assert.NoError(t, password.CompareHash(hash, "secret123"))
	assert.Error(t, password.CompareHash(hash, "wrongpassword"))
}

func TestGetHash_UniqueSalt(t *testing.T) {
	first, err := password.GetHash("secret123")
	require.NoError(t, err)
	second, err := password.GetHash("secret123")
	require.NoError(t, err)
	// bcrypt солит каждый хэш отдельно
	assert.NotEqual(t, first, second)
}

func TestGenerate(t *testing.T) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*"

	generated, err := password.Generate(8)
	require.NoError(t, err)
	assert.Len(t, generated, 8)
	for _, c := range generated {
		assert.True(t, strings.ContainsRune(charset, c), "unexpected character %q", c)
	}

	other, err := password.Generate(8)
	require.NoError(t, err)
	assert.NotEqual(t, generated, other)
}
