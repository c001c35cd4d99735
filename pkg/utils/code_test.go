package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateConfirmationCode(t *testing.T) {
	digits := regexp.MustCompile(`^[0-9]+$`)

	code, err := GenerateConfirmationCode(8)
	require.NoError(t, err)
	assert.Len(t, code, 8)
	assert.Regexp(t, digits, code)

	code, err = GenerateConfirmationCode(0)
	require.NoError(t, err)
	assert.Len(t, code, 6)
}

func TestHashCode(t *testing.T) {
	hash, err := HashCode("123456")
	require.NoError(t, err)

	assert.NotEqual(t, "123456", hash)
	assert.True(t, CheckCodeHash("123456", hash))
	assert.False(t, CheckCodeHash("654321", hash))
}
