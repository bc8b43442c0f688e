package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndComparePassword(t *testing.T) {
	hashed, err := HashPassword("s3cret", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hashed)

	assert.NoError(t, ComparePassword(hashed, "s3cret"))
	assert.Error(t, ComparePassword(hashed, "wrong"))
}
