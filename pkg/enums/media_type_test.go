package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMediaTypeValidity(t *testing.T) {
	assert.True(t, MediaTypeImage.IsValid())
	assert.True(t, MediaTypeGIF.IsValid())
	assert.False(t, MediaType("video").IsValid())
	assert.False(t, MediaType("").IsValid())
}

func TestParseMediaType(t *testing.T) {
	parsed, err := ParseMediaType("image")
	require.NoError(t, err)
	assert.Equal(t, MediaTypeImage, parsed)

	parsed, err = ParseMediaType("gif")
	require.NoError(t, err)
	assert.Equal(t, MediaTypeGIF, parsed)

	_, err = ParseMediaType("Image")
	require.Error(t, err)
	_, err = ParseMediaType("")
	require.Error(t, err)
}
