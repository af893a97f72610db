package category

import (
	"testing"

	pkgerrors "github.com/rmoralesdev/mediavault-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"neko":          "neko",
		"  Neko  ":      "neko",
		"HIGH FIVE":     "high_five",
		"high\t five":   "high_five",
		"a  b   c":      "a_b_c",
		"":              "",
		"  ":            "",
		"already_snake": "already_snake",
	}
	for input, want := range cases {
		assert.Equal(t, want, Normalize(input), "input %q", input)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	for _, value := range List() {
		assert.Equal(t, value, Normalize(value))
	}
}

func TestValidateAcceptsVariants(t *testing.T) {
	canonical, err := Validate("  NEKO ")
	require.NoError(t, err)
	assert.Equal(t, "neko", canonical)

	canonical, err = Validate("Smug")
	require.NoError(t, err)
	assert.Equal(t, "smug", canonical)
}

func TestValidateRejectsUnknown(t *testing.T) {
	_, err := Validate("dragon")
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	details, ok := typed.Details().(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "dragon", details["category"])
	assert.Equal(t, List(), details["allowed"])
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid("waifu"))
	assert.True(t, IsValid("  Megumin "))
	assert.False(t, IsValid(""))
	assert.False(t, IsValid("high five"))
	assert.False(t, IsValid("nekoo"))
}

func TestListIsSortedAndComplete(t *testing.T) {
	values := List()
	require.Len(t, values, 12)
	for i := 1; i < len(values); i++ {
		assert.Less(t, values[i-1], values[i])
	}
	assert.Contains(t, values, "waifu")
	assert.Contains(t, values, "highfive")
}
