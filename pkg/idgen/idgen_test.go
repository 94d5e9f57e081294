package idgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Unique(t *testing.T) {
	a, err := New()
	require.NoError(t, err)
	b, err := New()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.False(t, a.IsZero())
}

func TestRoundTrip(t *testing.T) {
	id := MustNew()
	parsed, err := Parse(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	parsedUpper, err := Parse(id.Upper())
	require.NoError(t, err)
	assert.Equal(t, id, parsedUpper)
}

func TestParse_WrongLength(t *testing.T) {
	_, err := Parse("abcd")
	assert.Error(t, err)
}

func TestParse_NotHex(t *testing.T) {
	_, err := Parse("not-hex-at-all-zzzzzzzzzzzzzzzz")
	assert.Error(t, err)
}

func TestIsZero(t *testing.T) {
	var id ID
	assert.True(t, id.IsZero())
	assert.False(t, MustNew().IsZero())
}
