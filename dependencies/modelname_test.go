package dependencies

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNormalizedEntityName(t *testing.T) {
	t.Run("normalizes to lowercase", func(t *testing.T) {
		name, err := NewNormalizedEntityName("App.Organization")
		require.NoError(t, err)
		assert.Equal(t, "app.organization", name.String())
	})

	t.Run("missing separator fails fast", func(t *testing.T) {
		_, err := NewNormalizedEntityName("organization")
		require.Error(t, err)
		var malformed *MalformedNameError
		assert.True(t, errors.As(err, &malformed))
		assert.Equal(t, "organization", malformed.Input)
	})

	t.Run("equality on normalized form", func(t *testing.T) {
		a := MustNormalizedEntityName("app.Team")
		b := MustNormalizedEntityName("APP.team")
		assert.Equal(t, a, b)
	})
}

func TestNormalizedEntityNameOrdering(t *testing.T) {
	a := MustNormalizedEntityName("app.organization")
	b := MustNormalizedEntityName("app.team")
	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
	assert.False(t, a.Less(a))
}

func TestMustNormalizedEntityNamePanics(t *testing.T) {
	assert.Panics(t, func() { MustNormalizedEntityName("nodot") })
}

func TestNormalizedEntityNameIsZero(t *testing.T) {
	var zero NormalizedEntityName
	assert.True(t, zero.IsZero())
	assert.False(t, MustNormalizedEntityName("app.user").IsZero())
}
