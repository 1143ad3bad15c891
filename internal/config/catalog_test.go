package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCatalog(t *testing.T) {
	t.Parallel()
	cat, err := LoadCatalog()
	require.NoError(t, err)

	assert.Len(t, cat.Categories, 7)
	assert.Len(t, cat.Reactions, 5)

	for _, c := range cat.Categories {
		assert.NotEmpty(t, c.Value)
		assert.NotEmpty(t, c.Name)
	}
	for _, r := range cat.Reactions {
		assert.NotEmpty(t, r.Value)
		assert.NotEmpty(t, r.Emoji)
	}
}

func TestCatalogValidation(t *testing.T) {
	t.Parallel()
	cat, err := LoadCatalog()
	require.NoError(t, err)

	assert.True(t, cat.ValidCategory("trabalho"))
	assert.False(t, cat.ValidCategory("Trabalho"))
	assert.False(t, cat.ValidCategory(""))

	assert.True(t, cat.ValidReaction("te_entendo"))
	// Only the catalog value is accepted, never the emoji itself.
	assert.False(t, cat.ValidReaction("🤝"))
	assert.False(t, cat.ValidReaction(""))
}

func TestReactionValuesKeepCatalogOrder(t *testing.T) {
	t.Parallel()
	cat, err := LoadCatalog()
	require.NoError(t, err)

	values := cat.ReactionValues()
	require.Len(t, values, len(cat.Reactions))
	for i, r := range cat.Reactions {
		assert.Equal(t, r.Value, values[i])
	}
}

func TestCategoryValuesKeepCatalogOrder(t *testing.T) {
	t.Parallel()
	cat, err := LoadCatalog()
	require.NoError(t, err)

	values := cat.CategoryValues()
	require.Len(t, values, len(cat.Categories))
	for i, c := range cat.Categories {
		assert.Equal(t, c.Value, values[i])
	}
}
