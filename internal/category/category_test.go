package category_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmeindl/umlage/internal/category"
)

func TestAll_UniqueTypes(t *testing.T) {
	cats := category.All()
	require.NotEmpty(t, cats)

	seen := make(map[category.Type]bool)

	for _, c := range cats {
		assert.False(t, seen[c.Type], "duplicate type %s", c.Type)
		seen[c.Type] = true

		assert.NotEmpty(t, c.Name)
		assert.True(t, category.ValidKey(c.DefaultKey), "category %s has invalid default key", c.Type)
		assert.NotEmpty(t, c.Purposes)
	}
}

func TestGet(t *testing.T) {
	c, ok := category.Get(category.TypeHeatingFuel)
	require.True(t, ok)
	assert.Equal(t, "Brennstoffkosten", c.Name)
	assert.Equal(t, category.AllocateByConsumption, c.DefaultKey)
	assert.True(t, c.HeatingRelevant)

	_, ok = category.Get(category.Type("does-not-exist"))
	assert.False(t, ok)
}

func TestHeatingRelevant(t *testing.T) {
	heating := category.HeatingRelevant()
	require.NotEmpty(t, heating)
	assert.Less(t, len(heating), len(category.All()))

	for _, c := range heating {
		assert.True(t, c.HeatingRelevant)
	}
}

func TestValidKey(t *testing.T) {
	assert.True(t, category.ValidKey(category.AllocateByConsumption))
	assert.True(t, category.ValidKey(category.AllocateByLivingSpace))
	assert.True(t, category.ValidKey(category.AllocateByUnitCount))
	assert.False(t, category.ValidKey(category.AllocationKey("per-room")))
}
