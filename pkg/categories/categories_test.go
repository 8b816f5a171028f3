package categories

import (
	"testing"

	"github.com/schwepps/skills-store/pkg/skill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skillWithCategory(id, category string) skill.Skill {
	return skill.Skill{ID: id, Metadata: skill.Metadata{Category: category}}
}

func TestLookup(t *testing.T) {
	t.Run("known category", func(t *testing.T) {
		c := Lookup("seo")
		assert.Equal(t, "SEO & AI Search", c.Label)
		assert.Equal(t, "Search", c.Icon)
	})

	t.Run("unknown category keeps its id", func(t *testing.T) {
		c := Lookup("ai-agents")
		assert.Equal(t, "ai-agents", c.ID)
		assert.Equal(t, "Ai Agents", c.Label)
		assert.Equal(t, "Folder", c.Icon)
	})
}

func TestIsKnown(t *testing.T) {
	assert.True(t, IsKnown("development"))
	assert.True(t, IsKnown(All))
	assert.False(t, IsKnown("bogus"))
}

func TestExtract(t *testing.T) {
	skills := []skill.Skill{
		skillWithCategory("a/b/1", "development"),
		skillWithCategory("a/b/2", "development"),
		skillWithCategory("a/b/3", "seo"),
		skillWithCategory("a/b/4", "seo"),
		skillWithCategory("a/b/5", "design"),
		skillWithCategory("a/b/6", ""),
	}

	facets := Extract(skills)
	require.Len(t, facets, 5)

	assert.Equal(t, All, facets[0].ID)
	assert.Equal(t, 6, facets[0].Count)

	// seo and development both have 2; seo wins the tie by configured order.
	assert.Equal(t, "seo", facets[1].ID)
	assert.Equal(t, 2, facets[1].Count)
	assert.Equal(t, "development", facets[2].ID)
	assert.Equal(t, "design", facets[3].ID)
	assert.Equal(t, Other, facets[4].ID, "missing category counts as other")
	assert.Equal(t, 1, facets[4].Count)
}

func TestExtractEmpty(t *testing.T) {
	facets := Extract(nil)
	require.Len(t, facets, 1)
	assert.Equal(t, All, facets[0].ID)
	assert.Equal(t, 0, facets[0].Count)
}
