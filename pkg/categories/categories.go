// Package categories defines the fixed set of catalog categories and
// computes the category facets shown alongside skill listings.
package categories

import (
	"sort"

	"github.com/schwepps/skills-store/pkg/skill"
)

// Category is a catalog category with its display configuration.
type Category struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
	Count int    `json:"count,omitempty"`
}

// All is the special category matching every skill.
const All = "all"

// Other is the fallback category for skills that match nothing else.
const Other = "other"

// configs is the fixed category set, in default display order.
var configs = []Category{
	{ID: All, Label: "All Skills", Icon: "LayoutGrid"},
	{ID: "seo", Label: "SEO & AI Search", Icon: "Search"},
	{ID: "marketing", Label: "Marketing", Icon: "Megaphone"},
	{ID: "music", Label: "Music", Icon: "Music"},
	{ID: "security", Label: "Security", Icon: "Shield"},
	{ID: "development", Label: "Development", Icon: "Code"},
	{ID: "design", Label: "Design", Icon: "Palette"},
	{ID: "productivity", Label: "Productivity", Icon: "Zap"},
	{ID: "data", Label: "Data & Analytics", Icon: "BarChart3"},
	{ID: "document", Label: "Documents", Icon: "FileText"},
	{ID: Other, Label: "Other", Icon: "Folder"},
}

// Lookup returns the configuration for a category ID. Unknown IDs fall back
// to the "other" configuration with the given ID preserved.
func Lookup(id string) Category {
	for _, c := range configs {
		if c.ID == id {
			return c
		}
	}
	return Category{ID: id, Label: skill.FormatSkillName(id), Icon: "Folder"}
}

// IsKnown reports whether id is one of the configured categories.
func IsKnown(id string) bool {
	for _, c := range configs {
		if c.ID == id {
			return true
		}
	}
	return false
}

// Extract builds the category facet list for a set of skills: "all" first
// with the total count, then every category that has at least one skill,
// ordered by count descending with ties broken by configured order.
func Extract(skills []skill.Skill) []Category {
	counts := make(map[string]int)
	for _, s := range skills {
		category := s.Metadata.Category
		if category == "" {
			category = Other
		}
		counts[category]++
	}

	result := []Category{{ID: All, Label: configs[0].Label, Icon: configs[0].Icon, Count: len(skills)}}

	order := make(map[string]int, len(configs))
	for i, c := range configs {
		order[c.ID] = i
	}

	var present []Category
	for id, count := range counts {
		c := Lookup(id)
		c.Count = count
		present = append(present, c)
	}
	sort.Slice(present, func(i, j int) bool {
		if present[i].Count != present[j].Count {
			return present[i].Count > present[j].Count
		}
		oi, oki := order[present[i].ID]
		oj, okj := order[present[j].ID]
		if oki && okj {
			return oi < oj
		}
		if oki != okj {
			return oki
		}
		return present[i].ID < present[j].ID
	})

	return append(result, present...)
}
