package skill

import (
	"fmt"
	"strings"
)

// categoryKeywords maps a category to the keywords that select it. Order
// matters: the first category with a matching keyword wins, so more
// specific categories come before broader ones (e.g. "seo" before
// "marketing", which also claims "content").
var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{"seo", []string{
		"seo", "search engine", "crawl", "indexation", "serp", "ranking",
		"e-e-a-t", "core web vitals", "sitemap", "structured data", "schema",
	}},
	{"marketing", []string{
		"marketing", "linkedin", "branding", "content", "social media",
		"copywriting", "ads", "campaign", "growth", "conversion",
	}},
	{"music", []string{
		"music", "audio", "song", "suno", "melody", "track", "composition",
		"playlist", "lyrics", "beat",
	}},
	{"security", []string{
		"security", "audit", "vulnerability", "solidity", "smart contract",
		"penetration", "owasp", "web3", "blockchain", "exploit", "threat",
	}},
	{"development", []string{
		"code", "programming", "api", "typescript", "python", "react",
		"nextjs", "database", "debugging", "testing", "developer", "sdk",
	}},
	{"design", []string{
		"design", "ui", "ux", "figma", "css", "tailwind", "visual", "layout",
		"brand", "wireframe", "prototype", "aesthetic",
	}},
	{"productivity", []string{
		"productivity", "automation", "workflow", "task", "organization",
		"efficiency", "planning", "time management", "notion", "template",
	}},
	{"data", []string{
		"data", "analytics", "csv", "chart", "visualization", "statistics",
		"metrics", "dashboard", "report", "sql", "excel",
	}},
	{"document", []string{
		"document", "pdf", "docx", "pptx", "xlsx", "word", "powerpoint",
		"excel", "slides", "presentation", "spreadsheet",
	}},
}

// commonTags are technical and domain terms recognized as tags when they
// appear anywhere in a skill description.
var commonTags = []string{
	"react", "nextjs", "typescript", "python", "api", "database", "seo",
	"marketing", "analytics", "security", "design", "ui", "ux", "pdf",
	"document", "automation", "workflow", "ai", "llm", "claude", "web3",
	"solidity", "blockchain", "music", "audio", "linkedin", "github",
	"notion", "figma", "tailwind", "css", "html",
}

// InferCategory derives a category from a skill description plus any raw
// tags value found in the frontmatter. Matching is deliberately coarse
// substring matching: a keyword inside a longer word still counts. Returns
// "other" when nothing matches.
func InferCategory(description string, data map[string]any) string {
	text := strings.ToLower(description + " " + tagsSearchText(data["tags"]))

	for _, entry := range categoryKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(text, keyword) {
				return entry.category
			}
		}
	}

	return "other"
}

// InferTags returns every common tag term appearing in the description,
// preserving the order of the fixed term list. Never returns nil.
func InferTags(description string) []string {
	lowerDesc := strings.ToLower(description)

	tags := []string{}
	for _, term := range commonTags {
		if strings.Contains(lowerDesc, term) {
			tags = append(tags, term)
		}
	}
	return tags
}

// tagsSearchText renders a raw, possibly un-normalized tags value as search
// text for category inference.
func tagsSearchText(tags any) string {
	switch v := tags.(type) {
	case nil:
		return ""
	case string:
		return v
	case []any:
		parts := make([]string, 0, len(v))
		for _, t := range v {
			parts = append(parts, fmt.Sprintf("%v", t))
		}
		return strings.Join(parts, ",")
	case []string:
		return strings.Join(v, ",")
	default:
		return fmt.Sprintf("%v", v)
	}
}
