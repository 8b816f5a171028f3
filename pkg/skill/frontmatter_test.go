package skill

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFrontmatterMinimal(t *testing.T) {
	content := `---
name: pdf-tools
description: Extract text and tables from PDF documents
---

# PDF Tools
`
	m := ParseFrontmatter(content)
	require.NotNil(t, m)
	assert.Equal(t, "pdf-tools", m.Name)
	assert.Equal(t, "Extract text and tables from PDF documents", m.Description)
	assert.Equal(t, "document", m.Category, "pdf keyword should select the document category")
	assert.Equal(t, []string{"pdf", "document"}, m.Tags)
}

func TestParseFrontmatterNestedMetadata(t *testing.T) {
	content := `---
name: solidity-auditor
description: Audit smart contracts for vulnerabilities
metadata:
  category: security
  tags:
    - solidity
    - audit
  author: octocat
  version: "1.2"
---

Body text.
`
	m := ParseFrontmatter(content)
	require.NotNil(t, m)
	assert.Equal(t, "security", m.Category)
	assert.Equal(t, []string{"solidity", "audit"}, m.Tags)
	assert.Equal(t, "octocat", m.Author)
	assert.Equal(t, "1.2", m.Version)
}

func TestParseFrontmatterFlat(t *testing.T) {
	content := `---
name: chart-maker
description: Build charts from CSV files
category: data
tags: csv, charts, visualization
author: someone
version: 2.0
license: MIT
---
`
	m := ParseFrontmatter(content)
	require.NotNil(t, m)
	assert.Equal(t, "data", m.Category)
	assert.Equal(t, []string{"csv", "charts", "visualization"}, m.Tags)
	assert.Equal(t, "someone", m.Author)
	assert.Equal(t, "2", m.Version, "yaml parses 2.0 as a number")
	assert.Equal(t, "MIT", m.License)
}

func TestParseFrontmatterNestedWinsOverFlat(t *testing.T) {
	content := `---
name: sample
description: A sample skill about nothing in particular
category: development
tags: [python]
metadata:
  category: design
  tags:
    - figma
  author: nested-author
author: flat-author
---
`
	m := ParseFrontmatter(content)
	require.NotNil(t, m)
	assert.Equal(t, "design", m.Category)
	assert.Equal(t, []string{"figma"}, m.Tags)
	assert.Equal(t, "nested-author", m.Author)
}

func TestParseFrontmatterEmptyNestedTagsFallThrough(t *testing.T) {
	content := `---
name: sample
description: A sample skill about nothing in particular
tags: [css]
metadata:
  tags: []
---
`
	m := ParseFrontmatter(content)
	require.NotNil(t, m)
	assert.Equal(t, []string{"css"}, m.Tags, "empty nested list should fall through to the flat dialect")
}

func TestParseFrontmatterExplicitEmptyFlatTags(t *testing.T) {
	content := `---
name: sample
description: A react and typescript skill
tags: []
---
`
	m := ParseFrontmatter(content)
	require.NotNil(t, m)
	assert.Empty(t, m.Tags, "an explicit empty tags list must not trigger inference")
}

func TestParseFrontmatterInference(t *testing.T) {
	t.Run("category and tags inferred from description", func(t *testing.T) {
		content := `---
name: linkedin-writer
description: Write engaging LinkedIn posts and marketing copy
---
`
		m := ParseFrontmatter(content)
		require.NotNil(t, m)
		assert.Equal(t, "marketing", m.Category)
		assert.Equal(t, []string{"marketing", "linkedin"}, m.Tags)
	})

	t.Run("frontmatter tags feed category inference", func(t *testing.T) {
		content := `---
name: sample
description: Does things
tags: [suno]
---
`
		m := ParseFrontmatter(content)
		require.NotNil(t, m)
		assert.Equal(t, "music", m.Category)
	})

	t.Run("nothing matches", func(t *testing.T) {
		content := `---
name: sample
description: Zzz
---
`
		m := ParseFrontmatter(content)
		require.NotNil(t, m)
		assert.Equal(t, "other", m.Category)
		assert.NotNil(t, m.Tags)
		assert.Empty(t, m.Tags)
	})
}

func TestParseFrontmatterOrderedCategories(t *testing.T) {
	// "content" is a marketing keyword but "seo" wins because seo is
	// checked first.
	content := `---
name: seo-content
description: SEO content optimization for search engine ranking
---
`
	m := ParseFrontmatter(content)
	require.NotNil(t, m)
	assert.Equal(t, "seo", m.Category)
}

func TestParseFrontmatterRejects(t *testing.T) {
	t.Run("no name or description", func(t *testing.T) {
		content := `---
category: development
---

Body only.
`
		assert.Nil(t, ParseFrontmatter(content))
	})

	t.Run("no frontmatter at all", func(t *testing.T) {
		assert.Nil(t, ParseFrontmatter("# Just a heading\n\nSome text.\n"))
	})

	t.Run("empty document", func(t *testing.T) {
		assert.Nil(t, ParseFrontmatter(""))
	})

	t.Run("malformed yaml", func(t *testing.T) {
		content := "---\nname: [unclosed\ndescription: broken\n---\n"
		assert.Nil(t, ParseFrontmatter(content))
	})
}

func TestParseFrontmatterNonStringScalars(t *testing.T) {
	content := `---
name: 42
description: A numeric name skill for testing yaml coercion
version: 1.0
---
`
	m := ParseFrontmatter(content)
	require.NotNil(t, m)
	assert.Equal(t, "42", m.Name)
	assert.Equal(t, "1", m.Version)
}

func TestParseFrontmatterAttachesContent(t *testing.T) {
	content := `---
name: review-helper
description: Review pull requests with structured feedback
---

# Review Helper

## When to Use

- Reviewing a pull request before merging
- Auditing code quality on a schedule

## Examples

` + "```" + `
Review this pull request for security issues
` + "```" + `
`
	m := ParseFrontmatter(content)
	require.NotNil(t, m)
	require.NotNil(t, m.Content)
	assert.Len(t, m.Content.UsageTriggers, 2)
	require.Len(t, m.Content.ExamplePrompts, 1)
	assert.Equal(t, "Review this pull request for security issues", m.Content.ExamplePrompts[0].Prompt)
}

func TestParseFrontmatterNoContentStaysNil(t *testing.T) {
	content := `---
name: plain
description: A skill with an unstructured body
---

Just some prose without recognized sections.
`
	m := ParseFrontmatter(content)
	require.NotNil(t, m)
	assert.Nil(t, m.Content)
}

func TestParseTags(t *testing.T) {
	t.Run("absent is nil", func(t *testing.T) {
		assert.Nil(t, parseTags(nil))
	})

	t.Run("list", func(t *testing.T) {
		assert.Equal(t, []string{"a", "b"}, parseTags([]any{"a", " b "}))
	})

	t.Run("comma separated string", func(t *testing.T) {
		assert.Equal(t, []string{"a", "b"}, parseTags("a, b,,"))
	})

	t.Run("empty list is empty not nil", func(t *testing.T) {
		tags := parseTags([]any{})
		assert.NotNil(t, tags)
		assert.Empty(t, tags)
	})

	t.Run("unsupported type is nil", func(t *testing.T) {
		assert.Nil(t, parseTags(42))
	})
}

func TestExtractBody(t *testing.T) {
	t.Run("strips frontmatter", func(t *testing.T) {
		body := extractBody("---\nname: x\n---\n\n# Heading\n")
		assert.Equal(t, "# Heading\n", body)
	})

	t.Run("no frontmatter returns content unchanged", func(t *testing.T) {
		assert.Equal(t, "# Heading\n", extractBody("# Heading\n"))
	})

	t.Run("unterminated fence returns content unchanged", func(t *testing.T) {
		content := "---\nname: x\n"
		assert.Equal(t, content, extractBody(content))
	})
}

func TestFormatSkillName(t *testing.T) {
	assert.Equal(t, "Pdf Tools", FormatSkillName("pdf-tools"))
	assert.Equal(t, "Seo", FormatSkillName("seo"))

	t.Run("non-ascii first letter", func(t *testing.T) {
		assert.Equal(t, "Éditeur Pdf", FormatSkillName("éditeur-pdf"))
		assert.True(t, utf8.ValidString(FormatSkillName("über-tools")))
	})
}

func TestShortDescription(t *testing.T) {
	t.Run("first line only", func(t *testing.T) {
		assert.Equal(t, "first", ShortDescription("first\nsecond"))
	})

	t.Run("truncates long lines", func(t *testing.T) {
		long := ShortDescription(strings.Repeat("b", 150))
		assert.Len(t, long, 120)
		assert.Equal(t, "...", long[117:])
	})

	t.Run("truncates by runes not bytes", func(t *testing.T) {
		short := ShortDescription(strings.Repeat("é", 150))
		assert.True(t, utf8.ValidString(short))
		assert.Equal(t, strings.Repeat("é", 117)+"...", short)
	})
}
