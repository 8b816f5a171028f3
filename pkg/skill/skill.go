// Package skill turns raw SKILL.md documents fetched from third-party
// repositories into structured, queryable metadata. Skills are markdown
// bundles with YAML frontmatter; the frontmatter comes in three dialects
// (minimal, nested metadata, flat) and the body often carries
// semi-structured sections (usage triggers, example prompts, workflow
// phases) that are extracted heuristically.
package skill

import (
	"fmt"
	"strings"
)

// skillFileName is the conventional file name for skill definitions.
const skillFileName = "SKILL.md"

// Metadata is the canonical result of parsing a SKILL.md frontmatter block.
type Metadata struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Author      string   `json:"author,omitempty"`
	Version     string   `json:"version,omitempty"`
	License     string   `json:"license,omitempty"`
	Content     *Content `json:"content,omitempty"`
}

// Content holds the structured content extracted from a SKILL.md body.
// All fields are optional; a Content with no populated fields is never
// attached to a Metadata.
type Content struct {
	UsageTriggers  []string        `json:"usageTriggers,omitempty"`
	ExamplePrompts []ExamplePrompt `json:"examplePrompts,omitempty"`
	WorkflowPhases []WorkflowPhase `json:"workflowPhases,omitempty"`
}

// IsEmpty reports whether no structured content was extracted.
func (c Content) IsEmpty() bool {
	return len(c.UsageTriggers) == 0 &&
		len(c.ExamplePrompts) == 0 &&
		len(c.WorkflowPhases) == 0
}

// ExamplePrompt is a copyable prompt extracted from an examples section.
type ExamplePrompt struct {
	Title           string `json:"title,omitempty"`
	Prompt          string `json:"prompt"`
	ExpectedOutcome string `json:"expectedOutcome,omitempty"`
}

// WorkflowPhase is a named step in a multi-step process described in a
// skill's documentation.
type WorkflowPhase struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Steps       []string `json:"steps,omitempty"`
}

// Skill is the complete catalog representation of a skill, combining parsed
// metadata with repository and display fields computed by the sync layer.
type Skill struct {
	// ID is "{owner}/{repo}/{skillName}".
	ID        string `json:"id"`
	Owner     string `json:"owner"`
	Repo      string `json:"repo"`
	SkillName string `json:"skillName"`

	Metadata Metadata `json:"metadata"`

	GithubURL     string `json:"githubUrl"`
	DownloadURL   string `json:"downloadUrl"`
	RawSkillMdURL string `json:"rawSkillMdUrl"`
	DetailURL     string `json:"detailUrl"`

	DisplayName      string `json:"displayName"`
	ShortDescription string `json:"shortDescription"`

	RepoDisplayName string `json:"repoDisplayName"`
	Branch          string `json:"branch"`

	DownloadCount int `json:"downloadCount"`
}

// FormatSkillName turns a kebab-case folder name into a human-readable
// display name ("pdf-tools" -> "Pdf Tools").
func FormatSkillName(folder string) string {
	words := strings.Split(folder, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		r := []rune(w)
		words[i] = strings.ToUpper(string(r[0])) + string(r[1:])
	}
	return strings.Join(words, " ")
}

// ShortDescription returns the first line of a description, truncated to
// 120 characters. Truncation counts runes, not bytes, so non-ASCII
// descriptions are never cut mid-character.
func ShortDescription(description string) string {
	firstLine := strings.SplitN(description, "\n", 2)[0]
	if runes := []rune(firstLine); len(runes) > 120 {
		return string(runes[:117]) + "..."
	}
	return firstLine
}

// stringValue renders a frontmatter value as a string, treating absence as
// the empty string. YAML occasionally yields non-string scalars (versions
// like 1.0 parse as floats) so anything present is formatted.
func stringValue(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
