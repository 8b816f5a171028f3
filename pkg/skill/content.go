package skill

import (
	"regexp"
	"strings"
)

// markdownSection is a span of the body starting at a heading line and
// running to the next heading or end of document.
type markdownSection struct {
	heading string
	level   int
	content string
}

// Heading patterns per content group, evaluated in order against each
// section's heading text. The first section matching a group claims it.
var (
	usageTriggerPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^(?:When to Use|Usage|Use Cases|Getting Started)`),
		regexp.MustCompile(`(?i)^(?:Quand utiliser|Cas d'usage)`), // French
	}
	examplePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^(?:Examples?|Sample Prompts?|Try It|Example Usage)`),
		regexp.MustCompile(`(?i)^(?:Exemples?)`), // French
	}
	workflowPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^(?:Workflow|Process|Steps|Phases|How It Works|Methodology)`),
		regexp.MustCompile(`(?i)^(?:Processus|Étapes|Méthodologie)`), // French
	}
)

var (
	headingRe  = regexp.MustCompile(`^(#{1,3})\s+(.+)$`)
	bulletRe   = regexp.MustCompile(`^[-*]\s+(.+)$`)
	codeFenceRe = regexp.MustCompile("(?s)```(?:text|prompt|markdown)?\n(.*?)```")
	quoteLineRe = regexp.MustCompile(`(?m)^>\s*["']?(.+?)["']?\s*$`)
	numberedPromptRe = regexp.MustCompile(`(?m)^\d+\.\s*\*\*([^*]+)\*\*:?\s*(.+)`)
	quotedBulletRe   = regexp.MustCompile(`^[-*]\s+["']?(.+?)["']?\s*$`)

	// Primary workflow phase shape: "### 1. Title" or "**1. Title**",
	// terminated by a newline or colon. The leading number is required;
	// without it the closing ** of ordinary bold text would start a match.
	phaseRe = regexp.MustCompile(`(?m)(?:^###\s*|\*\*)(\d+\.?\s*[^*\n]+?)(?:\*\*)?(?:\n|:)`)
	// Fallback shape: "1. **Title**" numbered list items.
	numberedPhaseRe = regexp.MustCompile(`(?m)^(\d+)\.\s*\*\*([^*]+)\*\*`)
)

// promptVerbs mark bullet text as prompt-like when it starts with one.
var promptVerbs = []string{
	"analyze", "create", "generate", "write", "help", "explain",
	"review", "check", "find", "show", "give", "make",
}

// ExtractContent scans a SKILL.md markdown body for recognized sections and
// pulls structured content out of them. It always returns a Content record;
// callers attach it to metadata only when it is non-empty.
func ExtractContent(markdownBody string) Content {
	var content Content

	if strings.TrimSpace(markdownBody) == "" {
		return content
	}

	sections := extractSections(markdownBody)

	if section := findSection(sections, usageTriggerPatterns); section != nil {
		if triggers := extractBulletPoints(section.content); len(triggers) > 0 {
			content.UsageTriggers = triggers
		}
	}

	if section := findSection(sections, examplePatterns); section != nil {
		if prompts := extractExamplePrompts(section.content); len(prompts) > 0 {
			content.ExamplePrompts = prompts
		}
	}

	if section := findSection(sections, workflowPatterns); section != nil {
		if phases := extractWorkflowPhases(section.content); len(phases) > 0 {
			content.WorkflowPhases = phases
		}
	}

	return content
}

// extractSections splits a markdown body into sections at level 1-3
// headings. Text before the first heading belongs to no section.
func extractSections(markdown string) []markdownSection {
	var sections []markdownSection
	var current *markdownSection
	var contentLines []string

	for _, line := range strings.Split(markdown, "\n") {
		if m := headingRe.FindStringSubmatch(line); m != nil {
			if current != nil {
				current.content = strings.TrimSpace(strings.Join(contentLines, "\n"))
				sections = append(sections, *current)
			}
			current = &markdownSection{
				heading: strings.TrimSpace(m[2]),
				level:   len(m[1]),
			}
			contentLines = nil
			continue
		}
		if current != nil {
			contentLines = append(contentLines, line)
		}
	}

	if current != nil {
		current.content = strings.TrimSpace(strings.Join(contentLines, "\n"))
		sections = append(sections, *current)
	}

	return sections
}

// findSection returns the first section whose heading matches any of the
// given patterns, or nil.
func findSection(sections []markdownSection, patterns []*regexp.Regexp) *markdownSection {
	for i := range sections {
		for _, p := range patterns {
			if p.MatchString(sections[i].heading) {
				return &sections[i]
			}
		}
	}
	return nil
}

// extractBulletPoints collects markdown bullet lines, skipping very short
// items and items that look like headings.
func extractBulletPoints(content string) []string {
	var bullets []string

	for _, line := range strings.Split(content, "\n") {
		m := bulletRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		text := strings.TrimSpace(m[1])
		if len(text) > 5 && !strings.HasPrefix(text, "#") {
			bullets = append(bullets, text)
		}
	}

	return bullets
}

// extractExamplePrompts pulls prompts out of an examples section. Four
// formats are recognized: fenced code blocks, block quotes, numbered items
// with a bold title, and prompt-like bullet lines. Prompts are deduplicated
// by exact text across all four passes, first occurrence wins.
func extractExamplePrompts(content string) []ExamplePrompt {
	var prompts []ExamplePrompt
	seen := map[string]bool{}

	add := func(title, prompt string) {
		if prompt == "" || seen[prompt] {
			return
		}
		seen[prompt] = true
		prompts = append(prompts, ExamplePrompt{Title: title, Prompt: prompt})
	}

	for _, m := range codeFenceRe.FindAllStringSubmatch(content, -1) {
		if prompt := strings.TrimSpace(m[1]); len(prompt) > 10 {
			add("", prompt)
		}
	}

	for _, m := range quoteLineRe.FindAllStringSubmatch(content, -1) {
		if prompt := strings.TrimSpace(m[1]); len(prompt) > 10 {
			add("", prompt)
		}
	}

	for _, m := range numberedPromptRe.FindAllStringSubmatch(content, -1) {
		title := strings.TrimSpace(m[1])
		prompt := strings.TrimSpace(m[2])
		if len(prompt) > 10 {
			add(title, prompt)
		}
	}

	for _, line := range strings.Split(content, "\n") {
		m := quotedBulletRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		text := strings.TrimSpace(m[1])
		if looksLikePrompt(text) {
			add("", text)
		}
	}

	return prompts
}

// looksLikePrompt reports whether bullet text reads like a usable prompt:
// it starts with an imperative verb, asks a question, or is long enough to
// be a full instruction.
func looksLikePrompt(text string) bool {
	lower := strings.ToLower(text)
	for _, verb := range promptVerbs {
		if strings.HasPrefix(lower, verb) {
			return true
		}
	}
	return strings.HasSuffix(text, "?") || len(text) > 50
}

// extractWorkflowPhases pulls named phases out of a workflow section. The
// primary pattern covers "### Phase" and "**Phase**" shapes; when it finds
// nothing, a simpler "1. **Title**" numbered list format is tried.
func extractWorkflowPhases(content string) []WorkflowPhase {
	matches := phaseRe.FindAllStringSubmatchIndex(content, -1)

	if len(matches) == 0 {
		return extractNumberedPhases(content)
	}

	var phases []WorkflowPhase
	for i, m := range matches {
		name := strings.TrimSpace(content[m[2]:m[3]])
		start := m[1]
		end := len(content)
		if i < len(matches)-1 {
			end = matches[i+1][0]
		}

		span := strings.TrimSpace(content[start:end])

		description := ""
		for _, line := range strings.Split(span, "\n") {
			if strings.TrimSpace(line) != "" && !strings.HasPrefix(line, "-") {
				description = strings.TrimSpace(line)
				break
			}
		}

		phases = append(phases, WorkflowPhase{
			Name:        name,
			Description: description,
			Steps:       extractBulletPoints(span),
		})
	}

	return phases
}

// extractNumberedPhases handles the "1. **Title**" fallback format. Each
// phase's span runs to the next blank-line pair or end of section.
func extractNumberedPhases(content string) []WorkflowPhase {
	var phases []WorkflowPhase

	for _, m := range numberedPhaseRe.FindAllStringSubmatchIndex(content, -1) {
		number := content[m[2]:m[3]]
		title := strings.TrimSpace(content[m[4]:m[5]])
		name := number + ". " + title

		start := m[1]
		end := strings.Index(content[start:], "\n\n")
		span := ""
		if end >= 0 {
			span = strings.TrimSpace(content[start : start+end])
		} else {
			span = strings.TrimSpace(content[start:])
		}

		phases = append(phases, WorkflowPhase{
			Name:        name,
			Description: strings.SplitN(span, "\n", 2)[0],
			Steps:       extractBulletPoints(span),
		})
	}

	return phases
}
