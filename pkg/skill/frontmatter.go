package skill

import (
	"bytes"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/schwepps/skills-store/pkg/logger"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
)

// nestedMetadata is the `metadata:` sub-object of the extended frontmatter
// dialect. Tags stays untyped because it may be a list or a comma-separated
// string.
type nestedMetadata struct {
	Category string `mapstructure:"category"`
	Tags     any    `mapstructure:"tags"`
	Author   string `mapstructure:"author"`
	Version  string `mapstructure:"version"`
}

// ParseFrontmatter parses a SKILL.md document and returns its canonical
// metadata, supporting three frontmatter dialects:
//
//   - minimal: name, description
//   - extended: name, description, metadata: {category, tags, author, version}
//   - flat: name, description, category, tags, author, version, license
//
// Field resolution is nested > flat > inferred. Category and tags are
// inferred from the description when no dialect supplies them. The markdown
// body is scanned for structured content which is attached only when
// non-empty.
//
// Returns nil when the document has neither a name nor a description, or
// when the frontmatter cannot be read at all. Skill files are untrusted
// third-party content, so a malformed document is logged and skipped rather
// than surfaced as an error.
func ParseFrontmatter(content string) *Metadata {
	md := goldmark.New(goldmark.WithExtensions(meta.Meta))

	var buf bytes.Buffer
	pctx := parser.NewContext()

	if err := md.Convert([]byte(content), &buf, parser.WithContext(pctx)); err != nil {
		logger.L.WithError(err).Warn("failed to parse SKILL.md markdown")
		return nil
	}

	data, err := meta.TryGet(pctx)
	if err != nil {
		logger.L.WithError(err).Warn("failed to parse SKILL.md frontmatter")
		return nil
	}
	if data == nil {
		data = map[string]any{}
	}

	name := stringValue(data["name"])
	description := stringValue(data["description"])

	// A document needs at least one identifying field to be a skill.
	if name == "" && description == "" {
		return nil
	}

	var nested nestedMetadata
	if raw, ok := data["metadata"]; ok {
		decodeNested(raw, &nested)
	}

	m := &Metadata{
		Name:        name,
		Description: description,
		Author:      firstNonEmpty(nested.Author, stringValue(data["author"])),
		Version:     firstNonEmpty(nested.Version, stringValue(data["version"])),
		License:     stringValue(data["license"]),
	}

	// Category: nested > flat > inferred.
	m.Category = nested.Category
	if m.Category == "" {
		m.Category = stringValue(data["category"])
	}
	if m.Category == "" {
		m.Category = InferCategory(description, data)
	}

	// Tags: nested > flat > inferred. An empty list at the nested level
	// falls through to the flat dialect, but an explicit empty list at the
	// flat level does not fall through to inference.
	m.Tags = parseTags(nested.Tags)
	if len(m.Tags) == 0 {
		m.Tags = parseTags(data["tags"])
	}
	if m.Tags == nil {
		m.Tags = InferTags(description)
	}

	body := extractBody(content)
	if c := ExtractContent(body); !c.IsEmpty() {
		m.Content = &c
	}

	return m
}

// decodeNested decodes the metadata sub-object best-effort. YAML gives us
// map[any]any here, which mapstructure handles; a shape mismatch just
// leaves the fields empty so the flat dialect takes over.
func decodeNested(raw any, out *nestedMetadata) {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return
	}
	_ = dec.Decode(raw)
}

// parseTags normalizes a tags value into a slice of trimmed, non-empty
// strings. Accepts a list or a comma-separated string. Returns nil when no
// tags value was supplied, which is distinct from an explicitly empty list.
func parseTags(tags any) []string {
	switch v := tags.(type) {
	case nil:
		return nil
	case []any:
		out := []string{}
		for _, t := range v {
			if s := strings.TrimSpace(stringValue(t)); s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		out := []string{}
		for _, t := range v {
			if s := strings.TrimSpace(t); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		out := []string{}
		for _, t := range strings.Split(v, ",") {
			if s := strings.TrimSpace(t); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// extractBody strips the frontmatter block and returns the markdown body.
func extractBody(content string) string {
	if !strings.HasPrefix(content, "---") {
		return content
	}

	lines := strings.Split(content, "\n")
	frontmatterEnd := -1

	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			frontmatterEnd = i
			break
		}
	}

	if frontmatterEnd == -1 {
		return content
	}

	return strings.TrimLeft(strings.Join(lines[frontmatterEnd+1:], "\n"), "\n")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
