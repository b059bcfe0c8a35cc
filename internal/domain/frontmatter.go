package domain

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

const frontmatterDelimiter = "---"

// Frontmatter holds the YAML properties read from a document header
type Frontmatter struct {
	Aliases stringList `yaml:"aliases"`
	Alias   stringList `yaml:"alias"`
	Tags    stringList `yaml:"tags"`
}

// AllAliases returns the declared aliases, accepting both the "aliases" and
// the legacy "alias" key
func (f Frontmatter) AllAliases() []string {
	aliases := make([]string, 0, len(f.Aliases)+len(f.Alias))
	aliases = append(aliases, f.Aliases...)
	aliases = append(aliases, f.Alias...)
	return aliases
}

// stringList decodes either a YAML scalar or a sequence of scalars
type stringList []string

func (l *stringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" || value.Value == "" {
			*l = nil
			return nil
		}
		*l = stringList{value.Value}
	case yaml.SequenceNode:
		items := make(stringList, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag == "!!null" || item.Value == "" {
				continue
			}
			items = append(items, item.Value)
		}
		*l = items
	default:
		return fmt.Errorf("line %d: expected string or list", value.Line)
	}
	return nil
}

// SplitFrontmatter separates the YAML header from the body. ok is false when
// the content has no header.
func SplitFrontmatter(content []byte) (header, body []byte, ok bool) {
	content = bytes.TrimPrefix(content, []byte("\ufeff"))

	first, rest, found := bytes.Cut(content, []byte("\n"))
	if !found || string(bytes.TrimRight(first, "\r")) != frontmatterDelimiter {
		return nil, content, false
	}

	offset := 0
	for {
		line, _, more := bytes.Cut(rest[offset:], []byte("\n"))
		trimmed := string(bytes.TrimRight(line, "\r"))
		if trimmed == frontmatterDelimiter || trimmed == "..." {
			end := offset + len(line)
			if more {
				end++
			}
			return rest[:offset], rest[end:], true
		}
		if !more {
			return nil, content, false
		}
		offset += len(line) + 1
	}
}

// ParseFrontmatter decodes the YAML header of a document. Documents without a
// header yield an empty Frontmatter.
func ParseFrontmatter(content []byte) (Frontmatter, error) {
	var fm Frontmatter

	header, _, ok := SplitFrontmatter(content)
	if !ok || len(bytes.TrimSpace(header)) == 0 {
		return fm, nil
	}

	if err := yaml.Unmarshal(header, &fm); err != nil {
		return Frontmatter{}, fmt.Errorf("invalid frontmatter: %w", err)
	}

	return fm, nil
}
