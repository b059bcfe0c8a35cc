package domain

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// SuggestionType tells whether a suggestion links an existing document or creates one
type SuggestionType int

const (
	SuggestionLink SuggestionType = iota
	SuggestionCreate
)

func (t SuggestionType) String() string {
	switch t {
	case SuggestionLink:
		return "link"
	case SuggestionCreate:
		return "create"
	default:
		return "unknown"
	}
}

// Suggestion is one entry of the completion list
type Suggestion struct {
	Type        SuggestionType
	DisplayText string
	Link        Link
	MentionType MentionType
}

// Render returns the text shown in the completion list
func (s Suggestion) Render() string {
	if s.Type == SuggestionCreate {
		return fmt.Sprintf("Create %s: %s", s.MentionType.DisplayLabel(), s.DisplayText)
	}
	return s.DisplayText
}

// LinkText returns the wiki link inserted when the suggestion is chosen
func (s Suggestion) LinkText() string {
	return s.Link.LinkText()
}

// FilterLinks keeps the links whose name matches name. With matchStart the
// name must be a prefix, otherwise it may appear anywhere. Case is ignored.
func FilterLinks(links []Link, name string, matchStart bool) []Link {
	term := formatNameKey(name)
	matched := make([]Link, 0, len(links))
	for _, link := range links {
		key := formatNameKey(link.Name)
		if matchStart && !strings.HasPrefix(key, term) {
			continue
		}
		if !matchStart && !strings.Contains(key, term) {
			continue
		}
		matched = append(matched, link)
	}
	return matched
}

// BuildSuggestions turns matched links into a sorted suggestion list and
// appends the "create" entry for name
func BuildSuggestions(links []Link, mentionType MentionType, name string) []Suggestion {
	suggestions := make([]Suggestion, 0, len(links)+1)

	type seenKey struct{ path, text string }
	seen := make(map[seenKey]bool, len(links))

	for _, link := range links {
		key := seenKey{link.Path, link.DisplayText()}
		if seen[key] {
			continue
		}
		seen[key] = true

		suggestions = append(suggestions, Suggestion{
			Type:        SuggestionLink,
			DisplayText: link.DisplayText(),
			Link:        link,
			MentionType: mentionType,
		})
	}

	slices.SortFunc(suggestions, func(a, b Suggestion) int {
		return cmp.Or(
			cmp.Compare(a.DisplayText, b.DisplayText),
			cmp.Compare(a.Link.Path, b.Link.Path),
			cmp.Compare(a.Link.Kind, b.Link.Kind),
		)
	})

	if name != "" {
		suggestions = append(suggestions, NewCreateSuggestion(mentionType, name))
	}

	return suggestions
}

// NewCreateSuggestion builds the entry that creates a new document for name
func NewCreateSuggestion(mentionType MentionType, name string) Suggestion {
	return Suggestion{
		Type:        SuggestionCreate,
		DisplayText: name,
		Link: Link{
			Sign:     mentionType.Sign,
			Path:     mentionType.NotePath(name),
			Name:     name,
			FileName: mentionType.Sign + name,
			Kind:     LinkKindFilename,
		},
		MentionType: mentionType,
	}
}
