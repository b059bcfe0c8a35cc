package commands

import (
	"context"
	"fmt"

	"mentions/internal/application"
	"mentions/internal/domain"
	"mentions/internal/ports"
)

// SuggestCommand turns a frozen trigger query into the completion list
type SuggestCommand struct {
	lookup     ports.LinkLookup
	types      domain.MentionTypes
	Query      string
	MatchStart bool
	Limit      int // caps the link suggestions, 0 means no cap
}

// NewSuggestCommand creates a new SuggestCommand
func NewSuggestCommand(lookup ports.LinkLookup, types domain.MentionTypes, query string, matchStart bool) *SuggestCommand {
	return &SuggestCommand{
		lookup:     lookup,
		types:      types,
		Query:      query,
		MatchStart: matchStart,
	}
}

// Validate checks if the suggest operation is valid
func (c *SuggestCommand) Validate() error {
	return application.ValidateRequired("query", c.Query)
}

// Execute runs the suggest command
func (c *SuggestCommand) Execute(ctx context.Context) ([]domain.Suggestion, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	sign, name, ok := domain.ResolveQuery(c.Query, c.types.Signs())
	if !ok {
		return nil, fmt.Errorf("%w: %q", application.ErrNoTrigger, c.Query)
	}
	mentionType, _ := c.types.Get(sign)

	var links []domain.Link
	if c.MatchStart {
		links = c.lookup.GetLinks(sign, name)
	} else {
		links = domain.FilterLinks(c.lookup.AllLinks(sign), name, false)
	}

	suggestions := domain.BuildSuggestions(links, mentionType, name)
	if c.Limit > 0 {
		suggestions = limitLinks(suggestions, c.Limit)
	}

	return suggestions, nil
}

// limitLinks keeps the first n link suggestions and any create suggestion
func limitLinks(suggestions []domain.Suggestion, n int) []domain.Suggestion {
	limited := make([]domain.Suggestion, 0, min(len(suggestions), n+1))
	kept := 0
	for _, s := range suggestions {
		if s.Type == domain.SuggestionLink {
			if kept == n {
				continue
			}
			kept++
		}
		limited = append(limited, s)
	}
	return limited
}
