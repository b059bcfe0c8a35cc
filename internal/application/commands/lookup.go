package commands

import (
	"cmp"
	"context"
	"slices"

	"mentions/internal/application"
	"mentions/internal/domain"
	"mentions/internal/ports"
)

// LookupCommand lists the links of one sign matching a name
type LookupCommand struct {
	lookup   ports.LinkLookup
	types    domain.MentionTypes
	Sign     string
	Name     string
	Contains bool // substring instead of prefix match
	Limit    int
}

// NewLookupCommand creates a new LookupCommand
func NewLookupCommand(lookup ports.LinkLookup, types domain.MentionTypes, sign, name string) *LookupCommand {
	return &LookupCommand{
		lookup: lookup,
		types:  types,
		Sign:   sign,
		Name:   name,
	}
}

// Execute runs the lookup command and returns links sorted by name
func (c *LookupCommand) Execute(ctx context.Context) ([]domain.Link, error) {
	if err := application.ValidateRequired("sign", c.Sign); err != nil {
		return nil, err
	}
	if _, err := application.ValidateSign(c.Sign, c.types); err != nil {
		return nil, err
	}

	var links []domain.Link
	if c.Contains {
		links = domain.FilterLinks(c.lookup.AllLinks(c.Sign), c.Name, false)
	} else {
		links = c.lookup.GetLinks(c.Sign, c.Name)
	}

	SortLinks(links)

	if c.Limit > 0 && len(links) > c.Limit {
		links = links[:c.Limit]
	}

	return links, nil
}

// SortLinks orders links by sign, display text, path and kind
func SortLinks(links []domain.Link) {
	slices.SortFunc(links, func(a, b domain.Link) int {
		return cmp.Or(
			cmp.Compare(a.Sign, b.Sign),
			cmp.Compare(a.DisplayText(), b.DisplayText()),
			cmp.Compare(a.Path, b.Path),
			cmp.Compare(a.Kind, b.Kind),
		)
	})
}
