package commands

import (
	"context"

	"mentions/internal/application"
	"mentions/internal/domain"
	"mentions/internal/ports"
)

// ListTypesCommand lists the configured mention types
type ListTypesCommand struct {
	types domain.MentionTypes
}

// NewListTypesCommand creates a new ListTypesCommand
func NewListTypesCommand(types domain.MentionTypes) *ListTypesCommand {
	return &ListTypesCommand{types: types}
}

// Execute runs the list types command
func (c *ListTypesCommand) Execute(ctx context.Context) ([]domain.MentionType, error) {
	signs := c.types.Signs()
	types := make([]domain.MentionType, 0, len(signs))
	for _, sign := range signs {
		mt, _ := c.types.Get(sign)
		types = append(types, mt)
	}
	return types, nil
}

// ListMentionsCommand lists the mention documents of one sign, or of all
// signs when Sign is empty. Aliases are included when WithAliases is set.
type ListMentionsCommand struct {
	lookup      ports.LinkLookup
	types       domain.MentionTypes
	Sign        string
	WithAliases bool
}

// NewListMentionsCommand creates a new ListMentionsCommand
func NewListMentionsCommand(lookup ports.LinkLookup, types domain.MentionTypes, sign string) *ListMentionsCommand {
	return &ListMentionsCommand{
		lookup: lookup,
		types:  types,
		Sign:   sign,
	}
}

// Execute runs the list mentions command
func (c *ListMentionsCommand) Execute(ctx context.Context) ([]domain.Link, error) {
	signs := c.types.Signs()
	if c.Sign != "" {
		if _, err := application.ValidateSign(c.Sign, c.types); err != nil {
			return nil, err
		}
		signs = []string{c.Sign}
	}

	var links []domain.Link
	for _, sign := range signs {
		for _, link := range c.lookup.AllLinks(sign) {
			if link.Kind == domain.LinkKindAlias && !c.WithAliases {
				continue
			}
			links = append(links, link)
		}
	}

	SortLinks(links)
	return links, nil
}
