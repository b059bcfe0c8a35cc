package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"mentions/internal/application/commands"
	"mentions/internal/domain"
	"mentions/internal/ports"
)

// Index is the live mention index the tools query and notify
type Index interface {
	ports.LinkLookup
	ports.ChangeNotifier
	Types() domain.MentionTypes
	Links(path string) []domain.Link
	Stats() domain.MapStats
	Verify() error
}

// Settings carries the completion options the tools apply
type Settings struct {
	MatchStart     bool
	MaxMatchLength int
	StopCharacters string
	Limit          int
}

// RegisterReadTools adds all read-only mention tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, index Index, settings Settings) {
	s.AddTool(suggestTool(), suggestHandler(index, settings))
	s.AddTool(completeTool(), completeHandler(index, settings))
	s.AddTool(lookupTool(), lookupHandler(index))
	s.AddTool(listTypesTool(), listTypesHandler(index))
	s.AddTool(listTool(), listHandler(index))
	s.AddTool(linksTool(), linksHandler(index))
	s.AddTool(statsTool(), statsHandler(index))
}

// --- suggest ---

func suggestTool() mcp.Tool {
	return mcp.NewTool("suggest",
		mcp.WithDescription("Suggest links for a mention query such as @Jo. The last entry offers to create a new note."),
		mcp.WithString("query",
			mcp.Description("Sign followed by the typed name (e.g. @Jo, +Alp)"),
			mcp.Required(),
		),
		mcp.WithBoolean("match_start",
			mcp.Description("Match names by prefix (true) or anywhere (false). Defaults to the vault setting."),
		),
	)
}

func suggestHandler(index Index, settings Settings) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewSuggestCommand(index, index.Types(),
			req.GetString("query", ""),
			req.GetBool("match_start", settings.MatchStart))
		cmd.Limit = settings.Limit

		suggestions, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return formatEntities(suggestions, formatSuggestion)
	}
}

// --- complete ---

func completeTool() mcp.Tool {
	return mcp.NewTool("complete",
		mcp.WithDescription("Detect the mention being typed at a cursor position in a line and return its suggestions."),
		mcp.WithString("line",
			mcp.Description("Text of the line being edited"),
			mcp.Required(),
		),
		mcp.WithNumber("ch",
			mcp.Description("Cursor column in characters. Defaults to the end of the line."),
		),
	)
}

func completeHandler(index Index, settings Settings) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		line := req.GetString("line", "")
		ch := req.GetInt("ch", len([]rune(line)))

		types := index.Types()
		trigger, ok := domain.FindTrigger(line, domain.Position{Ch: ch}, domain.TriggerSettings{
			Signs:          types.Signs(),
			MaxMatchLength: settings.MaxMatchLength,
			StopCharacters: settings.StopCharacters,
		})
		if !ok {
			return mcp.NewToolResultText("No mention at cursor."), nil
		}

		cmd := commands.NewSuggestCommand(index, types, trigger.Query, settings.MatchStart)
		cmd.Limit = settings.Limit
		suggestions, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "replace %d-%d  %s\n", trigger.Start.Ch, trigger.End.Ch, trigger.Query)
		for _, s := range suggestions {
			sb.WriteString(formatSuggestion(s))
			sb.WriteByte('\n')
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- lookup ---

func lookupTool() mcp.Tool {
	return mcp.NewTool("lookup",
		mcp.WithDescription("Find mention links by name under a sign. Matches filenames and aliases, ignoring case."),
		mcp.WithString("sign",
			mcp.Description("Mention sign (e.g. @)"),
			mcp.Required(),
		),
		mcp.WithString("name",
			mcp.Description("Name or name prefix. Omit to list everything under the sign."),
		),
		mcp.WithBoolean("contains",
			mcp.Description("Match the name anywhere instead of as a prefix"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of links to return"),
		),
	)
}

func lookupHandler(index Index) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewLookupCommand(index, index.Types(),
			req.GetString("sign", ""),
			req.GetString("name", ""))
		cmd.Contains = req.GetBool("contains", false)
		cmd.Limit = req.GetInt("limit", 0)

		links, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return formatEntities(links, formatLink)
	}
}

// --- list_types ---

func listTypesTool() mcp.Tool {
	return mcp.NewTool("list_types",
		mcp.WithDescription("List the configured mention types with their sign, label, folder and template."),
	)
}

func listTypesHandler(index Index) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		types, err := commands.NewListTypesCommand(index.Types()).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return formatEntities(types, formatMentionType)
	}
}

// --- list ---

func listTool() mcp.Tool {
	return mcp.NewTool("list",
		mcp.WithDescription("List mention documents. Without a sign lists every type."),
		mcp.WithString("sign",
			mcp.Description("Only list documents of this sign"),
		),
		mcp.WithBoolean("aliases",
			mcp.Description("Include alias links"),
		),
	)
}

func listHandler(index Index) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewListMentionsCommand(index, index.Types(), req.GetString("sign", ""))
		cmd.WithAliases = req.GetBool("aliases", false)

		links, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return formatEntities(links, formatLink)
	}
}

// --- links ---

func linksTool() mcp.Tool {
	return mcp.NewTool("links",
		mcp.WithDescription("Show every link recorded for a document."),
		mcp.WithString("path",
			mcp.Description("Vault-relative path (e.g. People/@John Smith.md)"),
			mcp.Required(),
		),
	)
}

func linksHandler(index Index) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path := domain.NormalizePath(req.GetString("path", ""))
		if path == "" {
			return toolError(fmt.Errorf("path is required"))
		}

		links := index.Links(path)
		commands.SortLinks(links)
		return formatEntities(links, formatLink)
	}
}

// --- stats ---

func statsTool() mcp.Tool {
	return mcp.NewTool("stats",
		mcp.WithDescription("Report index size and run a consistency check."),
	)
}

func statsHandler(index Index) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		stats := index.Stats()

		status := "ok"
		if err := index.Verify(); err != nil {
			status = err.Error()
		}

		return mcp.NewToolResultText(fmt.Sprintf(
			"signs: %d\npaths: %d\nlinks: %d\nnodes: %d\nconsistency: %s\n",
			stats.Signs, stats.Paths, stats.Links, stats.Nodes, status)), nil
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func formatEntities[T any](entities []T, format func(T) string) (*mcp.CallToolResult, error) {
	if len(entities) == 0 {
		return mcp.NewToolResultText("No results."), nil
	}
	var sb strings.Builder
	for _, e := range entities {
		sb.WriteString(format(e))
		sb.WriteByte('\n')
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func formatSuggestion(s domain.Suggestion) string {
	return fmt.Sprintf("%s  %s", s.Render(), s.LinkText())
}

func formatLink(l domain.Link) string {
	return fmt.Sprintf("%s  %s  %s", l.DisplayText(), l.LinkText(), l.Path)
}

func formatMentionType(t domain.MentionType) string {
	line := fmt.Sprintf("%s  %s", t.Sign, t.DisplayLabel())
	if t.Folder != "" {
		line += "  folder=" + t.Folder
	}
	if t.TemplatePath != "" {
		line += "  template=" + t.TemplatePath
	}
	return line
}
