package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"mentions/internal/application"
	"mentions/internal/application/commands"
	"mentions/internal/ports"
)

// RegisterWriteTools adds all vault-changing mention tools to the MCP server.
func RegisterWriteTools(s *server.MCPServer, store ports.DocumentStore, index Index) {
	s.AddTool(createTool(), createHandler(store, index))
	s.AddTool(renameTool(), renameHandler(store, index))
	s.AddTool(deleteTool(), deleteHandler(store, index))
}

// --- create ---

func createTool() mcp.Tool {
	return mcp.NewTool("create",
		mcp.WithDescription("Create a new mention note in its type's folder, from its template when one is configured. Returns the link to insert."),
		mcp.WithString("sign",
			mcp.Description("Mention sign (e.g. @)"),
			mcp.Required(),
		),
		mcp.WithString("name",
			mcp.Description("Name of the new note, without the sign"),
			mcp.Required(),
		),
	)
}

func createHandler(store ports.DocumentStore, index Index) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		mentionType, err := application.ValidateSign(req.GetString("sign", ""), index.Types())
		if err != nil {
			return toolError(err)
		}

		cmd := commands.NewCreateNoteCommand(store, index, mentionType, req.GetString("name", ""))
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		return mcp.NewToolResultText(result.Message + "\n" + result.Link.LinkText()), nil
	}
}

// --- rename ---

func renameTool() mcp.Tool {
	return mcp.NewTool("rename",
		mcp.WithDescription("Rename a mention note. The note keeps its folder and sign."),
		mcp.WithString("path",
			mcp.Description("Vault-relative path of the note"),
			mcp.Required(),
		),
		mcp.WithString("new_name",
			mcp.Description("New name, without the sign"),
			mcp.Required(),
		),
	)
}

func renameHandler(store ports.DocumentStore, index Index) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewRenameCommand(store, index, index.Types(),
			req.GetString("path", ""),
			req.GetString("new_name", ""))
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- delete ---

func deleteTool() mcp.Tool {
	return mcp.NewTool("delete",
		mcp.WithDescription("Delete a mention note from the vault."),
		mcp.WithString("path",
			mcp.Description("Vault-relative path of the note"),
			mcp.Required(),
		),
	)
}

func deleteHandler(store ports.DocumentStore, index Index) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewDeleteCommand(store, index, index.Types(), req.GetString("path", ""))
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		return mcp.NewToolResultText(result.Message), nil
	}
}
