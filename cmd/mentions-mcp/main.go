package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	mcpadapter "mentions/internal/adapters/mcp"
	"mentions/internal/bootstrap"
	"mentions/internal/config"
)

func main() {
	vaultFlag := flag.String("vault", config.VaultPath(), "path to the vault")
	configFlag := flag.String("config", "", "settings file (default <vault>/"+config.FileName+")")
	watchFlag := flag.Bool("watch", true, "keep the index current while serving")
	limitFlag := flag.Int("limit", 50, "maximum matches per suggest or lookup call (0 for all)")
	verboseFlag := flag.Bool("verbose", false, "log debug output to stderr")
	flag.Parse()

	// stdout carries the protocol
	logger := bootstrap.NewLogger(os.Stderr, *verboseFlag)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap.Open(ctx, bootstrap.Options{
		VaultPath:    *vaultFlag,
		SettingsPath: *configFlag,
		Logger:       logger,
	})
	if err != nil {
		log.Fatalf("mentions-mcp: %v", err)
	}
	defer rt.Close()

	if *watchFlag {
		w, err := rt.Watch(ctx)
		if err != nil {
			logger.Warn("serving without live updates", slog.Any("error", err))
		} else {
			go rt.Service.Run(ctx, w)
		}
	}

	mcpServer := server.NewMCPServer(
		"mentions-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterReadTools(mcpServer, rt.Service, mcpadapter.Settings{
		MatchStart:     rt.Settings.MatchStart,
		MaxMatchLength: rt.Settings.MaxMatchLength,
		StopCharacters: rt.Settings.StopCharacters,
		Limit:          *limitFlag,
	})
	mcpadapter.RegisterWriteTools(mcpServer, rt.Repo, rt.Service)

	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Error("server stopped", slog.Any("error", err))
		rt.Close()
		os.Exit(1)
	}
}
