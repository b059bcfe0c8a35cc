package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"mentions/internal/adapters/editor"
	"mentions/internal/adapters/obsidian"
	"mentions/internal/adapters/tui"
	"mentions/internal/adapters/tui/views"
	"mentions/internal/bootstrap"
	"mentions/internal/config"
)

const pageSize = 10

func main() {
	vaultFlag := flag.String("vault", config.VaultPath(), "path to the vault")
	configFlag := flag.String("config", "", "settings file (default <vault>/"+config.FileName+")")
	logFlag := flag.String("log", "", "write debug logs to this file")
	printFlag := flag.Bool("print", true, "print the composed text on exit")
	flag.Parse()

	// The screen belongs to the TUI, so logs go to a file or nowhere
	var logOut io.Writer = io.Discard
	if *logFlag != "" {
		f, err := os.OpenFile(*logFlag, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	logger := bootstrap.NewLogger(logOut, *logFlag != "")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize adapters
	rt, err := bootstrap.Open(ctx, bootstrap.Options{
		VaultPath:    *vaultFlag,
		SettingsPath: *configFlag,
		Logger:       logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer rt.Close()

	opts := []tui.Option{
		tui.WithEditor(editor.NewOpener(rt.Settings.Editor)),
		tui.WithObsidian(obsidian.NewOpener(rt.VaultPath, obsidian.WithVaultName(rt.Settings.ObsidianVault))),
		tui.WithLogger(logger),
	}
	if w, err := rt.Watch(ctx); err != nil {
		logger.Warn("running without live updates", slog.Any("error", err))
	} else {
		opts = append(opts, tui.WithEvents(w))
	}

	// Create and run TUI app
	app := tui.NewApp(rt.Service, rt.Repo, views.CompletionSettings{
		MatchStart:     rt.Settings.MatchStart,
		MaxMatchLength: rt.Settings.MaxMatchLength,
		StopCharacters: rt.Settings.StopCharacters,
		PageSize:       pageSize,
	}, opts...)

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		rt.Close()
		os.Exit(1)
	}

	if *printFlag {
		if text := app.Text(); text != "" {
			fmt.Println(text)
		}
	}
}
