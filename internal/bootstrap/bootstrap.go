// Package bootstrap wires the adapters of one vault into a running mention
// index. The binaries share it so they load settings and cache the same way.
package bootstrap

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"mentions/internal/adapters/filesystem"
	"mentions/internal/adapters/sqlite"
	"mentions/internal/adapters/watcher"
	"mentions/internal/application"
	"mentions/internal/config"
	"mentions/internal/ports"
)

// Options selects the vault a Runtime is built for
type Options struct {
	VaultPath    string
	SettingsPath string // "" uses the file at the vault root
	NoCache      bool   // read aliases straight from disk
	Logger       *slog.Logger
}

// Runtime holds the wired index of one vault
type Runtime struct {
	VaultPath    string
	SettingsPath string
	Settings     config.Settings
	Repo         *filesystem.Repository
	Service      *application.Service

	cache  *sqlite.Index
	logger *slog.Logger
}

// NewLogger returns the text logger the binaries write to w. verbose
// enables debug records.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Open loads the settings, opens the metadata cache and builds the mention
// index. Close releases the cache.
func Open(ctx context.Context, opts Options) (*Runtime, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	vaultPath := config.ExpandHome(opts.VaultPath)
	if vaultPath == "" {
		vaultPath = config.VaultPath()
	}

	settingsPath := opts.SettingsPath
	if settingsPath == "" {
		settingsPath = config.SettingsPath(vaultPath)
	}
	settingsPath = config.ExpandHome(settingsPath)

	settings, err := config.Load(settingsPath)
	if err != nil {
		return nil, err
	}
	if err := filesystem.ValidateIgnorePatterns(settings.Ignore); err != nil {
		return nil, err
	}

	rt := &Runtime{
		VaultPath:    vaultPath,
		SettingsPath: settingsPath,
		Settings:     settings,
		Repo:         filesystem.NewRepository(vaultPath, settings.Ignore...),
		logger:       logger,
	}

	var meta ports.MetadataSource = rt.Repo
	if !opts.NoCache {
		cache := sqlite.NewIndex(rt.Repo)
		if err := cache.Open(vaultPath); err != nil {
			logger.Warn("metadata cache unavailable, reading aliases from disk", slog.Any("error", err))
		} else {
			rt.cache = cache
			meta = cache
		}
	}

	rt.Service = application.NewService(rt.Repo, meta, settings.MentionTypes, application.WithLogger(logger))

	if _, err := rt.Service.Initialize(ctx); err != nil {
		rt.Close()
		return nil, fmt.Errorf("failed to build mention index: %w", err)
	}

	return rt, nil
}

// Watch starts a change feed over the vault. The feed runs until ctx ends
// and its events are not applied; pass it to Service.Run or a host that
// applies them itself.
func (r *Runtime) Watch(ctx context.Context) (*watcher.Watcher, error) {
	w, err := watcher.New(r.VaultPath,
		watcher.WithFilter(r.Repo.Tracked),
		watcher.WithIgnore(r.Repo.Ignored),
		watcher.WithLogger(r.logger),
	)
	if err != nil {
		return nil, err
	}

	go func() {
		if err := w.Run(ctx); err != nil && ctx.Err() == nil {
			r.logger.Error("vault watcher stopped", slog.Any("error", err))
		}
	}()

	return w, nil
}

// SaveSettings validates settings, writes them and rebuilds the index for
// the new mention types
func (r *Runtime) SaveSettings(ctx context.Context, settings config.Settings) error {
	if err := config.Save(r.SettingsPath, settings); err != nil {
		return err
	}
	if err := r.Service.UpdateTypes(ctx, settings.MentionTypes); err != nil {
		return err
	}
	r.Settings = settings
	return nil
}

// Close releases the metadata cache
func (r *Runtime) Close() error {
	if r.cache == nil {
		return nil
	}
	return r.cache.Close()
}
