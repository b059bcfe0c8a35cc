package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/tailscale/hujson"

	"mentions/internal/domain"
)

const (
	DefaultVaultPath = "~/Documents/vault"

	// FileName is the settings file kept at the vault root
	FileName = ".mentions.json"
)

var (
	errConfigFileRead = errors.New("cannot read config file")
	errConfigInvalid  = errors.New("invalid config file")
	errInvalidSetting = errors.New("invalid setting")
)

// VaultPath returns the vault path from MENTIONS_VAULT env var,
// falling back to DefaultVaultPath. A leading ~ is expanded.
func VaultPath() string {
	if env := os.Getenv("MENTIONS_VAULT"); env != "" {
		return ExpandHome(env)
	}
	return ExpandHome(DefaultVaultPath)
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// SettingsPath returns the default settings file for a vault
func SettingsPath(vaultPath string) string {
	return filepath.Join(vaultPath, FileName)
}

// Settings is the persisted configuration blob
type Settings struct {
	MentionTypes   domain.MentionTypes `json:"mentionTypes"`
	MatchStart     bool                `json:"matchStart"`
	MaxMatchLength int                 `json:"maxMatchLength"`
	StopCharacters string              `json:"stopCharacters"`

	// Ignore holds doublestar patterns of vault paths left out of the index
	Ignore []string `json:"ignore,omitempty"`
	// Editor overrides $EDITOR for opening notes
	Editor string `json:"editor,omitempty"`
	// ObsidianVault is the vault name Obsidian knows, when not the folder name
	ObsidianVault string `json:"obsidianVault,omitempty"`
}

// DefaultSettings returns the settings used when nothing is stored
func DefaultSettings() Settings {
	return Settings{
		MentionTypes:   domain.MentionTypes{"@": {}},
		MatchStart:     true,
		MaxMatchLength: domain.DefaultMaxMatchLength,
		StopCharacters: domain.DefaultStopCharacters,
	}
}

// TriggerSettings returns the trigger engine view of the settings
func (s Settings) TriggerSettings() domain.TriggerSettings {
	return domain.TriggerSettings{
		Signs:          s.MentionTypes.Signs(),
		MaxMatchLength: s.MaxMatchLength,
		StopCharacters: s.StopCharacters,
	}
}

// Validate rejects settings the index cannot run with
func (s Settings) Validate() error {
	if err := domain.ValidateMentionTypes(s.MentionTypes); err != nil {
		return fmt.Errorf("%w: mentionTypes: %w", errInvalidSetting, err)
	}
	if s.MaxMatchLength < 0 {
		return fmt.Errorf("%w: maxMatchLength must not be negative", errInvalidSetting)
	}
	return nil
}

// Load reads the settings file at path and merges it over the defaults.
// A missing file yields the defaults.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultSettings(), nil
		}
		return Settings{}, fmt.Errorf("%w: %s: %w", errConfigFileRead, path, err)
	}

	settings, err := Parse(data)
	if err != nil {
		return Settings{}, fmt.Errorf("%w %s: %w", errConfigInvalid, path, err)
	}

	return settings, nil
}

// Parse decodes a JSONC settings blob over the defaults. Stored mention
// types replace the default set rather than extending it.
func Parse(data []byte) (Settings, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Settings{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	settings := DefaultSettings()
	settings.MentionTypes = nil

	if err := json.Unmarshal(standardized, &settings); err != nil {
		return Settings{}, fmt.Errorf("invalid JSON: %w", err)
	}

	if settings.MentionTypes == nil {
		settings.MentionTypes = DefaultSettings().MentionTypes
	}

	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}

	return settings, nil
}

// Save validates settings and writes them to path atomically
func Save(path string, settings Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}

	return nil
}
