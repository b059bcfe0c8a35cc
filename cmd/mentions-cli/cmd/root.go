package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mentions/internal/bootstrap"
	"mentions/internal/config"
)

var (
	vaultPath    string
	settingsPath string
	noCache      bool
	verbose      bool
	rt           *bootstrap.Runtime
)

var rootCmd = &cobra.Command{
	Use:   "mentions-cli",
	Short: "CLI for the mention index of a markdown vault",
	Long: `mentions-cli queries and maintains the mention index of an Obsidian vault.

A mention is a note whose file name starts with a configured sign, such as
"@John Smith.md". Its file name and frontmatter aliases become completions
for text typed after the sign.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		runtime, err := bootstrap.Open(cmd.Context(), bootstrap.Options{
			VaultPath:    vaultPath,
			SettingsPath: settingsPath,
			NoCache:      noCache,
			Logger:       bootstrap.NewLogger(os.Stderr, verbose),
		})
		if err != nil {
			return err
		}
		rt = runtime
		return nil
	},
}

// Execute runs the root command
func Execute() {
	err := rootCmd.Execute()
	closeRuntime()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&vaultPath, "vault", "v", config.VaultPath(), "path to the vault")
	rootCmd.PersistentFlags().StringVarP(&settingsPath, "config", "c", "", "settings file (default <vault>/"+config.FileName+")")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "read aliases from disk instead of the metadata cache")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "log debug output to stderr")
}

func closeRuntime() {
	if rt == nil {
		return
	}
	if err := rt.Close(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	rt = nil
}

// GetRuntime returns the initialized index
func GetRuntime() *bootstrap.Runtime {
	return rt
}
