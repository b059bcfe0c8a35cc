package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mentions/internal/application"
	"mentions/internal/domain"
)

var (
	typeLabel    string
	typeFolder   string
	typeTemplate string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change the vault settings",
	Long: `Show or change the settings stored at the vault root.

Examples:
  mentions-cli config show
  mentions-cli config set-type + --label Project --folder Projects
  mentions-cli config remove-type +`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt := GetRuntime()

		data, err := json.MarshalIndent(rt.Settings, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s\n", rt.SettingsPath, data)
		return nil
	},
}

var configSetTypeCmd = &cobra.Command{
	Use:   "set-type <sign>",
	Short: "Add or update a mention type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt := GetRuntime()
		sign := args[0]

		settings := rt.Settings
		types := make(domain.MentionTypes, len(settings.MentionTypes)+1)
		for s, t := range settings.MentionTypes {
			types[s] = t
		}

		t := types[sign]
		if cmd.Flags().Changed("label") {
			t.Label = strings.TrimSpace(typeLabel)
		}
		if cmd.Flags().Changed("folder") {
			t.Folder = domain.NormalizePath(typeFolder)
		}
		if cmd.Flags().Changed("template") {
			t.TemplatePath = domain.NormalizePath(typeTemplate)
		}
		types[sign] = t
		settings.MentionTypes = types

		if err := rt.SaveSettings(cmd.Context(), settings); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved mention type %s (%s)\n", sign, t.DisplayLabel())
		return nil
	},
}

var configRemoveTypeCmd = &cobra.Command{
	Use:   "remove-type <sign>",
	Short: "Remove a mention type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt := GetRuntime()
		sign := args[0]

		settings := rt.Settings
		if _, ok := settings.MentionTypes[sign]; !ok {
			return fmt.Errorf("%w: %q", application.ErrInvalidSign, sign)
		}

		types := make(domain.MentionTypes, len(settings.MentionTypes))
		for s, t := range settings.MentionTypes {
			if s != sign {
				types[s] = t
			}
		}
		settings.MentionTypes = types

		if err := rt.SaveSettings(cmd.Context(), settings); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed mention type %s\n", sign)
		return nil
	},
}

func init() {
	configSetTypeCmd.Flags().StringVar(&typeLabel, "label", "", "label shown in create prompts")
	configSetTypeCmd.Flags().StringVar(&typeFolder, "folder", "", "folder new notes are created in")
	configSetTypeCmd.Flags().StringVar(&typeTemplate, "template", "", "template file for new notes")

	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetTypeCmd)
	configCmd.AddCommand(configRemoveTypeCmd)
}
