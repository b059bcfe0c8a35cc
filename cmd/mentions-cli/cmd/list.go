package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"mentions/internal/application/commands"
)

var listAliases bool

var listCmd = &cobra.Command{
	Use:   "list [sign]",
	Short: "List mention notes",
	Long: `List the mention notes of one type, or of every type when no sign is
given. Aliases are listed with --aliases.

Examples:
  mentions-cli list
  mentions-cli list @ --aliases
  mentions-cli list types`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt := GetRuntime()

		sign := ""
		if len(args) == 1 {
			sign = args[0]
		}

		list := commands.NewListMentionsCommand(rt.Service, rt.Service.Types(), sign)
		list.WithAliases = listAliases

		links, err := list.Execute(cmd.Context())
		if err != nil {
			return err
		}

		for _, link := range links {
			fmt.Fprintf(cmd.OutOrStdout(), "%s%s\t%s\n", link.Sign, link.DisplayText(), link.Path)
		}
		return nil
	},
}

var listTypesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the configured mention types",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt := GetRuntime()

		types, err := commands.NewListTypesCommand(rt.Service.Types()).Execute(cmd.Context())
		if err != nil {
			return err
		}

		for _, t := range types {
			line := fmt.Sprintf("%s  %s", t.Sign, t.DisplayLabel())
			if t.Folder != "" {
				line += "  folder=" + t.Folder
			}
			if t.TemplatePath != "" {
				line += "  template=" + t.TemplatePath
			}
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVarP(&listAliases, "aliases", "a", false, "include aliases")
	rootCmd.AddCommand(listCmd)
	listCmd.AddCommand(listTypesCmd)
}
