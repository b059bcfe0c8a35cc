package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"mentions/internal/application/commands"
)

var renameCmd = &cobra.Command{
	Use:   "rename <path> <new-name>",
	Short: "Rename a mention note",
	Long: `Rename a mention note in place. The note keeps its folder and sign.

Examples:
  mentions-cli rename "People/@John Smith.md" "John A. Smith"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt := GetRuntime()

		result, err := commands.NewRenameCommand(rt.Repo, rt.Service, rt.Service.Types(), args[0], args[1]).Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renameCmd)
}
