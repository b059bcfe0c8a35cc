package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"mentions/internal/application/commands"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <path>",
	Short: "Delete a mention note",
	Long: `Delete a mention note and drop its links from the index.

Warning: This operation cannot be undone.

Examples:
  mentions-cli delete "People/@John Smith.md"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt := GetRuntime()

		result, err := commands.NewDeleteCommand(rt.Repo, rt.Service, rt.Service.Types(), args[0]).Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
