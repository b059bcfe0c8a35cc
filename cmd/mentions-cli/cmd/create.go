package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"mentions/internal/application"
	"mentions/internal/application/commands"
)

var createCmd = &cobra.Command{
	Use:   "create <sign> <name>",
	Short: "Create a mention note",
	Long: `Create the note a new mention links to.

The note is written to the folder configured for the sign, from its
template when one is set, and the link to insert is printed.

Examples:
  mentions-cli create @ "John Smith"
  mentions-cli create + "Project Alpha"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt := GetRuntime()

		mentionType, ok := rt.Service.Types().Get(args[0])
		if !ok {
			return fmt.Errorf("%w: %q", application.ErrInvalidSign, args[0])
		}

		result, err := commands.NewCreateNoteCommand(rt.Repo, rt.Service, mentionType, args[1]).Execute(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		fmt.Fprintln(cmd.OutOrStdout(), result.Link.LinkText())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(createCmd)
}
