package cmd

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"mentions/internal/application/commands"
	"mentions/internal/domain"
)

var (
	suggestContains bool
	suggestLimit    int
	completeCh      int
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <query>",
	Short: "List completions for a mention query",
	Long: `List the completions offered for a query typed after a sign.

The last line is the entry that creates a new note for the query.

Examples:
  mentions-cli suggest @jo
  mentions-cli suggest --contains "@smi"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt := GetRuntime()

		suggest := commands.NewSuggestCommand(rt.Service, rt.Service.Types(), args[0], rt.Settings.MatchStart)
		if cmd.Flags().Changed("contains") {
			suggest.MatchStart = !suggestContains
		}
		suggest.Limit = suggestLimit

		suggestions, err := suggest.Execute(cmd.Context())
		if err != nil {
			return err
		}

		printSuggestions(cmd.OutOrStdout(), suggestions)
		return nil
	},
}

var completeCmd = &cobra.Command{
	Use:   "complete <line>",
	Short: "Find the mention being typed in a line and list its completions",
	Long: `Run the trigger engine on a line of text. The cursor defaults to the
end of the line; --ch moves it to a rune column.

Prints the replaced column range followed by the completions.

Examples:
  mentions-cli complete "met @jo"
  mentions-cli complete --ch 7 "met @jo today"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt := GetRuntime()
		line := args[0]

		ch := utf8.RuneCountInString(line)
		if cmd.Flags().Changed("ch") {
			ch = completeCh
		}

		settings := rt.Settings.TriggerSettings()
		settings.Signs = rt.Service.Types().Signs()

		trigger, ok := domain.FindTrigger(line, domain.Position{Ch: ch}, settings)
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "No mention at cursor")
			return nil
		}

		suggest := commands.NewSuggestCommand(rt.Service, rt.Service.Types(), trigger.Query, rt.Settings.MatchStart)
		suggest.Limit = suggestLimit
		suggestions, err := suggest.Execute(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "replace %d-%d\n", trigger.Start.Ch, trigger.End.Ch)
		printSuggestions(cmd.OutOrStdout(), suggestions)
		return nil
	},
}

func printSuggestions(w io.Writer, suggestions []domain.Suggestion) {
	for _, s := range suggestions {
		fmt.Fprintf(w, "%s\t%s\n", s.Render(), s.LinkText())
	}
}

func init() {
	suggestCmd.Flags().BoolVar(&suggestContains, "contains", false, "match the name anywhere instead of as a prefix")
	suggestCmd.Flags().IntVarP(&suggestLimit, "limit", "n", 0, "maximum number of matches (0 for all)")
	completeCmd.Flags().IntVar(&completeCh, "ch", 0, "cursor column in runes")
	completeCmd.Flags().IntVarP(&suggestLimit, "limit", "n", 0, "maximum number of matches (0 for all)")

	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(completeCmd)
}
