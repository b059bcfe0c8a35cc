package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"mentions/internal/application/commands"
)

var (
	lookupContains bool
	lookupLimit    int
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <sign> [name]",
	Short: "Look up mention links by name",
	Long: `Look up the links of one mention type whose name starts with the given
text. An empty name lists every link of the type.

Examples:
  mentions-cli lookup @ john
  mentions-cli lookup --contains + alp`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt := GetRuntime()

		name := ""
		if len(args) == 2 {
			name = args[1]
		}

		lookup := commands.NewLookupCommand(rt.Service, rt.Service.Types(), args[0], name)
		lookup.Contains = lookupContains
		lookup.Limit = lookupLimit

		links, err := lookup.Execute(cmd.Context())
		if err != nil {
			return err
		}

		if len(links) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No results found")
			return nil
		}

		for _, link := range links {
			fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\t%s\t%s\n", link.Kind, link.DisplayText(), link.LinkText(), link.Path)
		}
		return nil
	},
}

func init() {
	lookupCmd.Flags().BoolVar(&lookupContains, "contains", false, "match the name anywhere instead of as a prefix")
	lookupCmd.Flags().IntVarP(&lookupLimit, "limit", "n", 0, "maximum number of results (0 for all)")
	rootCmd.AddCommand(lookupCmd)
}
