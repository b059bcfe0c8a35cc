package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"mentions/internal/application/commands"
	"mentions/internal/domain"
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Display the mention index",
	Long: `Display every mention type with its notes and their aliases.

Example:
  mentions-cli tree`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt := GetRuntime()
		types := rt.Service.Types()

		for _, sign := range types.Signs() {
			mentionType, _ := types.Get(sign)

			list := commands.NewListMentionsCommand(rt.Service, types, sign)
			list.WithAliases = true
			links, err := list.Execute(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d links)\n", sign, mentionType.DisplayLabel(), len(links))
			printTree(cmd.OutOrStdout(), links)
		}
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index statistics and check its consistency",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt := GetRuntime()
		stats := rt.Service.Stats()

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "signs: %d\npaths: %d\nlinks: %d\nnodes: %d\n", stats.Signs, stats.Paths, stats.Links, stats.Nodes)

		if err := rt.Service.Verify(); err != nil {
			fmt.Fprintf(out, "consistency: %v\n", err)
			return err
		}
		fmt.Fprintln(out, "consistency: ok")
		return nil
	},
}

// printTree prints each note with its aliases indented below it
func printTree(w io.Writer, links []domain.Link) {
	aliases := make(map[string][]domain.Link)
	var notes []domain.Link
	for _, link := range links {
		if link.Kind == domain.LinkKindAlias {
			aliases[link.Path] = append(aliases[link.Path], link)
			continue
		}
		notes = append(notes, link)
	}

	for _, note := range notes {
		fmt.Fprintf(w, "  %s  %s\n", note.Name, note.Path)
		for _, alias := range aliases[note.Path] {
			fmt.Fprintf(w, "    %s\n", alias.Name)
		}
	}
}

func init() {
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(statsCmd)
}
