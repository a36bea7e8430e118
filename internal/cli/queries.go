package cli

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shenikar/fire_calls_analysis/internal/query"
	"github.com/spf13/cobra"
)

func newQueriesCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "queries",
		Short: "List available queries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t := table.New().
				Border(lipgloss.HiddenBorder()).
				Headers("NAME", "TITLE")
			for _, q := range query.All() {
				t.Row(q.Name, q.Title)
			}
			_, err := cmd.OutOrStdout().Write([]byte(t.String() + "\n"))
			return err
		},
	}
}
