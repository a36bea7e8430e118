package cli

import (
	"github.com/shenikar/fire_calls_analysis/internal/render"
	"github.com/shenikar/fire_calls_analysis/internal/session"
	"github.com/spf13/cobra"
)

func newRunCmd(a *app) *cobra.Command {
	var names []string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Load the table and run queries",
		Long: `Load the calls table, rename its columns and run the queries in order,
printing each table as soon as it is ready. JSON and YAML output is written
once, as a single array of results. Without --query all queries run.`,
		Example: `  firecalls run --file data/sf-fire-calls.csv
  firecalls run --query common-call-types --query weekly-calls --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd, names)
		},
	}

	cmd.Flags().StringSliceVarP(&names, "query", "q", nil, "Query to run, may be repeated (default: all)")
	cmd.Flags().StringP("format", "f", "", "Output format: table, json, yaml (OUTPUT_FORMAT)")
	cmd.Flags().IntP("limit", "n", 0, "Rows shown per result, 0 for all (ROW_LIMIT)")
	return cmd
}

func (a *app) run(cmd *cobra.Command, names []string) error {
	ctx := cmd.Context()

	renderer, err := render.New(a.cfg.OutputFormat, a.cfg.RowLimit)
	if err != nil {
		return err
	}

	sess, err := session.Open(ctx, a.cfg, a.log)
	if err != nil {
		return err
	}
	defer sess.Close()

	svc := sess.Service()
	if err := svc.Prepare(ctx); err != nil {
		return err
	}

	params := sess.Params()
	if !renderer.Streaming() {
		results, err := svc.RunAll(ctx, names, params)
		if err != nil {
			return err
		}
		return renderer.RenderAll(cmd.OutOrStdout(), results)
	}

	if len(names) == 0 {
		for _, q := range svc.Queries() {
			names = append(names, q.Name)
		}
	}
	for _, name := range names {
		result, err := svc.Run(ctx, name, params)
		if err != nil {
			return err
		}
		if err := renderer.Render(cmd.OutOrStdout(), result); err != nil {
			return err
		}
	}
	return nil
}
