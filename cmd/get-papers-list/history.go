// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/get-papers-list/internal/report"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List runs recorded with --db, or print the papers of one run",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := viper.GetString("output.database")
		if path == "" {
			return fmt.Errorf("no database configured: pass --db")
		}
		sink, err := report.OpenSQLite(path)
		if err != nil {
			return err
		}
		defer sink.Close()

		runID, _ := cmd.Flags().GetInt64("run")
		if runID > 0 {
			name, _ := cmd.Flags().GetString("format")
			format, err := report.ParseFormat(name)
			if err != nil {
				return err
			}
			papers, err := sink.Papers(cmd.Context(), runID)
			if err != nil {
				return err
			}
			return report.Write(cmd.OutOrStdout(), format, papers)
		}

		runs, err := sink.Runs(cmd.Context())
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), warnStyle.Render("No runs recorded."))
			return nil
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "RUN\tWHEN\tPAPERS\tQUERY")
		for _, r := range runs {
			fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04"), r.Papers, r.Query)
		}
		return tw.Flush()
	},
}

func init() {
	historyCmd.Flags().Int64("run", 0, "print the papers recorded for this run id")
	historyCmd.Flags().String("format", "table", "output format for --run: csv, table, json or yaml")

	rootCmd.AddCommand(historyCmd)
}
