package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/collate/journal"
)

var showCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "List recorded runs or show one run",
	Long: `Query the SQLite journal.

Without arguments every run is listed, newest first. With a run ID the
run and its points are printed as Org-mode.

Examples:
  collate show --db collate.sqlite
  collate show --db collate.sqlite 01HV5Z6E3J8Y... --series host-a`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

var (
	showDBPath string
	showSeries string
)

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().StringVarP(&showDBPath, "db", "d", "./collate.sqlite", "path to SQLite journal DB")
	showCmd.Flags().StringVarP(&showSeries, "series", "s", "", "only show this series")
}

func runShow(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(showDBPath); err != nil {
		return fmt.Errorf("open db: %w", err)
	}

	j, err := journal.NewSQLite(showDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		runs, err := j.ListRuns(ctx)
		if err != nil {
			return fmt.Errorf("list runs: %w", err)
		}
		if len(runs) == 0 {
			fmt.Fprintln(out, "no runs recorded")
			return nil
		}
		fmt.Fprint(out, journal.FormatRunsOrg(runs))
		return nil
	}

	run, err := j.GetRun(ctx, args[0])
	if err != nil {
		return fmt.Errorf("get run: %w", err)
	}
	pts, err := j.ListPoints(ctx, run.RunID, showSeries)
	if err != nil {
		return fmt.Errorf("list points: %w", err)
	}

	fmt.Fprint(out, journal.FormatRunOrg(run))
	fmt.Fprintln(out)
	fmt.Fprint(out, journal.FormatPointsOrg(pts))
	return nil
}
