package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/collate/config"
	"github.com/rustyeddy/collate/dataset"
	"github.com/rustyeddy/collate/internal/logger"
	"github.com/rustyeddy/collate/journal"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Build a dataset from a config file",
	Long: `Build every series of the dataset described by a configuration file
and record the result in the configured journal.

Example:
  collate run -f cpu.yaml`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

var (
	runConfigPath string
	runPrint      bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to config file (YAML or JSON) (required)")
	runCmd.Flags().BoolVarP(&runPrint, "print", "p", false, "print the collated points")
	_ = runCmd.MarkFlagRequired("config")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(runConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	spec, err := cfg.Spec()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	ds, err := dataset.NewBuilder(dataset.WithLogger(log)).Build(ctx, spec)
	if err != nil {
		return fmt.Errorf("build %s: %w", spec.Name, err)
	}

	j, err := cfg.Journal.Open()
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	if j != nil {
		defer j.Close()
		if err := j.RecordDataset(ctx, ds); err != nil {
			return fmt.Errorf("record run %s: %w", ds.RunID, err)
		}
		log.Info("run recorded", zap.String("run_id", ds.RunID), zap.String("journal", cfg.Journal.Type))
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %s: dataset %s (%s every %s)\n",
		ds.RunID, ds.Name, ds.Options.Policy, ds.Options.Granularity)
	for _, s := range ds.Series {
		fmt.Fprintf(out, "  %-20s %6d points\n", s.Name, s.Len())
	}

	if runPrint {
		var pts []journal.PointRecord
		for _, s := range ds.Series {
			for _, p := range s.Points() {
				pts = append(pts, journal.PointRecord{RunID: ds.RunID, Series: s.Name, Time: p.Time, Value: p.Value})
			}
		}
		fmt.Fprintln(out)
		fmt.Fprint(out, journal.FormatPointsOrg(pts))
	}
	return nil
}
