package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"

	"github.com/spf13/cobra"
)

func NewRootCmd(config *Config) *cobra.Command {
	root := &cobra.Command{
		Use:          "toon-benchmark",
		Short:        "Generate tabular data in sqlite, csv, json and toon and compare their load cost",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			SetLogLevel(config.LogLevel)
		},
	}
	root.PersistentFlags().StringVar(&config.Dir, "dir", config.Dir, "directory holding the data files")
	root.PersistentFlags().StringVar(&config.Stem, "stem", config.Stem, "common file name of the data files")
	root.PersistentFlags().StringVar(&config.LogLevel, "log-level", config.LogLevel, "log level")

	root.AddCommand(newGenerateCmd(config), newBenchCmd(config), newSearchCmd(config), newShowCmd(config))
	return root
}

func newGenerateCmd(config *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate fake people and export them in every format",
		RunE: func(cmd *cobra.Command, args []string) error {
			if config.Rows <= 0 {
				return fmt.Errorf("rows must be positive, got %v", config.Rows)
			}
			unlock, err := Lock(config.Dir, config.Stem)
			if err != nil {
				return err
			}
			defer unlock()

			step := max(1, config.Rows/10)
			dataset := Generate(config.Rows, config.Seed, func(done, total int) {
				if done%step == 0 || done == total {
					Logger.Infof("generated %v/%v rows", done, total)
				}
			})
			sizes, err := ExportAll(cmd.Context(), dataset, PeopleSchema, config.Dir, config.Stem)
			if err != nil {
				return err
			}
			for _, format := range Formats {
				fmt.Fprintf(cmd.OutOrStdout(), "%v\t%v\t%v\n", format, PathFor(config.Dir, config.Stem, format), HumanBytes(uint64(sizes[format])))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&config.Rows, "rows", config.Rows, "number of rows to generate")
	cmd.Flags().Int64Var(&config.Seed, "seed", config.Seed, "seed of the fake data generator")
	return cmd
}

func addBenchFlags(cmd *cobra.Command, config *Config) {
	cmd.Flags().IntVar(&config.Warmup, "warmup", config.Warmup, "unmeasured loads before each measured load")
	cmd.Flags().BoolVar(&config.ClearCaches, "clear-caches", config.ClearCaches, "drop page caches before each measured load")
	cmd.Flags().DurationVar(&config.LoadTimeout, "timeout", config.LoadTimeout, "timeout of a single load, 0 disables it")
	cmd.Flags().StringVar(&config.Probe, "probe", config.Probe, "memory probe: rss or heap")
}

func newBenchCmd(config *Config) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Load every format, measure it and rank the formats",
		RunE: func(cmd *cobra.Command, args []string) error {
			system := NewSystem(*config, NewComparison())
			report, _, err := system.Run(cmd.Context())
			if err != nil {
				return err
			}
			return report.Write(cmd.OutOrStdout(), output)
		},
	}
	addBenchFlags(cmd, config)
	cmd.Flags().IntVar(&config.Attempts, "attempts", config.Attempts, "measured loads per format")
	cmd.Flags().StringVar(&config.ResultsUrl, "results", config.ResultsUrl, "results database: sqlite file or libsql url")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "report format: text, json or yaml")
	return cmd
}

func newSearchCmd(config *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Search every loaded format for a case-insensitive substring",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			comparison := NewComparison()
			system := NewSystem(*config, comparison)
			unlock, err := Lock(config.Dir, config.Stem)
			if err != nil {
				return err
			}
			defer unlock()

			loaded := system.LoadAll(cmd.Context())
			if len(loaded.Datasets) == 0 {
				return fmt.Errorf("no format could be loaded from %v/%v", config.Dir, config.Stem)
			}
			results := SearchAll(loaded.Datasets, args[0])
			for _, format := range Formats {
				result, ok := results[format]
				if !ok {
					continue
				}
				shown := result
				if len(shown.Matches) > DisplayCap {
					shown.Matches = slices.Clone(shown.Matches[:DisplayCap])
				}
				if err := RenderMatches(cmd.OutOrStdout(), format, loaded.Datasets[format], shown); err != nil {
					return err
				}
			}
			return nil
		},
	}
	addBenchFlags(cmd, config)
	return cmd
}

func newShowCmd(config *Config) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "show FILE",
		Short: "Load a single file, print its measurement and its first rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := FormatFromPath(args[0])
			if err != nil {
				return err
			}
			system := NewSystem(*config, NewComparison())
			dataset, measurement, err := system.LoadFormat(cmd.Context(), format, args[0])
			if measurement == nil {
				return err
			}
			if err != nil {
				Logger.Warnf("%v", err)
			}
			fmt.Fprintf(
				cmd.OutOrStdout(), "%v: %v rows in %v, memory %v, size %v\n",
				format, measurement.Rows, measurement.Elapsed, HumanBytes(measurement.Memory), HumanBytes(uint64(measurement.FileSize)),
			)
			return RenderDataset(cmd.OutOrStdout(), dataset, min(limit, DisplayCap))
		},
	}
	addBenchFlags(cmd, config)
	cmd.Flags().IntVar(&limit, "limit", DisplayCap, "rows to print")
	return cmd
}

func main() {
	config, err := LoadConfig()
	if err != nil {
		Logger.Fatalf("failed to load config: %v", err)
	}
	SetLogLevel(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := NewRootCmd(&config).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
