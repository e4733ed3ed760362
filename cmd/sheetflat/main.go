// Package main provides the CLI entry point for sheetflat.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/ukaji3/sheetflat-go/internal/config"
	"github.com/ukaji3/sheetflat-go/internal/logging"
	"github.com/ukaji3/sheetflat-go/pkg/sheetflat"
	"github.com/ukaji3/sheetflat-go/pkg/sheetflat/merge"
)

var (
	instructions string
	outputPath   string
	outDir       string
	format       string
	pretty       bool
	keepPartial  bool
	synonyms     bool
	cutoff       float64
	workers      int
	logLevel     string
	envFile      string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sheetflat [input.xlsx...]",
		Short: "Flatten multi-sheet Excel workbooks into one table",
		Long: `sheetflat finds the data blocks on every sheet of a workbook, aligns
their headers and merges them into a single table. Output is JSON in
split orientation with a step-by-step trace, or CSV / XLSX.`,
		Args:          cobra.MinimumNArgs(1),
		RunE:          runFlatten,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&instructions, "instructions", "i", "", "Free-text instructions (ignore <sheet>, transpose, align <a> with <b>)")
	flags.StringVarP(&outputPath, "output", "o", "", "Output file path for a single input (default: stdout)")
	flags.StringVar(&outDir, "out-dir", "", "Directory for per-input output files")
	flags.StringVar(&format, "format", "json", "Output format: json, csv, xlsx")
	flags.BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	flags.BoolVar(&keepPartial, "keep-partial", false, "Keep rows merged before a fatal error")
	flags.BoolVar(&synonyms, "synonyms", false, "Merge columns whose labels are known synonyms")
	flags.Float64Var(&cutoff, "cutoff", 0, "Fuzzy header match cutoff in (0, 1] (default from SHEETFLAT_ENGINE_MATCH_CUTOFF)")
	flags.IntVar(&workers, "workers", 0, "Inputs flattened concurrently (default from SHEETFLAT_ENGINE_WORKERS)")

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Optional dotenv file")

	rootCmd.AddCommand(newServeCmd())
	return rootCmd
}

// loadConfig reads configuration and applies flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, nil, err
	}

	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
	if f := cmd.Flags().Lookup("cutoff"); f != nil && f.Changed {
		cfg.Engine.MatchCutoff = cutoff
	}
	if f := cmd.Flags().Lookup("workers"); f != nil && f.Changed {
		cfg.Engine.Workers = workers
	}
	if f := cmd.Flags().Lookup("keep-partial"); f != nil && f.Changed {
		cfg.Engine.KeepPartial = keepPartial
	}
	if f := cmd.Flags().Lookup("synonyms"); f != nil && f.Changed {
		cfg.Engine.Synonyms = synonyms
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid flags: %w", err)
	}

	logger := logging.New(cfg.Logging)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

// engineOptions builds flattening options from engine settings.
func engineOptions(cfg config.EngineConfig, logger *slog.Logger) sheetflat.Options {
	opts := sheetflat.DefaultOptions()
	opts.MatchCutoff = cfg.MatchCutoff
	opts.KeepPartial = cfg.KeepPartial
	if cfg.Synonyms {
		opts.SynonymSets = merge.DefaultSynonyms
	}
	opts.Logger = logger
	return opts
}
