package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/ukaji3/sheetflat-go/pkg/sheetflat"
	"github.com/ukaji3/sheetflat-go/pkg/sheetflat/output"
	"golang.org/x/sync/errgroup"
)

var errRunsFailed = errors.New("one or more inputs failed")

func runFlatten(cmd *cobra.Command, args []string) error {
	switch format {
	case "json", "csv", "xlsx":
	default:
		return fmt.Errorf("invalid format: %s (must be json, csv, or xlsx)", format)
	}
	if len(args) > 1 && outDir == "" {
		return fmt.Errorf("--out-dir is required with %d inputs", len(args))
	}
	if len(args) > 1 && outputPath != "" {
		return fmt.Errorf("--output accepts a single input; use --out-dir")
	}

	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if outDir != "" {
		if err := os.MkdirAll(outDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	results := make([]*sheetflat.Result, len(args))
	g := new(errgroup.Group)
	g.SetLimit(cfg.Engine.Workers)
	for i, path := range args {
		i, path := i, path
		g.Go(func() error {
			opts := engineOptions(cfg.Engine, logger.With(slog.String("input", path)))
			opts.Instructions = instructions
			res := sheetflat.FlattenFile(path, opts)
			results[i] = res
			return writeResult(cmd.OutOrStdout(), path, res)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var failed int
	for i, res := range results {
		if res.Failed() {
			failed++
			logger.Error("Flattening failed",
				slog.String("input", args[i]),
				slog.String("error", res.Err.Error()))
		}
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errRunsFailed, failed, len(args))
	}
	return nil
}

// writeResult writes res to its destination: --output, a file under
// --out-dir, or stdout.
func writeResult(stdout io.Writer, inputPath string, res *sheetflat.Result) error {
	var buf bytes.Buffer
	if err := encode(&buf, res); err != nil {
		return fmt.Errorf("serialization failed for %s: %w", inputPath, err)
	}

	dest := outputPath
	if outDir != "" {
		dest = filepath.Join(outDir, outputName(inputPath))
	}
	if dest == "" {
		_, err := stdout.Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(dest, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func encode(w io.Writer, res *sheetflat.Result) error {
	switch format {
	case "csv":
		return output.WriteCSV(w, res.Table)
	case "xlsx":
		return output.WriteXLSX(w, res.Table, output.DefaultSheetName)
	default:
		data, err := output.ToJSON(res, pretty)
		if err != nil {
			return err
		}
		data = append(data, '\n')
		_, err = w.Write(data)
		return err
	}
}

// outputName derives the output file name from the input path.
func outputName(inputPath string) string {
	base := filepath.Base(inputPath)
	return strings.TrimSuffix(base, filepath.Ext(base)) + "." + format
}
