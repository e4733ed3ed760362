package sheetflat

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ukaji3/sheetflat-go/pkg/sheetflat/align"
	"github.com/ukaji3/sheetflat-go/pkg/sheetflat/instruction"
	"github.com/ukaji3/sheetflat-go/pkg/sheetflat/merge"
	"github.com/ukaji3/sheetflat-go/pkg/sheetflat/models"
	"github.com/ukaji3/sheetflat-go/pkg/sheetflat/normalize"
	"github.com/ukaji3/sheetflat-go/pkg/sheetflat/parser"
	"github.com/ukaji3/sheetflat-go/pkg/sheetflat/trace"
)

// Result is the outcome of one flattening run. It is returned even when the
// run fails, in which case Err is set and Table is empty unless partial
// results were requested.
type Result struct {
	// RunID identifies the run in logs.
	RunID string `json:"run_id"`
	// Steps is the ordered trace of the run.
	Steps []models.Step `json:"steps"`
	// Table is the flattened dataset.
	Table models.Table `json:"table"`
	// Blocks describes every block merged into Table.
	Blocks []models.BlockSummary `json:"blocks,omitempty"`
	// Alignments records how each align directive resolved.
	Alignments []align.Alignment `json:"alignments,omitempty"`
	// Synonyms records the columns folded by synonym merging.
	Synonyms []merge.SynonymMerge `json:"synonyms,omitempty"`
	// Partial reports that Table holds the work done before a fatal error.
	Partial bool `json:"partial,omitempty"`
	// Err is the fatal error that stopped the run, if any.
	Err error `json:"-"`
	// Duration is the wall time of the run.
	Duration time.Duration `json:"-"`
}

// Failed reports whether the run stopped on a fatal error.
func (r *Result) Failed() bool {
	return r.Err != nil
}

// Flatten decodes workbook bytes and flattens every sheet into one table.
func Flatten(data []byte, opts Options) *Result {
	return run(opts, func() (*models.Workbook, error) {
		return parser.LoadWorkbook(data)
	})
}

// FlattenFile flattens the workbook stored at path.
func FlattenFile(path string, opts Options) *Result {
	return run(opts, func() (*models.Workbook, error) {
		return parser.LoadFile(path)
	})
}

// FlattenWorkbook flattens an already decoded workbook.
func FlattenWorkbook(wb *models.Workbook, opts Options) *Result {
	return run(opts, func() (*models.Workbook, error) {
		if wb == nil {
			return nil, errors.New("nil workbook")
		}
		return wb, nil
	})
}

// runner holds the state of a single run.
type runner struct {
	opts   Options
	logger *slog.Logger
	rec    *trace.Recorder
	dirs   instruction.Directives
	sheet  string

	blocks     []models.NormalizedBlock
	summaries  []models.BlockSummary
	alignments []align.Alignment
	synonyms   []merge.SynonymMerge
	table      models.Table
	partial    bool
	kept       []int
	err        error
}

func run(opts Options, load func() (*models.Workbook, error)) (res *Result) {
	start := time.Now()
	opts = opts.withDefaults()
	runID := uuid.NewString()
	logger := opts.Logger.With(slog.String("run_id", runID))

	r := &runner{
		opts:   opts,
		logger: logger,
		rec:    trace.NewRecorder(logger),
	}

	defer func() {
		if p := recover(); p != nil {
			r.fail(NewProcessingError(r.sheet, "panic", fmt.Errorf("%v", p)))
		}
		res = r.result(runID, time.Since(start))
		logger.Info("flatten run finished",
			slog.Int("steps", len(res.Steps)),
			slog.Int("blocks", len(res.Blocks)),
			slog.Int("rows", len(res.Table.Rows)),
			slog.Int("columns", len(res.Table.Columns)),
			slog.Bool("failed", res.Failed()),
			slog.Duration("duration", res.Duration))
	}()

	if err := r.execute(load); err != nil {
		r.fail(err)
	}
	return nil
}

func (r *runner) execute(load func() (*models.Workbook, error)) error {
	r.dirs = r.opts.Interpreter.Interpret(r.opts.Instructions)
	if r.opts.Instructions != "" {
		r.rec.Success("Initialization", "Received instructions: %s", r.opts.Instructions)
	} else {
		r.rec.Success("Initialization", "No instructions provided.")
	}

	if err := r.opts.Validate(); err != nil {
		return NewProcessingError("", "options", err)
	}

	wb, err := load()
	if err != nil {
		return NewProcessingError("", "load", err)
	}

	names := wb.SheetNames()
	r.rec.Success("Sheet Identification", "Detected %d sheets: %s", len(names), strings.Join(names, ", "))

	for _, sheet := range wb.Sheets {
		if err := r.processSheet(sheet); err != nil {
			return err
		}
	}
	r.sheet = ""

	return r.finish()
}

func (r *runner) processSheet(sheet models.Sheet) error {
	r.sheet = sheet.Name
	step := "Processing Sheet: " + sheet.Name
	if r.dirs.Skips(sheet.Name) {
		r.rec.Warn(step, "Skipping based on user instructions.")
		return nil
	}
	r.rec.Success(step, "Starting analysis...")

	scan := parser.StripMetadata(sheet.Rows)
	switch {
	case scan.Stripped > 0:
		r.rec.Success("Metadata - "+sheet.Name, "Found potential metadata in first %d rows.", scan.Stripped)
	case !scan.Found && len(scan.Values) > 0:
		r.rec.Warn("Metadata - "+sheet.Name, "No row holds 2 or more values; treating the whole sheet as data.")
	}

	seg := parser.SegmentBlocks(sheet.Name, sheet.Rows, scan.DataStart, r.opts.Blocks)
	if len(seg.Blocks) > 0 {
		r.rec.Success("Block Detection - "+sheet.Name, "Found %d potential data blocks.", len(seg.Blocks))
	}
	for _, b := range seg.Rejected {
		rows, cols := b.Shape()
		r.rec.Warn("Block Detection - "+sheet.Name, "Discarded %d x %d region at %s: below the %d x %d minimum.",
			rows, cols, b.Ref, r.opts.Blocks.MinRows, r.opts.Blocks.MinCols)
	}

	for _, b := range seg.Blocks {
		if err := r.processBlock(b); err != nil {
			return err
		}
	}
	return nil
}

func (r *runner) processBlock(b models.Block) error {
	step := fmt.Sprintf("Block Analysis - %s - Block %d", b.Sheet, b.Index)
	rows, cols := b.Shape()
	r.rec.Success(step, "Dimensions: (%d, %d). Detecting orientation...", rows, cols)

	nb, err := normalize.Normalize(b, r.dirs.Transpose())
	if r.dirs.Transpose() {
		r.rec.Success("Orientation", "Transposed block based on instructions.")
	}
	if errors.Is(err, normalize.ErrNoHeaders) {
		r.rec.Warn(step, "Header row has no labels; block dropped.")
		return nil
	}
	if err != nil {
		return NewProcessingError(b.Sheet, "normalize", err)
	}
	r.rec.Success("Normalization", "Block %d of %s has %d rows x %d columns: %q",
		b.Index, b.Sheet, len(nb.Rows), len(nb.Headers), nb.Headers)

	nb.Roles = normalize.Classify(nb)
	dimensions, metrics := normalize.SplitRoles(nb.Headers, nb.Roles)
	r.rec.Success("Column Analysis", "Dimensions: %q, Metrics: %q", dimensions, metrics)

	r.blocks = append(r.blocks, nb)
	r.summaries = append(r.summaries, models.BlockSummary{
		Sheet:      nb.Sheet,
		Index:      nb.Index,
		Ref:        b.Ref,
		Rows:       len(nb.Rows),
		Transposed: nb.Transposed,
		Columns:    normalize.Profile(nb),
	})
	return nil
}

func (r *runner) finish() error {
	if len(r.blocks) == 0 {
		r.rec.Warn("Flattening", "No valid data blocks found.")
		return nil
	}
	r.rec.Success("Flattening", "Merging %d detected blocks.", len(r.blocks))

	table, err := r.merge()
	if err != nil {
		return err
	}
	r.table = table
	r.rec.Success("Flattening", "Merge complete: %d rows x %d columns.", len(table.Rows), len(table.Columns))
	return nil
}

// merge aligns the collected blocks and unions them.
func (r *runner) merge() (models.Table, error) {
	hm, alignments := align.Build(r.blocks, r.dirs.Align(), r.opts.MatchCutoff)
	r.alignments = alignments
	for _, a := range alignments {
		if a.Resolved {
			r.rec.Success("Header Alignment", "Mapped '%s' to '%s' based on instructions.", a.MatchedSource, a.MatchedTarget)
		} else {
			r.rec.Warn("Header Alignment", "Could not match '%s' and '%s' to discovered headers.", a.Source, a.Target)
		}
	}

	table, err := merge.Flatten(hm.Apply(r.blocks))
	if err != nil {
		var dup *merge.DuplicateLabelError
		if errors.As(err, &dup) {
			return models.Table{}, NewProcessingError(dup.Sheet, "flatten", err)
		}
		return models.Table{}, NewProcessingError("", "flatten", err)
	}

	if len(r.opts.SynonymSets) > 0 {
		var merges []merge.SynonymMerge
		table, merges = merge.ApplySynonyms(table, r.opts.SynonymSets)
		r.synonyms = merges
		for _, m := range merges {
			r.rec.Success("Synonym Alignment", "Merged '%s' into '%s'.", m.From, m.Into)
		}
		if len(merges) == 0 {
			r.rec.Success("Synonym Alignment", "No synonym columns to merge.")
		}
	}

	return table, nil
}

// fail records a fatal error and discards the table. With KeepPartial the
// blocks that still merge cleanly are kept instead.
func (r *runner) fail(err error) {
	r.err = err
	r.table = models.Table{}
	r.partial = false
	r.rec.Error("Error", "%s", err.Error())

	if !r.opts.KeepPartial || len(r.blocks) == 0 {
		return
	}
	if table, kept, ok := r.partialTable(); ok {
		r.table = table
		r.partial = true
		r.kept = kept
		r.rec.Warn("Partial Result", "Kept %d rows from %d of %d blocks processed before the error.",
			len(table.Rows), len(kept), len(r.blocks))
	}
}

// partialTable merges the processed blocks, leaving out any block whose
// aligned labels collide. It returns the indices of the blocks it kept.
func (r *runner) partialTable() (table models.Table, kept []int, ok bool) {
	defer func() {
		if p := recover(); p != nil {
			table, kept, ok = models.Table{}, nil, false
		}
	}()

	hm, _ := align.Build(r.blocks, r.dirs.Align(), r.opts.MatchCutoff)
	var blocks []models.NormalizedBlock
	for i, b := range hm.Apply(r.blocks) {
		if _, dup := merge.DuplicateLabel(b.Headers); dup {
			continue
		}
		blocks = append(blocks, b)
		kept = append(kept, i)
	}
	if len(blocks) == 0 {
		return models.Table{}, nil, false
	}

	table, err := merge.Flatten(blocks)
	if err != nil {
		return models.Table{}, nil, false
	}
	if len(r.opts.SynonymSets) > 0 {
		table, _ = merge.ApplySynonyms(table, r.opts.SynonymSets)
	}
	return table, kept, true
}

func (r *runner) result(runID string, elapsed time.Duration) *Result {
	res := &Result{
		RunID:      runID,
		Steps:      r.rec.Steps(),
		Table:      r.table,
		Alignments: r.alignments,
		Synonyms:   r.synonyms,
		Partial:    r.partial,
		Err:        r.err,
		Duration:   elapsed,
	}
	switch {
	case r.err == nil:
		res.Blocks = r.summaries
	case r.partial:
		for _, i := range r.kept {
			res.Blocks = append(res.Blocks, r.summaries[i])
		}
	}
	return res
}
