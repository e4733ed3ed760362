// Package sheetflat flattens multi-sheet workbooks into one normalized table.
package sheetflat

import (
	"fmt"
	"log/slog"

	"github.com/ukaji3/sheetflat-go/pkg/sheetflat/align"
	"github.com/ukaji3/sheetflat-go/pkg/sheetflat/instruction"
	"github.com/ukaji3/sheetflat-go/pkg/sheetflat/merge"
	"github.com/ukaji3/sheetflat-go/pkg/sheetflat/parser"
)

// Options configures a flattening run.
type Options struct {
	// Instructions is the free-text instruction string, possibly empty.
	Instructions string
	// Interpreter extracts directives from Instructions.
	// If nil, instruction.PatternInterpreter is used.
	Interpreter instruction.Interpreter
	// MatchCutoff is the minimum similarity for fuzzy header matches.
	// If zero, align.DefaultCutoff is used.
	MatchCutoff float64
	// Blocks sets the minimum block shape. If zero, parser.DefaultBlockParams is used.
	Blocks parser.BlockParams
	// KeepPartial keeps the blocks processed before a fatal error in the
	// result table instead of returning an empty table.
	KeepPartial bool
	// SynonymSets enables synonym merging after flattening when non-empty.
	SynonymSets []merge.SynonymSet
	// Logger receives every trace step. If nil, slog.Default is used.
	Logger *slog.Logger
}

// DefaultOptions returns default flattening options.
func DefaultOptions() Options {
	return Options{
		Interpreter: instruction.PatternInterpreter{},
		MatchCutoff: align.DefaultCutoff,
		Blocks:      parser.DefaultBlockParams(),
	}
}

// withDefaults fills unset fields.
func (o Options) withDefaults() Options {
	if o.Interpreter == nil {
		o.Interpreter = instruction.PatternInterpreter{}
	}
	if o.MatchCutoff == 0 {
		o.MatchCutoff = align.DefaultCutoff
	}
	if o.Blocks == (parser.BlockParams{}) {
		o.Blocks = parser.DefaultBlockParams()
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Validate checks option ranges.
func (o Options) Validate() error {
	if o.MatchCutoff < 0 || o.MatchCutoff > 1 {
		return fmt.Errorf("match cutoff must be in [0, 1], got %v", o.MatchCutoff)
	}
	if o.Blocks.MinRows < 0 || o.Blocks.MinCols < 0 {
		return fmt.Errorf("block thresholds must not be negative")
	}
	return nil
}
