// Package instruction extracts processing directives from a free-text
// instruction string.
package instruction

import (
	"regexp"
	"strings"
)

// alignPattern matches "align <source> with|to <target>", terms optionally quoted.
var alignPattern = regexp.MustCompile(`align\s+['"]?([\p{L}\p{N}_\s]+)['"]?\s+(?:with|to)\s+['"]?([\p{L}\p{N}_\s]+)['"]?`)

// AlignPair asks for the column matching Source to be renamed after the
// column matching Target.
type AlignPair struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Directives is the immutable set of directives found in one instruction string.
type Directives struct {
	text      string
	transpose bool
	align     []AlignPair
}

// Text returns the lower-cased instruction string.
func (d Directives) Text() string { return d.text }

// Empty reports whether no instruction text was given.
func (d Directives) Empty() bool { return strings.TrimSpace(d.text) == "" }

// Transpose reports whether every block should have rows and columns swapped.
func (d Directives) Transpose() bool { return d.transpose }

// Align returns the align pairs in order of appearance.
func (d Directives) Align() []AlignPair {
	out := make([]AlignPair, len(d.align))
	copy(out, d.align)
	return out
}

// Skips reports whether the instruction asks to ignore the named sheet.
func (d Directives) Skips(sheetName string) bool {
	return strings.Contains(d.text, "ignore "+strings.ToLower(sheetName))
}

// Interpreter turns an instruction string into directives.
type Interpreter interface {
	Interpret(instructions string) Directives
}

// PatternInterpreter finds directives by substring and pattern search.
type PatternInterpreter struct{}

// Interpret implements Interpreter.
func (PatternInterpreter) Interpret(instructions string) Directives {
	return Parse(instructions)
}

// Parse extracts directives from instructions using PatternInterpreter rules.
func Parse(instructions string) Directives {
	text := strings.ToLower(instructions)
	d := Directives{
		text:      text,
		transpose: strings.Contains(text, "transpose"),
	}

	for _, m := range alignPattern.FindAllStringSubmatch(text, -1) {
		src, tgt := strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
		if src == "" || tgt == "" {
			continue
		}
		d.align = append(d.align, AlignPair{Source: src, Target: tgt})
	}

	return d
}
