// Package diagreport renders *errors.Report diagnostics for a terminal,
// colorizing the way ailang's REPL colors its output
// (internal/repl/repl.go's color-function table: one fatih/color.Color
// bound per message class, here per part of a diagnostic: code, phase,
// message and fix).
package diagreport

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/stslang/stsc/internal/errors"
)

var (
	codeColor    = color.New(color.FgRed, color.Bold)
	phaseColor   = color.New(color.FgYellow)
	messageColor = color.New(color.FgWhite)
	hintColor    = color.New(color.FgCyan)
)

// Print writes one diagnostic to w in human-readable, colorized form.
func Print(w io.Writer, r *errors.Report) {
	codeColor.Fprintf(w, "%s", r.Code)
	fmt.Fprint(w, " ")
	phaseColor.Fprintf(w, "[%s]", r.Phase)
	fmt.Fprint(w, " ")
	messageColor.Fprintln(w, r.Message)
	if r.Span != nil {
		fmt.Fprintf(w, "  at %s:%d:%d\n", r.Span.Start.File, r.Span.Start.Line, r.Span.Start.Column)
	}
	if r.Fix != nil {
		hintColor.Fprintf(w, "  fix: %s\n", r.Fix.Message)
	}
}

// PrintAll writes every report in reports, in order, separated by a blank
// line.
func PrintAll(w io.Writer, reports []*errors.Report) {
	for i, r := range reports {
		if i > 0 {
			fmt.Fprintln(w)
		}
		Print(w, r)
	}
}

// Summary writes a total-count line followed by one count line per
// diagnostic code, used by the CLI's exit banner.
func Summary(w io.Writer, reports []*errors.Report) {
	counts := make(map[errors.Code]int)
	for _, r := range reports {
		counts[r.Code]++
	}
	if len(reports) == 0 {
		color.New(color.FgGreen).Fprintln(w, "no diagnostics")
		return
	}
	codeColor.Fprintf(w, "%d diagnostic(s)", len(reports))
	fmt.Fprintln(w)
	for code, n := range counts {
		fmt.Fprintf(w, "  %s: %d\n", code, n)
	}
}
