// Package middleend orchestrates the five-stage pipeline:
// Validator -> Type Resolver -> Desugarer -> Monomorphizer -> Ownership
// Analyzer, wiring a Lowering Context through each in sequence and
// returning the finished Core IR Program plus any diagnostics. Grounded on
// ailang's internal/pipeline/pipeline.go Config/Result/phase-timing
// orchestration shape.
package middleend

import (
	"time"

	"github.com/stslang/stsc/internal/ast"
	"github.com/stslang/stsc/internal/coreir"
	"github.com/stslang/stsc/internal/ctx"
	"github.com/stslang/stsc/internal/desugar"
	"github.com/stslang/stsc/internal/errors"
	"github.com/stslang/stsc/internal/importgraph"
	"github.com/stslang/stsc/internal/mono"
	"github.com/stslang/stsc/internal/ownership"
	"github.com/stslang/stsc/internal/resolve"
	"github.com/stslang/stsc/internal/scope"
	"github.com/stslang/stsc/internal/validate"
)

// Config controls one compilation run. Any diagnostic from the Validator or
// the Type Resolver stops the run before the Desugarer; phases are not
// skipped per declaration. StopOnValidateErrors additionally stops the run
// before Type Resolution when the Validator reported anything.
type Config struct {
	StopOnValidateErrors bool
}

// Unit is one compilation unit: the already-parsed file set plus the
// (out-of-scope) semantic analyzer's scope table and import graph
//.
type Unit struct {
	Files   []*ast.File
	Scope   *scope.Table
	Imports *importgraph.Graph
}

// Result is the pipeline's successful output: the finished Core IR Program
// and a per-phase timing breakdown, useful for the `stsc` CLI's `--timing`
// flag and for regression-testing which phase dominates compile time.
type Result struct {
	Program      *coreir.Program
	PhaseTimings map[string]time.Duration
}

// Run executes V->T->D->M->O over unit and returns the finished Program
// together with every diagnostic accumulated along the way. Program is
// never nil: when the run stops early it holds whatever the phases that did
// run registered. The Validator and the Type Resolver each report every
// violation they find, but any diagnostic from them ends the run before
// the Desugarer; a diagnostic from the Monomorphizer ends it before the
// Ownership Analyzer.
func Run(cfg Config, unit Unit) (Result, []*errors.Report) {
	timings := make(map[string]time.Duration)
	c := ctx.New(unit.Scope, unit.Imports)
	c.Transient.Files = unit.Files

	timings[errors.PhaseValidate] = timeIt(func() {
		validate.Run(unit.Files, c)
	})
	if cfg.StopOnValidateErrors && c.HasErrors() {
		return Result{Program: c.Retained.Program, PhaseTimings: timings}, c.Diagnostics
	}

	var res *resolve.Result
	var resolver *resolve.Resolver
	timings[errors.PhaseResolve] = timeIt(func() {
		resolver = resolve.New(c, unit.Files)
		res = resolver.ResolveAll(unit.Files)
	})
	if c.HasErrors() {
		return Result{Program: c.Retained.Program, PhaseTimings: timings}, c.Diagnostics
	}

	timings[errors.PhaseDesugar] = timeIt(func() {
		desugar.Run(c, res)
	})

	preMonoErrCount := len(c.Diagnostics)
	timings[errors.PhaseMono] = timeIt(func() {
		mono.Run(c, resolver, res, unit.Files)
	})
	if len(c.Diagnostics) > preMonoErrCount {
		// Monomorphization errors abort compilation; Ownership
		// is never run over a Core IR program with unresolved generics.
		return Result{Program: c.Retained.Program, PhaseTimings: timings}, c.Diagnostics
	}

	timings[errors.PhaseOwnership] = timeIt(func() {
		ownership.Run(c)
	})

	return Result{Program: c.Retained.Program, PhaseTimings: timings}, c.Diagnostics
}

func timeIt(f func()) time.Duration {
	start := timeNow()
	f()
	return timeNow().Sub(start)
}

// timeNow is a thin indirection over time.Now so phase timing never
// observes a stale value captured before a phase actually ran; kept as a
// function variable (not swapped out anywhere today) to mirror the
// teacher's seam for injecting a fake clock in pipeline tests.
var timeNow = time.Now
