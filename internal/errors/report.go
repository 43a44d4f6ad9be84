package errors

import (
	"encoding/json"
	"errors"

	"github.com/stslang/stsc/internal/ast"
)

// Fix is a suggested, non-binding remediation attached to a Report.
type Fix struct {
	Message string `json:"message"`
	Span    *ast.Span `json:"span,omitempty"`
}

// Report is the canonical structured diagnostic emitted by any middle end phase.
// Every phase leaves via *Report, never via a bare error string or panic.
type Report struct {
	Schema  string         `json:"schema"`         // Always "stsc.error/v1"
	Code    Code           `json:"code"`           // One of the ten diagnostic kinds
	Phase   string         `json:"phase"`          // "validate", "resolve", "desugar", "monomorphize", "ownership"
	Message string         `json:"message"`        // Human-readable message
	Span    *ast.Span      `json:"span,omitempty"` // Source location, when known
	Data    map[string]any `json:"data,omitempty"` // Structured detail (sorted keys via encoding/json)
	Fix     *Fix           `json:"fix,omitempty"`  // Suggested fix, optional
}

// ReportError wraps a Report as an error so structured reports survive
// errors.As() unwrapping through ordinary Go error-handling paths.
type ReportError struct {
	Rep *Report
}

func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "unknown error"
	}
	return string(e.Rep.Code) + ": " + e.Rep.Message
}

// AsReport extracts a Report from an error chain, if one is present.
func AsReport(err error) (*Report, bool) {
	var re *ReportError
	if errors.As(err, &re) {
		return re.Rep, true
	}
	return nil, false
}

// WrapReport wraps a Report as an error. Call sites return errors.WrapReport(r)
// to propagate a structured diagnostic through a normal error return.
func WrapReport(r *Report) error {
	if r == nil {
		return nil
	}
	return &ReportError{Rep: r}
}

// ToJSON renders a Report as JSON. encoding/json sorts map keys, so the
// output is deterministic without a separate canonicalization pass.
func (r *Report) ToJSON(compact bool) (string, error) {
	var data []byte
	var err error

	if compact {
		data, err = json.Marshal(r)
	} else {
		data, err = json.MarshalIndent(r, "", "  ")
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// New builds a Report for one of the ten registered diagnostic kinds,
// defaulting Phase from the code's registry entry.
func New(code Code, span *ast.Span, message string, data map[string]any) *Report {
	phase := ""
	if info, ok := Registry[code]; ok {
		phase = info.Phase
	}
	return &Report{
		Schema:  "stsc.error/v1",
		Code:    code,
		Phase:   phase,
		Message: message,
		Span:    span,
		Data:    data,
	}
}

// NewInternal builds an InternalError report for an invariant violation
// surfaced as a Go error (e.g. an unreachable switch arm).
func NewInternal(phase string, err error) *Report {
	return &Report{
		Schema:  "stsc.error/v1",
		Code:    InternalError,
		Phase:   phase,
		Message: err.Error(),
		Data:    map[string]any{},
	}
}
