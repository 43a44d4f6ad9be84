// Package errors provides the middle end's structured diagnostic taxonomy.
// All diagnostics leave a phase as a *Report, never as unwinding control flow.
package errors

// Code identifies one of the ten diagnostic kinds the middle end can emit.
type Code string

const (
	// UnsupportedConstruct is emitted by the Validator when input falls outside
	// the compilable subset (syntax or type form).
	UnsupportedConstruct Code = "UnsupportedConstruct"

	// TypeMismatch is emitted when a resolved expression type cannot be
	// assigned or passed to the expected type.
	TypeMismatch Code = "TypeMismatch"

	// UnknownSymbol is emitted for a reference the scope table could not resolve.
	UnknownSymbol Code = "UnknownSymbol"

	// CycleError is emitted when a named-type dependency cycle has no Weak edge.
	CycleError Code = "CycleError"

	// DiscriminantAmbiguous is emitted when union variants share a would-be
	// discriminant with duplicate or non-literal values.
	DiscriminantAmbiguous Code = "DiscriminantAmbiguous"

	// UnresolvedTypeParameter is emitted when monomorphization can neither
	// infer nor default a type parameter.
	UnresolvedTypeParameter Code = "UnresolvedTypeParameter"

	// ConstraintViolation is emitted when a concrete generic argument
	// violates an `extends` constraint.
	ConstraintViolation Code = "ConstraintViolation"

	// RecursiveGenericDepth is emitted when the monomorphization recursion
	// limit (64) is exceeded.
	RecursiveGenericDepth Code = "RecursiveGenericDepth"

	// PropagationError is emitted when a throwing function is called outside
	// a try/catch.
	PropagationError Code = "PropagationError"

	// InternalError indicates an invariant was violated: a bug in the
	// compiler, not the input.
	InternalError Code = "InternalError"
)

// Phase names used in Report.Phase.
const (
	PhaseValidate  = "validate"
	PhaseResolve   = "resolve"
	PhaseDesugar   = "desugar"
	PhaseMono      = "monomorphize"
	PhaseOwnership = "ownership"
)

// CodeInfo describes one diagnostic kind for documentation and tooling.
type CodeInfo struct {
	Code        Code
	Phase       string
	Description string
}

// Registry maps every diagnostic code to its documentation entry.
var Registry = map[Code]CodeInfo{
	UnsupportedConstruct:    {UnsupportedConstruct, PhaseValidate, "construct outside the compilable subset"},
	TypeMismatch:            {TypeMismatch, PhaseResolve, "resolved type cannot satisfy expected type"},
	UnknownSymbol:           {UnknownSymbol, PhaseValidate, "identifier not resolved by the scope table"},
	CycleError:              {CycleError, PhaseResolve, "type cycle without a Weak edge"},
	DiscriminantAmbiguous:   {DiscriminantAmbiguous, PhaseResolve, "union variants share an ambiguous discriminant"},
	UnresolvedTypeParameter: {UnresolvedTypeParameter, PhaseMono, "generic type parameter could not be inferred or defaulted"},
	ConstraintViolation:     {ConstraintViolation, PhaseMono, "concrete type argument violates an extends constraint"},
	RecursiveGenericDepth:   {RecursiveGenericDepth, PhaseMono, "instantiation depth limit (64) exceeded"},
	PropagationError:        {PropagationError, PhaseDesugar, "throwing function invoked outside try/catch"},
	InternalError:           {InternalError, "", "compiler invariant violated"},
}
