// Package coreir defines the Core IR this middle end produces: the closed
// type sum, the named-entity tables, and the reduced statement/expression
// node kinds the backend consumes. Grounded on ailang's
// internal/core/core.go (ANF core expression kinds) and
// internal/typedast/typed_ast.go (typed-node wrapping), generalized from
// ailang's open value-level core to this language's closed type sum.
package coreir

import (
	"fmt"
	"sort"
	"strings"
)

// Type is the closed sum of Core IR types. Struct and Union
// are the only reference (pointer) variants: their identity is the table
// entry itself, so two fields typed at the same struct alias the same Go
// pointer (structural identity).
type Type interface {
	isType()
	String() string
	// Key returns the canonical structural signature used for struct-table
	// deduplication and type comparison. Two types with equal keys are the
	// same Core IR type.
	Key() string
}

// Width is an integer or float bit width.
type Width int

const (
	W8  Width = 8
	W16 Width = 16
	W32 Width = 32
	W64 Width = 64
)

// Integer is a fixed-width integer type.
type Integer struct {
	Width  Width
	Signed bool
}

func (Integer) isType() {}
func (i Integer) String() string {
	if i.Signed {
		return fmt.Sprintf("Int%d", i.Width)
	}
	return fmt.Sprintf("UInt%d", i.Width)
}
func (i Integer) Key() string { return i.String() }

// Float is a 32- or 64-bit IEEE float type.
type Float struct {
	Width Width
}

func (Float) isType()        {}
func (f Float) String() string { return fmt.Sprintf("Float%d", f.Width) }
func (f Float) Key() string    { return f.String() }

// Bool is the 1-bit boolean type.
type Bool struct{}

func (Bool) isType()          {}
func (Bool) String() string   { return "Bool" }
func (Bool) Key() string      { return "Bool" }

// Void is the unit/no-value type.
type Void struct{}

func (Void) isType()        {}
func (Void) String() string { return "Void" }
func (Void) Key() string    { return "Void" }

// StringT is the fat-pointer UTF-8 string type `{ data, byte_length }`.
type StringT struct{}

func (StringT) isType()        {}
func (StringT) String() string { return "String" }
func (StringT) Key() string    { return "String" }

// Never is the uninhabited type (e.g. the result of an infinite loop).
type Never struct{}

func (Never) isType()        {}
func (Never) String() string { return "Never" }
func (Never) Key() string    { return "Never" }

// FieldDef is one ordered (name, type) pair of a Struct.
type FieldDef struct {
	Name string
	Type Type
}

// Struct is a named, field-ordered product type, deduplicated by canonical
// field signature across the whole program.
// It is a reference type: *Struct is the handle shared by every user.
type Struct struct {
	Name   string
	Fields []FieldDef
}

func (*Struct) isType() {}
func (s *Struct) String() string { return s.Name }
func (s *Struct) Key() string {
	parts := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		parts[i] = f.Name + ":" + f.Type.Key()
	}
	return "Struct{" + strings.Join(parts, ",") + "}"
}

// Array is a growable array `{ data, length, capacity }`.
type Array struct {
	Element Type
}

func (Array) isType()        {}
func (a Array) String() string { return "Array<" + a.Element.String() + ">" }
func (a Array) Key() string    { return "Array<" + a.Element.Key() + ">" }

// Tuple is a fixed-arity, unnamed product type.
type Tuple struct {
	Elements []Type
}

func (Tuple) isType() {}
func (t Tuple) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
func (t Tuple) Key() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.Key()
	}
	return "Tuple(" + strings.Join(parts, ",") + ")"
}

// VariantDef is one (tag_value, payload_type) pair of a Union, in
// declaration order. Tag values are dense integers starting at 0
//.
type VariantDef struct {
	Tag     int
	Name    string // source variant/class name, used by the Desugarer's instanceof lowering
	Payload Type
}

// Union is a named tagged sum type, keyed by name in the Union table
// (synthesized for anonymous unions). Reference type like Struct.
type Union struct {
	Name     string
	TagWidth Width
	Variants []VariantDef
}

func (*Union) isType() {}
func (u *Union) String() string { return u.Name }
func (u *Union) Key() string {
	parts := make([]string, len(u.Variants))
	for i, v := range u.Variants {
		parts[i] = fmt.Sprintf("%d:%s", v.Tag, v.Payload.Key())
	}
	return "Union{" + strings.Join(parts, ",") + "}"
}

// Option is `Option<T>`, distinguished from a general two-variant union
// because pointer-shaped T gets the null-pointer optimization: no tag word,
// None is the null pattern.
type Option struct {
	Inner Type
}

func (Option) isType()        {}
func (o Option) String() string { return "Option<" + o.Inner.String() + ">" }
func (o Option) Key() string    { return "Option<" + o.Inner.Key() + ">" }

// IsPointerShaped reports whether a type's representation begins with a
// pointer, making it eligible for the null-pointer optimization inside
// Option.
func IsPointerShaped(t Type) bool {
	switch t.(type) {
	case StringT, Array, *Struct, FunctionValue:
		return true
	default:
		return false
	}
}

// Result is `Result<Ok, Err>`, the compilation target of `throw`/`try`
//.
type Result struct {
	Ok  Type
	Err Type
}

func (Result) isType()        {}
func (r Result) String() string { return "Result<" + r.Ok.String() + ", " + r.Err.String() + ">" }
func (r Result) Key() string    { return "Result<" + r.Ok.Key() + "," + r.Err.Key() + ">" }

// CapturesKind classifies how a FunctionValue's environment pointer is used.
type CapturesKind int

const (
	CapturesNone CapturesKind = iota
	CapturesByRef
	CapturesBoxedEnv
)

func (k CapturesKind) String() string {
	switch k {
	case CapturesNone:
		return "None"
	case CapturesByRef:
		return "ByRef"
	case CapturesBoxedEnv:
		return "BoxedEnv"
	default:
		return "Unknown"
	}
}

// FunctionValue is a first-class function value `{ code_pointer,
// environment_pointer }`.
type FunctionValue struct {
	Params   []Type
	Ret      Type
	Captures CapturesKind
}

func (FunctionValue) isType() {}
func (f FunctionValue) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.String()
	}
	return "(" + strings.Join(parts, ", ") + ") -> " + f.Ret.String()
}
func (f FunctionValue) Key() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.Key()
	}
	return "Func(" + strings.Join(parts, ",") + ")->" + f.Ret.Key()
}

// SortedFieldNames returns a struct's field names in declared order; no
// package in this module calls it at present.
func SortedFieldNames(fields []FieldDef) []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}

// canonicalFieldOrder returns a deterministic alphabetic view of a struct's
// fields; nothing calls it at present, and resolution itself always
// preserves source order.
func canonicalFieldOrder(fields []FieldDef) []FieldDef {
	out := append([]FieldDef(nil), fields...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
