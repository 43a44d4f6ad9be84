// Package mangle implements the name-mangling grammar, the ABI contract
// between the Monomorphizer and the backend's linker. Grounded on the
// teacher's ad hoc factory-name building in internal/pipeline/pipeline.go
// (`make_%s_%s`), generalized here into a dedicated, tested component: every
// monomorphized instance's mangled name must be unique and deterministic.
package mangle

import (
	"strconv"
	"strings"

	"github.com/stslang/stsc/internal/coreir"
)

// Mangle computes the mangled name for a generic instantiation:
// `<base>$<arg1>$<arg2>$...`, recursively mangling nested generic arguments
//.
func Mangle(base string, args []coreir.Type) string {
	if len(args) == 0 {
		return base
	}
	segs := make([]string, 0, len(args)+1)
	segs = append(segs, base)
	for _, a := range args {
		segs = append(segs, segment(a))
	}
	return strings.Join(segs, "$")
}

// segment renders one type argument as a mangled-name segment.
func segment(t coreir.Type) string {
	switch v := t.(type) {
	case coreir.Integer:
		if v.Signed {
			return "Int" + strconv.Itoa(int(v.Width))
		}
		return "UInt" + strconv.Itoa(int(v.Width))
	case coreir.Float:
		return "Float" + strconv.Itoa(int(v.Width))
	case coreir.Bool:
		return "Bool"
	case coreir.Void:
		return "Void"
	case coreir.StringT:
		return "String"
	case coreir.Array:
		return "Array$" + segment(v.Element)
	case *coreir.Struct:
		return v.Name
	case *coreir.Union:
		return v.Name
	case coreir.Option:
		return "Option$" + segment(v.Inner)
	case coreir.Result:
		return "Result$" + segment(v.Ok) + "$" + segment(v.Err)
	case coreir.Tuple:
		segs := make([]string, len(v.Elements))
		for i, e := range v.Elements {
			segs[i] = segment(e)
		}
		return "Tuple$" + strings.Join(segs, "$")
	default:
		// Any other type (a FunctionValue or Never) falls back to its
		// String() form; *Struct/*Union arguments have their own cases above.
		return t.String()
	}
}

// Demangle splits a mangled name back into its base identifier and segment
// list. It does not reconstruct coreir.Type values (the grammar is lossy
// for primitive width/signedness round-tripping is not, but struct/union
// argument types need the struct/union table to resolve by name) — callers
// needing the concrete types should use the monomorphization cache instead
// of demangling.
func Demangle(name string) (base string, segments []string) {
	parts := strings.Split(name, "$")
	if len(parts) == 0 {
		return name, nil
	}
	return parts[0], parts[1:]
}

// IsPrimitiveTag reports whether a mangled-name segment is one of the
// grammar's reserved primitive tags.
func IsPrimitiveTag(seg string) bool {
	switch seg {
	case "Int8", "Int16", "Int32", "Int64",
		"UInt8", "UInt16", "UInt32", "UInt64",
		"Float32", "Float64", "Bool", "String", "Void":
		return true
	default:
		return false
	}
}
