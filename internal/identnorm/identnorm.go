// Package identnorm normalizes surface identifiers to NFC. Its one caller
// is internal/scope's Table.Bind, which normalizes declaration names so two
// source files spelling the same identifier with different Unicode
// decompositions bind the same name; struct/union/function table keys and
// mangled-name segments are not normalized. Grounded on ailang's internal/lexer
// normalize.go, which runs the same normalization ahead of tokenization.
package identnorm

import "golang.org/x/text/unicode/norm"

// NFC returns s normalized to Unicode Normalization Form C.
func NFC(s string) string {
	return norm.NFC.String(s)
}

// Equal reports whether a and b denote the same identifier once both are
// normalized, regardless of their source encoding.
func Equal(a, b string) bool {
	return NFC(a) == NFC(b)
}
