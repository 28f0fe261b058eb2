package policy

import "strings"

// ObjectVariable is always bound to the candidate in expression policies.
const ObjectVariable = "object"

// TypeNamer is implemented by candidate types that want a second, type
// specific variable in expression policies. A Post returning "Post" makes
// the candidate reachable as both object and post.
type TypeNamer interface {
	SearchTypeName() string
}

// VariableName returns the type-derived variable name for obj: its lower
// cased SearchTypeName, or "object" when obj does not provide one.
func VariableName(obj any) string {
	if n, ok := obj.(TypeNamer); ok {
		if name := strings.ToLower(strings.TrimSpace(n.SearchTypeName())); name != "" {
			return name
		}
	}
	return ObjectVariable
}

// Bindings maps both variable names to obj.
func Bindings(obj any) map[string]any {
	return map[string]any{
		ObjectVariable:    obj,
		VariableName(obj): obj,
	}
}
