// Package expression defines the boundary between the policy resolver and
// the engines that compile and run expression policies.
package expression

import "fmt"

// Program is a compiled expression. Only the engine that produced it can
// evaluate it.
type Program interface {
	// Source returns the expression text the program was compiled from.
	Source() string
}

// Engine compiles expression sources and evaluates the result against a
// variable binding.
type Engine interface {
	// Compile parses source. vars holds every variable the expression may
	// reference, each bound to a sample value the engine may use for type
	// checking. Malformed input yields a *SyntaxError.
	Compile(source string, vars map[string]any) (Program, error)

	// Evaluate runs p with the given bindings and returns its raw result.
	Evaluate(p Program, bindings map[string]any) (any, error)
}

// SyntaxError reports an expression the engine refused to compile.
type SyntaxError struct {
	Engine string
	Source string
	Err    error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: syntax error in %q: %v", e.Engine, e.Source, e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }
