// Package exprlang runs expression policies with github.com/expr-lang/expr.
//
// Expressions see the bound variables directly and may call exported Go
// methods on them:
//
//	object.IsPublished() && len(post.Tags) > 0
package exprlang

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/types"
	"github.com/expr-lang/expr/vm"

	"github.com/Dome-Systems/indexability-go/internal/expression"
)

const engineName = "expr"

// Engine compiles and runs expr-lang programs. It is stateless and safe for
// concurrent use.
type Engine struct {
	options []expr.Option
}

// New creates an engine. Extra options (custom functions, operators) are
// applied to every compilation after the variable environment.
func New(options ...expr.Option) *Engine {
	return &Engine{options: options}
}

type program struct {
	source string
	vm     *vm.Program
}

func (p *program) Source() string { return p.source }

// Compile type-checks source against vars. Each variable is typed by its
// sample value, so method calls and field access are checked against the
// concrete candidate type. A nil sample declares its variable as any, and
// checks on it are deferred to evaluation. Names outside vars are rejected.
func (e *Engine) Compile(source string, vars map[string]any) (expression.Program, error) {
	env := make(types.Map, len(vars))
	for name, sample := range vars {
		if sample == nil {
			env[name] = types.Any
			continue
		}
		env[name] = types.TypeOf(sample)
	}

	opts := append([]expr.Option{expr.Env(env)}, e.options...)
	compiled, err := expr.Compile(source, opts...)
	if err != nil {
		return nil, &expression.SyntaxError{Engine: engineName, Source: source, Err: err}
	}
	return &program{source: source, vm: compiled}, nil
}

// Evaluate runs a program produced by Compile.
func (e *Engine) Evaluate(p expression.Program, bindings map[string]any) (any, error) {
	prog, ok := p.(*program)
	if !ok {
		return nil, fmt.Errorf("%s: program %T was not compiled by this engine", engineName, p)
	}
	out, err := expr.Run(prog.vm, bindings)
	if err != nil {
		return nil, fmt.Errorf("%s: run %q: %w", engineName, prog.source, err)
	}
	return out, nil
}
