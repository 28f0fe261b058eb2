package policy

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/Dome-Systems/indexability-go/internal/expression"
)

var errBoom = errors.New("boom")

type post struct {
	Published bool
	Title     string
}

func (p *post) IsPublished() bool          { return p.Published }
func (p *post) SearchTypeName() string     { return "Post" }
func (p *post) Label() string              { return p.Title }
func (p *post) Fails() (bool, error)       { return false, errBoom }
func (p *post) Needs(threshold int) bool   { return threshold > 0 }
func (p *post) Pair() (bool, bool)         { return true, true }
func (p *post) String() string             { return fmt.Sprintf("post(%q)", p.Title) }
func (p *post) Describe(prefix string) int { return len(prefix) }

// valueError and pointerError implement error without being the error
// interface.
type valueError struct{}

func (valueError) Error() string { return "value error" }

type pointerError struct{}

func (*pointerError) Error() string { return "pointer error" }

func (p *post) Audit() (bool, valueError) { return true, valueError{} }

type comment struct {
	Approved bool
}

// moderation is a service used through ["@moderation", "Check"].
type moderation struct {
	calls atomic.Int32
}

func (m *moderation) Check(p *post) bool {
	m.calls.Add(1)
	return p.Published
}

func (m *moderation) Broken() bool { return true }

// countingServices counts lookups.
type countingServices struct {
	lookups  atomic.Int32
	services map[string]any
}

func (c *countingServices) Lookup(id string) (any, error) {
	c.lookups.Add(1)
	svc, ok := c.services[id]
	if !ok {
		return nil, &UnknownServiceError{ID: id}
	}
	return svc, nil
}

// fakeEngine understands two expressions: "object.Published" and
// "<var>.Published", where <var> must have been declared. Anything else is
// a syntax error.
type fakeEngine struct {
	compiles atomic.Int32
	lastVars map[string]any
}

type fakeProgram struct {
	source   string
	variable string
}

func (p *fakeProgram) Source() string { return p.source }

func (e *fakeEngine) Compile(source string, vars map[string]any) (expression.Program, error) {
	e.compiles.Add(1)
	e.lastVars = vars
	for name := range vars {
		if source == name+".Published" {
			return &fakeProgram{source: source, variable: name}, nil
		}
	}
	return nil, &expression.SyntaxError{Engine: "fake", Source: source, Err: errors.New("unexpected token")}
}

func (e *fakeEngine) Evaluate(p expression.Program, bindings map[string]any) (any, error) {
	fp := p.(*fakeProgram)
	obj, ok := bindings[fp.variable].(*post)
	if !ok {
		return nil, fmt.Errorf("variable %s is not bound to a post", fp.variable)
	}
	return obj.Published, nil
}
