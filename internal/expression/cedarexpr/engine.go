// Package cedarexpr runs expression policies written as Cedar conditions.
//
// The source is the body of a Cedar when clause. Bound variables are exposed
// as attributes of the request context:
//
//	context.object.published && context.post.tags.contains("news")
package cedarexpr

import (
	"fmt"
	"regexp"

	"github.com/cedar-policy/cedar-go"

	"github.com/Dome-Systems/indexability-go/internal/document"
	"github.com/Dome-Systems/indexability-go/internal/expression"
)

const engineName = "cedar"

// Entity types used for every request. The condition only looks at the
// context, so the principal, action and resource are fixed.
const (
	EntityTypeEngine = cedar.EntityType("Indexability::Engine")
	EntityTypeAction = cedar.EntityType("Indexability::Action")
	EntityTypeObject = cedar.EntityType("Indexability::Object")
)

// PolicyID is the id given to the single policy compiled from a condition.
const PolicyID = "indexability-condition"

var (
	principal = cedar.NewEntityUID(EntityTypeEngine, cedar.String("engine"))
	action    = cedar.NewEntityUID(EntityTypeAction, cedar.String("evaluate"))
	resource  = cedar.NewEntityUID(EntityTypeObject, cedar.String("candidate"))
)

// Engine compiles conditions into single-policy Cedar policy sets. It holds
// no state and is safe for concurrent use.
type Engine struct{}

// New creates a Cedar expression engine.
func New() *Engine {
	return &Engine{}
}

type program struct {
	source    string
	policySet *cedar.PolicySet
}

func (p *program) Source() string { return p.source }

// contextRef matches attribute reads on the request context.
var contextRef = regexp.MustCompile(`\bcontext\.([A-Za-z_][A-Za-z0-9_]*)`)

// Compile wraps source in a permit policy and parses it. Every context
// attribute the condition reads must be one of vars.
func (e *Engine) Compile(source string, vars map[string]any) (expression.Program, error) {
	for _, m := range contextRef.FindAllStringSubmatch(source, -1) {
		if _, ok := vars[m[1]]; !ok {
			return nil, &expression.SyntaxError{
				Engine: engineName,
				Source: source,
				Err:    fmt.Errorf("unknown variable context.%s", m[1]),
			}
		}
	}

	text := fmt.Sprintf("@id(%q)\npermit (principal, action, resource)\nwhen {\n%s\n};\n", PolicyID, source)
	ps, err := cedar.NewPolicySetFromBytes("condition.cedar", []byte(text))
	if err != nil {
		return nil, &expression.SyntaxError{Engine: engineName, Source: source, Err: err}
	}

	count := 0
	for range ps.All() {
		count++
	}
	if count != 1 {
		return nil, &expression.SyntaxError{
			Engine: engineName,
			Source: source,
			Err:    fmt.Errorf("condition must produce exactly one policy, got %d", count),
		}
	}

	return &program{source: source, policySet: ps}, nil
}

// Evaluate authorizes a request whose context carries the bindings. The
// condition holding yields true. Evaluation errors, such as reading a
// missing attribute, are returned rather than treated as a deny.
func (e *Engine) Evaluate(p expression.Program, bindings map[string]any) (any, error) {
	prog, ok := p.(*program)
	if !ok {
		return nil, fmt.Errorf("%s: program %T was not compiled by this engine", engineName, p)
	}

	ctx := cedar.RecordMap{}
	for name, obj := range bindings {
		v, err := document.ToValue(obj)
		if err != nil {
			return nil, fmt.Errorf("%s: bind %s: %w", engineName, name, err)
		}
		if cv, ok := toCedarValue(v); ok {
			ctx[cedar.String(name)] = cv
		}
	}

	req := cedar.Request{
		Principal: principal,
		Action:    action,
		Resource:  resource,
		Context:   cedar.NewRecord(ctx),
	}

	decision, diagnostic := cedar.Authorize(prog.policySet, cedar.EntityMap{}, req)
	if len(diagnostic.Errors) > 0 {
		return nil, fmt.Errorf("%s: evaluate %q: %s", engineName, prog.source, diagnostic.Errors[0].String())
	}
	return decision == cedar.Allow, nil
}
