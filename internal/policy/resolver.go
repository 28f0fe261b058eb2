package policy

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/Dome-Systems/indexability-go/internal/expression"
)

// ServiceResolver looks up a named service instance. Unknown identifiers
// must produce an error matching ErrUnknownService.
type ServiceResolver interface {
	Lookup(id string) (any, error)
}

// ServiceResolverFunc adapts a function to ServiceResolver.
type ServiceResolverFunc func(id string) (any, error)

func (f ServiceResolverFunc) Lookup(id string) (any, error) { return f(id) }

// Resolved is the directly invocable form of a declaration.
type Resolved interface {
	Kind() Kind
	// Evaluate runs the policy against object and coerces the result with
	// Truthy.
	Evaluate(object any) (bool, error)
}

// Resolver turns raw declarations into Resolved predicates. Either
// collaborator may be nil: a nil engine makes expression policies fail with
// MissingExpressionEngineError, a nil service resolver makes every service
// reference unknown.
type Resolver struct {
	services ServiceResolver
	engine   expression.Engine
}

// NewResolver creates a resolver backed by the given collaborators.
func NewResolver(services ServiceResolver, engine expression.Engine) *Resolver {
	return &Resolver{services: services, engine: engine}
}

// Resolve classifies raw and builds its Resolved form. sample is the
// candidate that triggered resolution.
func (r *Resolver) Resolve(action Action, typeKey string, raw any, sample any) (Resolved, error) {
	decl, err := Classify(action, typeKey, raw, sample)
	if err != nil {
		return nil, err
	}

	switch d := decl.(type) {
	case NoPolicy:
		return noPolicy{}, nil

	case Callable:
		if err := checkSignature(d.Fn.Type(), 1); err != nil {
			return nil, &InvalidPolicyError{Action: action, TypeKey: typeKey, Reason: "callable is not a predicate", Err: err}
		}
		if err := checkArgument(d.Fn.Type(), sample); err != nil {
			return nil, &InvalidPolicyError{Action: action, TypeKey: typeKey, Reason: "callable is not a predicate", Err: err}
		}
		return &callablePolicy{fn: d.Fn}, nil

	case ObjectMethod:
		name, ok := methodOn(sample, d.Name)
		if !ok {
			return nil, invalid(action, typeKey, "method %q is not defined on %T", d.Name, sample)
		}
		m := reflect.ValueOf(sample).MethodByName(name)
		if err := checkSignature(m.Type(), 0); err != nil {
			return nil, &InvalidPolicyError{Action: action, TypeKey: typeKey, Reason: fmt.Sprintf("method %q is not a predicate", d.Name), Err: err}
		}
		return &objectMethodPolicy{name: name}, nil

	case ServiceMethod:
		return r.resolveService(action, typeKey, d, sample)

	case ExpressionSource:
		return r.resolveExpression(action, typeKey, d, sample)
	}

	return nil, invalid(action, typeKey, "unsupported declaration %T", decl)
}

func (r *Resolver) resolveService(action Action, typeKey string, d ServiceMethod, sample any) (Resolved, error) {
	if r.services == nil {
		return nil, &UnknownServiceError{ID: d.ServiceID}
	}
	svc, err := r.services.Lookup(d.ServiceID)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, invalid(action, typeKey, "service %q resolved to nil", d.ServiceID)
	}

	fn, ok := methodValue(reflect.ValueOf(svc), d.Method)
	if !ok {
		return nil, invalid(action, typeKey, "method %q is not callable on service %q", d.Method, d.ServiceID)
	}
	if err := checkSignature(fn.Type(), 1); err != nil {
		return nil, &InvalidPolicyError{
			Action:  action,
			TypeKey: typeKey,
			Reason:  fmt.Sprintf("method %q on service %q is not a predicate", d.Method, d.ServiceID),
			Err:     err,
		}
	}
	if err := checkArgument(fn.Type(), sample); err != nil {
		return nil, &InvalidPolicyError{
			Action:  action,
			TypeKey: typeKey,
			Reason:  fmt.Sprintf("method %q on service %q is not a predicate", d.Method, d.ServiceID),
			Err:     err,
		}
	}
	return &serviceMethodPolicy{serviceID: d.ServiceID, method: d.Method, fn: fn}, nil
}

func (r *Resolver) resolveExpression(action Action, typeKey string, d ExpressionSource, sample any) (Resolved, error) {
	if r.engine == nil {
		return nil, &MissingExpressionEngineError{Action: action, TypeKey: typeKey}
	}
	program, err := r.engine.Compile(d.Source, Bindings(sample))
	if err != nil {
		var syntaxErr *expression.SyntaxError
		if !errors.As(err, &syntaxErr) {
			err = &expression.SyntaxError{Source: d.Source, Err: err}
		}
		return nil, &InvalidPolicyError{Action: action, TypeKey: typeKey, Reason: "expression does not compile", Err: err}
	}
	return &expressionPolicy{engine: r.engine, program: program}, nil
}

// Unconfigured returns the predicate that stands in for a missing policy.
// It always evaluates to true.
func Unconfigured() Resolved { return noPolicy{} }

type noPolicy struct{}

func (noPolicy) Kind() Kind                 { return KindNone }
func (noPolicy) Evaluate(any) (bool, error) { return true, nil }

type callablePolicy struct {
	fn reflect.Value
}

func (p *callablePolicy) Kind() Kind { return KindCallable }

func (p *callablePolicy) Evaluate(object any) (bool, error) {
	v, err := call(p.fn, object)
	if err != nil {
		return false, err
	}
	return Truthy(v), nil
}

type objectMethodPolicy struct {
	name string
}

func (p *objectMethodPolicy) Kind() Kind { return KindObjectMethod }

func (p *objectMethodPolicy) Evaluate(object any) (bool, error) {
	if object == nil {
		return false, fmt.Errorf("cannot call %s on a nil object", p.name)
	}
	m := reflect.ValueOf(object).MethodByName(p.name)
	if !m.IsValid() {
		return false, fmt.Errorf("%T has no method %s", object, p.name)
	}
	if err := checkSignature(m.Type(), 0); err != nil {
		return false, err
	}
	v, err := call(m)
	if err != nil {
		return false, err
	}
	return Truthy(v), nil
}

type serviceMethodPolicy struct {
	serviceID string
	method    string
	fn        reflect.Value
}

func (p *serviceMethodPolicy) Kind() Kind { return KindServiceMethod }

func (p *serviceMethodPolicy) Evaluate(object any) (bool, error) {
	v, err := call(p.fn, object)
	if err != nil {
		return false, fmt.Errorf("service %q method %q: %w", p.serviceID, p.method, err)
	}
	return Truthy(v), nil
}

type expressionPolicy struct {
	engine  expression.Engine
	program expression.Program
}

func (p *expressionPolicy) Kind() Kind { return KindExpression }

func (p *expressionPolicy) Evaluate(object any) (bool, error) {
	v, err := p.engine.Evaluate(p.program, Bindings(object))
	if err != nil {
		return false, err
	}
	return Truthy(v), nil
}
