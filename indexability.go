// Package indexability decides whether objects belong in a search index and
// whether their indexed copies need refreshing.
//
// Operators declare one policy per (index, type) pair and per action. A
// policy can be a Go func, a bound method pair, the name of a method on the
// object, a service reference or an expression:
//
//	services := indexability.NewServiceRegistry()
//	services.Register("moderation", moderationService)
//
//	ev := indexability.NewEvaluator(indexability.Policies{
//	    Include: map[string]any{
//	        indexability.TypeKey("blog", "post"):    "IsPublished",
//	        indexability.TypeKey("blog", "comment"): []string{"@moderation", "Check"},
//	        indexability.TypeKey("shop", "product"): "object.Stock > 0 && !object.Hidden",
//	    },
//	    Update: map[string]any{
//	        indexability.TypeKey("blog", "post"): func(p *Post) bool { return p.Dirty },
//	    },
//	}, indexability.WithServices(services))
//
//	ok, err := ev.IsIndexable("blog", "post", post)
//
// Each policy is resolved the first time an object of its type is evaluated
// and reused for the lifetime of the Evaluator. Types without a policy are
// always indexable and always need an update.
package indexability

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Dome-Systems/indexability-go/internal/config"
	"github.com/Dome-Systems/indexability-go/internal/expression"
	"github.com/Dome-Systems/indexability-go/internal/policy"
)

// Action selects the include or the update policy table.
type Action = policy.Action

const (
	ActionInclude = policy.ActionInclude
	ActionUpdate  = policy.ActionUpdate
)

// Kind is the shape a policy was resolved to.
type Kind = policy.Kind

const (
	KindNone          = policy.KindNone
	KindCallable      = policy.KindCallable
	KindObjectMethod  = policy.KindObjectMethod
	KindServiceMethod = policy.KindServiceMethod
	KindExpression    = policy.KindExpression
)

// ResolvedPolicy is a policy in directly invocable form.
type ResolvedPolicy = policy.Resolved

// TypeNamer lets a candidate type name the second variable bound in
// expression policies. Objects that do not implement it are only bound as
// "object".
type TypeNamer = policy.TypeNamer

// ServiceResolver looks up services for ["@id", "Method"] policies.
type ServiceResolver = policy.ServiceResolver

// ServiceResolverFunc adapts a function to ServiceResolver.
type ServiceResolverFunc = policy.ServiceResolverFunc

// ExpressionEngine compiles and evaluates expression policies.
type ExpressionEngine = expression.Engine

// Errors returned by the evaluator. Use errors.As to inspect them.
type (
	InvalidPolicyError           = policy.InvalidPolicyError
	MissingExpressionEngineError = policy.MissingExpressionEngineError
	UnknownServiceError          = policy.UnknownServiceError
	EvaluationError              = policy.EvaluationError
	SyntaxError                  = expression.SyntaxError
)

// ErrUnknownService matches any UnknownServiceError with errors.Is.
var ErrUnknownService = policy.ErrUnknownService

// Policies holds the raw declarations for both actions, keyed by TypeKey.
type Policies struct {
	Include map[string]any
	Update  map[string]any
}

// ErrInvalidName is returned when an index or type name contains the type
// key separator "/". Such names would make distinct pairs share a key.
var ErrInvalidName = errors.New("indexability: index and type names must not contain \"" + config.KeySeparator + "\"")

// TypeKey joins an index and a type name. Names must not contain "/"; the
// Evaluator rejects them with ErrInvalidName.
func TypeKey(index, typ string) string {
	return index + config.KeySeparator + typ
}

// checkedTypeKey is TypeKey for names that came from callers.
func checkedTypeKey(index, typ string) (string, error) {
	for _, name := range []string{index, typ} {
		if strings.Contains(name, config.KeySeparator) {
			return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
		}
	}
	return TypeKey(index, typ), nil
}
