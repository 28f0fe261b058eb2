package policy

import (
	"errors"
	"fmt"
)

// ErrUnknownService is matched by errors.Is for any UnknownServiceError.
var ErrUnknownService = errors.New("indexability: unknown service")

// InvalidPolicyError reports a declaration that cannot be turned into a
// predicate: an unrecognised shape, a service method that is not invocable,
// or an expression that does not compile.
type InvalidPolicyError struct {
	Action  Action
	TypeKey string
	Reason  string
	Err     error
}

func (e *InvalidPolicyError) Error() string {
	msg := fmt.Sprintf("indexability: invalid %s policy for %q: %s", e.Action, e.TypeKey, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *InvalidPolicyError) Unwrap() error { return e.Err }

// MissingExpressionEngineError reports an expression policy declared while
// no expression engine is configured.
type MissingExpressionEngineError struct {
	Action  Action
	TypeKey string
}

func (e *MissingExpressionEngineError) Error() string {
	return fmt.Sprintf("indexability: %s policy for %q is an expression but no expression engine is configured", e.Action, e.TypeKey)
}

// UnknownServiceError is returned by service resolvers for identifiers they
// do not know. The resolver passes it through unchanged.
type UnknownServiceError struct {
	ID string
}

func (e *UnknownServiceError) Error() string {
	return fmt.Sprintf("indexability: unknown service %q", e.ID)
}

func (e *UnknownServiceError) Is(target error) bool { return target == ErrUnknownService }

// EvaluationError wraps a failure raised while running an already resolved
// policy, such as a callable returning an error.
type EvaluationError struct {
	Action  Action
	TypeKey string
	Err     error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("indexability: evaluate %s policy for %q: %v", e.Action, e.TypeKey, e.Err)
}

func (e *EvaluationError) Unwrap() error { return e.Err }

func invalid(action Action, typeKey, format string, args ...any) *InvalidPolicyError {
	return &InvalidPolicyError{Action: action, TypeKey: typeKey, Reason: fmt.Sprintf(format, args...)}
}
