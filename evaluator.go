package indexability

import (
	"errors"
	"log/slog"

	"github.com/Dome-Systems/indexability-go/internal/policy"
)

// Evaluator decides indexability for candidate objects. Use NewEvaluator to
// create one. An Evaluator is safe for concurrent use; each (action, type)
// policy is resolved at most once however many goroutines hit it first.
type Evaluator struct {
	store  *policy.Store
	cache  *policy.Cache
	logger *slog.Logger
}

// NewEvaluator creates an Evaluator for the given declarations. The maps are
// copied; declarations are not checked until the first object of their type
// is evaluated (or Validate is called).
func NewEvaluator(policies Policies, opts ...Option) *Evaluator {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}

	resolver := policy.NewResolver(cfg.services, cfg.engine)
	return &Evaluator{
		store:  policy.NewStore(policies.Include, policies.Update),
		cache:  policy.NewCache(resolver, !cfg.disableCache),
		logger: cfg.logger,
	}
}

// IsIndexable reports whether object, of the given index and type, should
// be in the index. Types without an include policy are always indexable.
// Names containing "/" fail with ErrInvalidName.
func (e *Evaluator) IsIndexable(index, typ string, object any) (bool, error) {
	return e.evaluate(ActionInclude, index, typ, object)
}

// NeedsUpdate reports whether the indexed copy of object should be
// refreshed. Types without an update policy always need an update.
func (e *Evaluator) NeedsUpdate(index, typ string, object any) (bool, error) {
	return e.evaluate(ActionUpdate, index, typ, object)
}

// Resolve returns the predicate configured for (action, index, type),
// resolving it against sample if this has not happened yet. A type without
// a policy yields a KindNone predicate that always returns true.
func (e *Evaluator) Resolve(action Action, index, typ string, sample any) (ResolvedPolicy, error) {
	typeKey, err := checkedTypeKey(index, typ)
	if err != nil {
		return nil, err
	}
	raw, ok := e.store.Lookup(action, typeKey)
	if !ok {
		return policy.Unconfigured(), nil
	}
	return e.resolve(action, typeKey, raw, sample)
}

// Validate resolves every configured declaration for both actions against
// sample and returns all failures joined. Successful resolutions are cached
// as if an object had been evaluated.
func (e *Evaluator) Validate(sample any) error {
	var errs []error
	for _, action := range []Action{ActionInclude, ActionUpdate} {
		for _, typeKey := range e.store.Keys(action) {
			raw, ok := e.store.Lookup(action, typeKey)
			if !ok {
				continue
			}
			if _, err := e.resolve(action, typeKey, raw, sample); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// TypeKeys lists the type keys that have a policy for action.
func (e *Evaluator) TypeKeys(action Action) []string {
	return e.store.Keys(action)
}

func (e *Evaluator) evaluate(action Action, index, typ string, object any) (bool, error) {
	typeKey, err := checkedTypeKey(index, typ)
	if err != nil {
		return false, err
	}
	raw, ok := e.store.Lookup(action, typeKey)
	if !ok {
		return true, nil
	}

	resolved, err := e.resolve(action, typeKey, raw, object)
	if err != nil {
		return false, err
	}

	result, err := resolved.Evaluate(object)
	if err != nil {
		return false, &EvaluationError{Action: action, TypeKey: typeKey, Err: err}
	}
	return result, nil
}

func (e *Evaluator) resolve(action Action, typeKey string, raw, sample any) (ResolvedPolicy, error) {
	resolved, cached, err := e.cache.GetOrResolve(action, typeKey, raw, sample)
	if err != nil {
		e.logger.Debug("policy resolution failed", "action", action, "type_key", typeKey, "error", err)
		return nil, err
	}
	if !cached {
		e.logger.Debug("policy resolved",
			"action", action,
			"type_key", typeKey,
			"kind", resolved.Kind().String(),
			"cached_policies", e.cache.Len(),
		)
	}
	return resolved, nil
}
