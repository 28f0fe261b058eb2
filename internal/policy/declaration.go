package policy

import (
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ServiceSentinel prefixes service identifiers in [service, method] pairs.
const ServiceSentinel = "@"

// Kind tags the shape of a Declaration and of the Resolved form built from it.
type Kind int

const (
	KindNone Kind = iota
	KindCallable
	KindObjectMethod
	KindServiceMethod
	KindExpression
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindCallable:
		return "callable"
	case KindObjectMethod:
		return "object_method"
	case KindServiceMethod:
		return "service_method"
	case KindExpression:
		return "expression"
	default:
		return "unknown"
	}
}

// Declaration is a classified raw policy. The set of implementations is
// closed: NoPolicy, Callable, ObjectMethod, ServiceMethod and ExpressionSource.
type Declaration interface {
	Kind() Kind
	declaration()
}

// NoPolicy means nothing is configured; evaluation yields true.
type NoPolicy struct{}

// Callable is a func value, or a method already bound to an instance.
type Callable struct {
	Fn reflect.Value
}

// ObjectMethod names a zero-argument method on the candidate object.
type ObjectMethod struct {
	Name string
}

// ServiceMethod is a ["@service", "Method"] pair. ServiceID has the
// sentinel stripped.
type ServiceMethod struct {
	ServiceID string
	Method    string
}

// ExpressionSource is an expression to be compiled by the expression engine.
type ExpressionSource struct {
	Source string
}

func (NoPolicy) Kind() Kind         { return KindNone }
func (Callable) Kind() Kind         { return KindCallable }
func (ObjectMethod) Kind() Kind     { return KindObjectMethod }
func (ServiceMethod) Kind() Kind    { return KindServiceMethod }
func (ExpressionSource) Kind() Kind { return KindExpression }

func (NoPolicy) declaration()         {}
func (Callable) declaration()         {}
func (ObjectMethod) declaration()     {}
func (ServiceMethod) declaration()    {}
func (ExpressionSource) declaration() {}

// Classify decides which Declaration raw represents. sample is the first
// candidate object seen for the type and is only used to recognise method
// names. The first matching rule wins:
//
//  1. func values, [instance, "Method"] pairs and method names on sample
//  2. two-element sequences starting with a string (service references)
//  3. any other string (expressions)
//
// Everything else is an InvalidPolicyError.
func Classify(action Action, typeKey string, raw any, sample any) (Declaration, error) {
	if raw == nil {
		return NoPolicy{}, nil
	}
	if d, ok := raw.(Declaration); ok {
		return d, nil
	}

	v := reflect.ValueOf(raw)
	switch v.Kind() {
	case reflect.Func:
		if v.IsNil() {
			return NoPolicy{}, nil
		}
		return Callable{Fn: v}, nil

	case reflect.String:
		s := v.String()
		if name, ok := methodOn(sample, s); ok {
			return ObjectMethod{Name: name}, nil
		}
		if strings.TrimSpace(s) == "" {
			return nil, invalid(action, typeKey, "empty policy string")
		}
		return ExpressionSource{Source: s}, nil

	case reflect.Slice, reflect.Array:
		if v.Len() != 2 {
			return nil, invalid(action, typeKey, "sequence policies need exactly two elements, got %d", v.Len())
		}
		first, second := elem(v, 0), elem(v, 1)
		if second.Kind() != reflect.String {
			return nil, invalid(action, typeKey, "second element of a sequence policy must be a method name, got %s", second.Kind())
		}
		method := second.String()

		if first.Kind() != reflect.String {
			// [instance, "Method"]: a bound method reference.
			if !first.IsValid() {
				return nil, invalid(action, typeKey, "first element of a sequence policy is nil")
			}
			if fn, ok := methodValue(first, method); ok {
				return Callable{Fn: fn}, nil
			}
			return nil, invalid(action, typeKey, "method %q is not defined on %s", method, first.Type())
		}

		ref := first.String()
		if !strings.HasPrefix(ref, ServiceSentinel) {
			return nil, invalid(action, typeKey, "service reference %q must start with %q", ref, ServiceSentinel)
		}
		id := strings.TrimPrefix(ref, ServiceSentinel)
		if id == "" {
			return nil, invalid(action, typeKey, "service reference %q names no service", ref)
		}
		return ServiceMethod{ServiceID: id, Method: method}, nil
	}

	return nil, invalid(action, typeKey, "unsupported policy of type %T", raw)
}

// elem returns the i-th element of a slice or array, looking through
// interface values so []any and []string are treated alike.
func elem(v reflect.Value, i int) reflect.Value {
	e := v.Index(i)
	for e.Kind() == reflect.Interface {
		if e.IsNil() {
			return reflect.Value{}
		}
		e = e.Elem()
	}
	return e
}

// methodOn reports whether obj has a method called name, or called name with
// its first letter upper-cased. It returns the name that matched.
func methodOn(obj any, name string) (string, bool) {
	if obj == nil || name == "" {
		return "", false
	}
	v := reflect.ValueOf(obj)
	for _, candidate := range methodNames(name) {
		if v.MethodByName(candidate).IsValid() {
			return candidate, true
		}
	}
	return "", false
}

func methodValue(v reflect.Value, name string) (reflect.Value, bool) {
	for _, candidate := range methodNames(name) {
		if m := v.MethodByName(candidate); m.IsValid() {
			return m, true
		}
	}
	return reflect.Value{}, false
}

// methodNames lists the spellings tried for a declared method name. Go only
// exposes exported methods through reflection, so "isSearchable" also
// matches IsSearchable.
func methodNames(name string) []string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError || !unicode.IsLower(r) {
		return []string{name}
	}
	return []string{name, string(unicode.ToUpper(r)) + name[size:]}
}
