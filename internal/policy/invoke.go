package policy

import (
	"fmt"
	"reflect"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// checkSignature verifies that fn takes exactly in arguments and returns a
// value, optionally followed by an error. The second result must be declared
// as the error interface itself; concrete types that implement error are
// rejected.
func checkSignature(fn reflect.Type, in int) error {
	if fn.Kind() != reflect.Func {
		return fmt.Errorf("%s is not a function", fn)
	}
	if fn.IsVariadic() || fn.NumIn() != in {
		return fmt.Errorf("%s must take exactly %d argument(s)", fn, in)
	}
	switch fn.NumOut() {
	case 1:
	case 2:
		if fn.Out(1) != errorType {
			return fmt.Errorf("second result of %s must be of type error", fn)
		}
	default:
		return fmt.Errorf("%s must return a value, or a value and an error", fn)
	}
	return nil
}

// checkArgument verifies that sample can be passed as fn's only argument.
// A nil sample always fits.
func checkArgument(fn reflect.Type, sample any) error {
	if sample == nil {
		return nil
	}
	if t := reflect.TypeOf(sample); !t.AssignableTo(fn.In(0)) {
		return fmt.Errorf("%s cannot accept an argument of type %s", fn, t)
	}
	return nil
}

// call invokes fn with args (nil becomes the parameter's zero value) and
// returns its first result and its error result, if it has one.
func call(fn reflect.Value, args ...any) (any, error) {
	t := fn.Type()
	in := make([]reflect.Value, len(args))
	for i, a := range args {
		if a == nil {
			in[i] = reflect.Zero(t.In(i))
			continue
		}
		av := reflect.ValueOf(a)
		if !av.Type().AssignableTo(t.In(i)) {
			return nil, fmt.Errorf("%s cannot accept an argument of type %s", t, av.Type())
		}
		in[i] = av
	}

	out := fn.Call(in)
	if len(out) == 2 {
		if err, _ := out[1].Interface().(error); err != nil {
			return nil, err
		}
	}
	return out[0].Interface(), nil
}

// Truthy reports whether v counts as true: nil, false, "", zero numbers,
// empty slices, maps, arrays and channels and nil pointers are false;
// everything else, including any struct, is true.
func Truthy(v any) bool {
	switch b := v.(type) {
	case nil:
		return false
	case bool:
		return b
	case string:
		return b != ""
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.String:
		return rv.Len() > 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	case reflect.Complex64, reflect.Complex128:
		return rv.Complex() != 0
	case reflect.Slice, reflect.Map, reflect.Array, reflect.Chan:
		return rv.Len() > 0
	case reflect.Pointer, reflect.Interface, reflect.Func, reflect.UnsafePointer:
		return !rv.IsNil()
	default:
		return true
	}
}
