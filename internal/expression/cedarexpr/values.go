package cedarexpr

import (
	"math"
	"strconv"

	"github.com/cedar-policy/cedar-go"
	"google.golang.org/protobuf/types/known/structpb"
)

// toCedarValue maps a JSON-shaped value onto Cedar types. Integral numbers
// become Longs, other numbers their decimal string, lists become Sets and
// objects Records. Nulls have no Cedar counterpart and are dropped.
func toCedarValue(v *structpb.Value) (cedar.Value, bool) {
	switch k := v.GetKind().(type) {
	case *structpb.Value_BoolValue:
		return cedar.Boolean(k.BoolValue), true
	case *structpb.Value_StringValue:
		return cedar.String(k.StringValue), true
	case *structpb.Value_NumberValue:
		n := k.NumberValue
		if n == math.Trunc(n) && n >= math.MinInt64 && n < math.MaxInt64 {
			return cedar.Long(int64(n)), true
		}
		return cedar.String(strconv.FormatFloat(n, 'f', -1, 64)), true
	case *structpb.Value_ListValue:
		return toCedarSet(k.ListValue.GetValues()), true
	case *structpb.Value_StructValue:
		return toCedarRecord(k.StructValue), true
	default:
		return nil, false
	}
}

func toCedarSet(values []*structpb.Value) cedar.Value {
	if len(values) == 0 {
		return cedar.NewSet()
	}
	items := make([]cedar.Value, 0, len(values))
	for _, v := range values {
		if cv, ok := toCedarValue(v); ok {
			items = append(items, cv)
		}
	}
	return cedar.NewSet(items...)
}

func toCedarRecord(s *structpb.Struct) cedar.Record {
	attrs := cedar.RecordMap{}
	for name, v := range s.GetFields() {
		if cv, ok := toCedarValue(v); ok {
			attrs[cedar.String(name)] = cv
		}
	}
	return cedar.NewRecord(attrs)
}
