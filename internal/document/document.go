// Package document normalises candidate objects into protobuf Struct values.
//
// Objects are first encoded with encoding/json, so json tags and custom
// MarshalJSON methods decide which attributes are visible.
package document

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// ToValue converts obj into a structpb.Value.
func ToValue(obj any) (*structpb.Value, error) {
	if v, ok := obj.(*structpb.Value); ok {
		return v, nil
	}
	if s, ok := obj.(*structpb.Struct); ok {
		return structpb.NewStructValue(s), nil
	}

	data, err := json.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("encode %T: %w", obj, err)
	}
	var v structpb.Value
	if err := protojson.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode %T: %w", obj, err)
	}
	return &v, nil
}

// ToStruct converts obj into a structpb.Struct. obj must encode as a JSON
// object.
func ToStruct(obj any) (*structpb.Struct, error) {
	v, err := ToValue(obj)
	if err != nil {
		return nil, err
	}
	s := v.GetStructValue()
	if s == nil {
		return nil, fmt.Errorf("%T does not encode as an object", obj)
	}
	return s, nil
}
