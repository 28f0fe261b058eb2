package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruthy(t *testing.T) {
	var nilPost *post
	type flag bool
	type name string

	tests := []struct {
		name string
		v    any
		want bool
	}{
		{name: "nil", v: nil, want: false},
		{name: "true", v: true, want: true},
		{name: "false", v: false, want: false},
		{name: "named bool", v: flag(true), want: true},
		{name: "non-empty string", v: "yes", want: true},
		{name: "string false is still non-empty", v: "false", want: true},
		{name: "empty string", v: "", want: false},
		{name: "named empty string", v: name(""), want: false},
		{name: "zero int", v: 0, want: false},
		{name: "int", v: -3, want: true},
		{name: "uint", v: uint8(1), want: true},
		{name: "zero float", v: 0.0, want: false},
		{name: "float", v: 0.5, want: true},
		{name: "empty slice", v: []string{}, want: false},
		{name: "slice", v: []int{0}, want: true},
		{name: "empty map", v: map[string]int{}, want: false},
		{name: "nil pointer", v: nilPost, want: false},
		{name: "pointer", v: &post{}, want: true},
		{name: "struct", v: comment{}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truthy(tt.v))
		})
	}
}

func TestCall_NilArgument(t *testing.T) {
	fn := func(p *post) bool { return p == nil }
	v, err := call(reflectValue(fn), nil)
	assert.NoError(t, err)
	assert.Equal(t, true, v)
}

func TestCall_ArgumentMismatch(t *testing.T) {
	fn := func(p *post) bool { return true }
	_, err := call(reflectValue(fn), &comment{})
	assert.Error(t, err)
}

func TestCall_NilErrorResult(t *testing.T) {
	fn := func(p *post) (bool, error) { return true, nil }
	v, err := call(reflectValue(fn), &post{})
	assert.NoError(t, err)
	assert.Equal(t, true, v)
}

func TestCheckSignature_ConcreteErrorTypes(t *testing.T) {
	assert.NoError(t, checkSignature(reflectValue(func(*post) (bool, error) { return true, nil }).Type(), 1))
	assert.Error(t, checkSignature(reflectValue(func(*post) (bool, valueError) { return true, valueError{} }).Type(), 1))
	assert.Error(t, checkSignature(reflectValue(func(*post) (bool, *pointerError) { return true, nil }).Type(), 1))
}
