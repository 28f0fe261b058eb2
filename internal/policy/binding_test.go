package policy

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

type blankNamer struct{}

func (blankNamer) SearchTypeName() string { return "  " }

func TestVariableName(t *testing.T) {
	assert.Equal(t, "post", VariableName(&post{}))
	assert.Equal(t, "object", VariableName(&comment{}), "types without SearchTypeName")
	assert.Equal(t, "object", VariableName("a string"))
	assert.Equal(t, "object", VariableName(nil))
	assert.Equal(t, "object", VariableName(blankNamer{}))
}

func TestBindings(t *testing.T) {
	p := &post{}
	b := Bindings(p)
	assert.Len(t, b, 2)
	assert.Same(t, p, b["object"])
	assert.Same(t, p, b["post"])

	c := &comment{}
	b = Bindings(c)
	assert.Len(t, b, 1)
	assert.Same(t, c, b["object"])
}

func reflectValue(v any) reflect.Value { return reflect.ValueOf(v) }
