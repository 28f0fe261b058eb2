package cedarexpr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_ValueMapping(t *testing.T) {
	e := New()
	doc := map[string]any{
		"count":   3,
		"ratio":   0.25,
		"enabled": true,
		"nested":  map[string]any{"level": 2},
		"nothing": nil,
	}
	bindings := map[string]any{"object": doc}

	tests := []struct {
		name      string
		condition string
	}{
		{name: "integral numbers are longs", condition: `context.object.count == 3`},
		{name: "fractions are decimal strings", condition: `context.object.ratio == "0.25"`},
		{name: "booleans", condition: `context.object.enabled`},
		{name: "records", condition: `context.object.nested.level > 1`},
		{name: "nulls are dropped", condition: `!(context.object has nothing)`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := e.Compile(tt.condition, bindings)
			require.NoError(t, err)
			out, err := e.Evaluate(prog, bindings)
			require.NoError(t, err)
			assert.Equal(t, true, out)
		})
	}
}
