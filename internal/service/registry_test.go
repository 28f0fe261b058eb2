package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dome-Systems/indexability-go/internal/policy"
)

type spamFilter struct{}

func (spamFilter) Check(any) bool { return true }

func TestRegistry_Lookup(t *testing.T) {
	r := NewRegistry()
	svc := &spamFilter{}
	r.Register("spam", svc)

	got, err := r.Lookup("spam")
	require.NoError(t, err)
	assert.Same(t, svc, got)

	_, err = r.Lookup("ham")
	require.Error(t, err)
	assert.True(t, errors.Is(err, policy.ErrUnknownService))

	var unknown *policy.UnknownServiceError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "ham", unknown.ID)
}

func TestRegistry_RegisterReplaces(t *testing.T) {
	r := NewRegistry()
	r.Register("spam", 1)
	r.Register("spam", 2)
	r.Register("alpha", 3)

	got, err := r.Lookup("spam")
	require.NoError(t, err)
	assert.Equal(t, 2, got)
	assert.Equal(t, []string{"alpha", "spam"}, r.IDs())
}

func TestRegistry_ResolvesServicePolicies(t *testing.T) {
	r := NewRegistry()
	r.Register("spam", spamFilter{})
	resolver := policy.NewResolver(r, nil)

	resolved, err := resolver.Resolve(policy.ActionInclude, "blog/comment", []string{"@spam", "Check"}, struct{}{})
	require.NoError(t, err)

	ok, err := resolved.Evaluate(struct{}{})
	require.NoError(t, err)
	assert.True(t, ok)
}
