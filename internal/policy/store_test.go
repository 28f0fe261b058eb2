package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Lookup(t *testing.T) {
	include := map[string]any{"blog/post": "IsPublished", "blog/draft": nil}
	s := NewStore(include, map[string]any{"blog/post": "object.Published"})

	raw, ok := s.Lookup(ActionInclude, "blog/post")
	require.True(t, ok)
	assert.Equal(t, "IsPublished", raw)

	raw, ok = s.Lookup(ActionUpdate, "blog/post")
	require.True(t, ok)
	assert.Equal(t, "object.Published", raw)

	_, ok = s.Lookup(ActionInclude, "blog/comment")
	assert.False(t, ok, "absent key is no policy")

	_, ok = s.Lookup(ActionInclude, "blog/draft")
	assert.False(t, ok, "nil declaration is no policy")

	_, ok = s.Lookup(Action("delete"), "blog/post")
	assert.False(t, ok, "unknown action has no table")
}

func TestStore_CopiesInput(t *testing.T) {
	include := map[string]any{"blog/post": "IsPublished"}
	s := NewStore(include, nil)

	include["blog/post"] = "Other"
	include["blog/comment"] = "Approved"

	raw, _ := s.Lookup(ActionInclude, "blog/post")
	assert.Equal(t, "IsPublished", raw)
	_, ok := s.Lookup(ActionInclude, "blog/comment")
	assert.False(t, ok)
}

func TestStore_Keys(t *testing.T) {
	s := NewStore(map[string]any{"shop/product": 1, "blog/post": 2, "blog/comment": 3}, nil)

	assert.Equal(t, []string{"blog/comment", "blog/post", "shop/product"}, s.Keys(ActionInclude))
	assert.Empty(t, s.Keys(ActionUpdate))
}
