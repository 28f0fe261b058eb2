package policy

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_ResolvesOnce(t *testing.T) {
	engine := &fakeEngine{}
	c := NewCache(NewResolver(nil, engine), true)

	for i := 0; i < 100; i++ {
		r, cached, err := c.GetOrResolve(ActionInclude, "blog/post", "object.Published", &post{Published: i%2 == 0})
		require.NoError(t, err)
		assert.Equal(t, i > 0, cached)
		assert.Equal(t, KindExpression, r.Kind())
	}
	assert.Equal(t, int32(1), engine.compiles.Load())
	assert.Equal(t, 1, c.Len())
}

func TestCache_KeyedByActionAndType(t *testing.T) {
	engine := &fakeEngine{}
	c := NewCache(NewResolver(nil, engine), true)

	for _, action := range []Action{ActionInclude, ActionUpdate} {
		for _, typeKey := range []string{"blog/post", "news/post"} {
			_, _, err := c.GetOrResolve(action, typeKey, "object.Published", &post{})
			require.NoError(t, err)
		}
	}
	assert.Equal(t, int32(4), engine.compiles.Load())
	assert.Equal(t, 4, c.Len())
}

func TestCache_FailuresAreNotCached(t *testing.T) {
	services := &countingServices{services: map[string]any{}}
	c := NewCache(NewResolver(services, nil), true)

	for i := 0; i < 3; i++ {
		_, _, err := c.GetOrResolve(ActionInclude, "blog/post", []string{"@late", "Check"}, &post{})
		assert.ErrorIs(t, err, ErrUnknownService)
	}
	assert.Equal(t, int32(3), services.lookups.Load(), "each call retries resolution")
	assert.Equal(t, 0, c.Len())

	services.services["late"] = &moderation{}
	_, cached, err := c.GetOrResolve(ActionInclude, "blog/post", []string{"@late", "Check"}, &post{})
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 1, c.Len())
}

func TestCache_Disabled(t *testing.T) {
	engine := &fakeEngine{}
	c := NewCache(NewResolver(nil, engine), false)

	for i := 0; i < 5; i++ {
		_, cached, err := c.GetOrResolve(ActionInclude, "blog/post", "object.Published", &post{})
		require.NoError(t, err)
		assert.False(t, cached)
	}
	assert.Equal(t, int32(5), engine.compiles.Load())
	assert.Equal(t, 0, c.Len())
}

func TestCache_ConcurrentFirstAccess(t *testing.T) {
	services := &countingServices{services: map[string]any{"moderation": &moderation{}}}
	c := NewCache(NewResolver(services, nil), true)

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			r, _, err := c.GetOrResolve(ActionInclude, "blog/post", []string{"@moderation", "Check"}, &post{})
			assert.NoError(t, err)
			assert.NotNil(t, r)
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), services.lookups.Load())
}
