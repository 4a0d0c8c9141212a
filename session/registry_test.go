package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tbxark/interviewform/controller"
)

type staticSource string

func (s staticSource) FetchUserID(ctx context.Context) (string, error) {
	return string(s), nil
}

func newFactory(created *int) Factory {
	var mu sync.Mutex
	return func(ctx context.Context) (*controller.Controller, error) {
		mu.Lock()
		*created++
		mu.Unlock()
		return controller.New(staticSource("u1"), nil)
	}
}

func TestRegistry_AcquirePerKey(t *testing.T) {
	var created int
	r := NewRegistry(newFactory(&created))

	a := WithKey(context.Background(), "a")
	b := WithKey(context.Background(), "b")

	c1, err := r.Acquire(a)
	require.NoError(t, err)
	c2, err := r.Acquire(a)
	require.NoError(t, err)
	c3, err := r.Acquire(b)
	require.NoError(t, err)

	assert.Same(t, c1, c2)
	assert.NotSame(t, c1, c3)
	assert.Equal(t, 2, created)

	require.NoError(t, c1.Wait(context.Background()))
	assert.Equal(t, "u1", c1.Snapshot().UserID)

	got, ok, err := r.Get(b)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Same(t, c3, got)
}

func TestRegistry_DefaultKeyAndRemove(t *testing.T) {
	var created int
	r := NewRegistry(newFactory(&created))
	ctx := context.Background()

	_, ok, err := r.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	c1, err := r.Acquire(ctx)
	require.NoError(t, err)
	got, ok, err := r.Get(WithKey(ctx, DefaultKey))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Same(t, c1, got)

	require.NoError(t, r.Remove(ctx))
	c2, err := r.Acquire(ctx)
	require.NoError(t, err)
	assert.NotSame(t, c1, c2)
	assert.Equal(t, 2, created)
}

func TestRegistry_FactoryError(t *testing.T) {
	r := NewRegistry(func(ctx context.Context) (*controller.Controller, error) {
		return nil, errors.New("no endpoint")
	})
	_, err := r.Acquire(context.Background())
	assert.ErrorContains(t, err, "no endpoint")
}

func TestKeys(t *testing.T) {
	_, ok := KeyFromContext(context.Background())
	assert.False(t, ok)
	key, ok := KeyFromContext(WithKey(context.Background(), "k"))
	assert.True(t, ok)
	assert.Equal(t, "k", key)
	assert.NotEqual(t, NewKey(), NewKey())
}
