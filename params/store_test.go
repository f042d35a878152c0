package params

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStoreDeclareAppliesDefault(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	err := s.Declare(ctx, "iterations", Number[uint32](0, 1000, 300, "Number of Iterations"))
	require.NoError(t, err)

	require.Equal(t, uint32(300), Get[uint32](ctx, s, "iterations"))
}

func TestStoreDeclareTwiceFails(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	require.NoError(t, s.Declare(ctx, "lambda", Number(0.0, 2.0, 1.0, "")))
	require.Error(t, s.Declare(ctx, "lambda", Number(0.0, 2.0, 1.0, "")))
}

func TestStoreSetValidatesBounds(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.Declare(ctx, "lambda", Number(0.0, 2.0, 1.0, "")))

	require.Error(t, s.Set(ctx, "lambda", 2.5))
	require.Error(t, s.Set(ctx, "lambda", -0.1))
	require.Error(t, s.Set(ctx, "lambda", "not a number"))
	require.Error(t, s.Set(ctx, "undeclared", 1.0))
	require.Equal(t, 1.0, Get[float64](ctx, s, "lambda"))

	require.NoError(t, s.Set(ctx, "lambda", 0.5))
	require.Equal(t, 0.5, Get[float64](ctx, s, "lambda"))
}

func TestStoreEnum(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.Declare(ctx, "mode", Enum([]string{"fast", "precise"}, "fast", "")))

	require.Error(t, s.Set(ctx, "mode", "sloppy"))
	require.NoError(t, s.Set(ctx, "mode", "precise"))
	require.Equal(t, "precise", Get[string](ctx, s, "mode"))
}

func TestStoreNotifiesListeners(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.Declare(ctx, "lambda", Number(0.0, 2.0, 1.0, "")))

	var notified []Key
	s.AddListener(func(ctx context.Context, key Key) {
		// reading the store back from a listener must not deadlock
		_ = Get[float64](ctx, s, key)
		notified = append(notified, key)
	})

	require.NoError(t, s.Set(ctx, "lambda", 0.25))
	require.Equal(t, []Key{"lambda"}, notified)

	// a rejected update must not notify
	require.Error(t, s.Set(ctx, "lambda", 3.0))
	require.Equal(t, []Key{"lambda"}, notified)
}

func TestStoreKeys(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.Declare(ctx, "b", Number(0.0, 1.0, 0.0, "")))
	require.NoError(t, s.Declare(ctx, "a", Number(0.0, 1.0, 0.0, "")))

	require.Equal(t, []Key{"a", "b"}, s.Keys(ctx))

	r, ok := s.GetRange(ctx, "a")
	require.True(t, ok)
	require.NotNil(t, r)
	_, ok = s.GetRange(ctx, "c")
	require.False(t, ok)
}
