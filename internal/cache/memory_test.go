package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemorySetGet(t *testing.T) {
	c := NewMemory(10)
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, "k", map[string]string{"a": "b"}, 0))

	var got map[string]string
	hit, err := c.GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	require.True(t, hit)
	require.Equal(t, "b", got["a"])
}

func TestMemoryMiss(t *testing.T) {
	c := NewMemory(10)

	var got string
	hit, err := c.GetJSON(context.Background(), "absent", &got)
	require.NoError(t, err)
	require.False(t, hit)
}

func TestMemoryEvictsOldestWhenFull(t *testing.T) {
	c := NewMemory(3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, c.SetJSON(ctx, fmt.Sprintf("k%d", i), i, 0))
	}
	require.NoError(t, c.SetJSON(ctx, "k3", 3, 0))

	var got int
	hit, _ := c.GetJSON(ctx, "k0", &got)
	require.False(t, hit, "oldest entry should be evicted")

	hit, _ = c.GetJSON(ctx, "k1", &got)
	require.True(t, hit)
	require.Equal(t, 3, c.Len())
}

func TestMemoryUpdateKeepsPosition(t *testing.T) {
	c := NewMemory(2)
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, "a", 1, 0))
	require.NoError(t, c.SetJSON(ctx, "b", 2, 0))
	// Updating "a" must not count as a new insertion.
	require.NoError(t, c.SetJSON(ctx, "a", 10, 0))
	require.NoError(t, c.SetJSON(ctx, "c", 3, 0))

	var got int
	hit, _ := c.GetJSON(ctx, "a", &got)
	require.False(t, hit, "a is still oldest and should be evicted")

	hit, _ = c.GetJSON(ctx, "b", &got)
	require.True(t, hit)
}

func TestMemoryTTLExpiry(t *testing.T) {
	c := NewMemory(10)
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, "k", "v", 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	var got string
	hit, err := c.GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	require.False(t, hit)
	require.Zero(t, c.Len())
}

func TestMemoryDel(t *testing.T) {
	c := NewMemory(10)
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, "a", 1, 0))
	require.NoError(t, c.SetJSON(ctx, "b", 2, 0))
	require.NoError(t, c.Del(ctx, "a", "missing"))

	var got int
	hit, _ := c.GetJSON(ctx, "a", &got)
	require.False(t, hit)
	require.Equal(t, 1, c.Len())
}

func TestMemoryDefaultCapacity(t *testing.T) {
	require.Equal(t, 100, NewMemory(0).Cap())
	require.Equal(t, 100, NewMemory(-5).Cap())
	require.Equal(t, 7, NewMemory(7).Cap())
}
