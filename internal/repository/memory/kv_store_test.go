package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/leettrack/internal/repository/memory"
)

func TestKVStore(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKVStore()

	_, found, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)

	value := []byte("v1")
	require.NoError(t, kv.Set(ctx, "k", value))
	value[0] = 'x'

	got, found, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v1", string(got), "stored value must not alias the caller's slice")

	require.NoError(t, kv.Delete(ctx, "k"))
	_, found, _ = kv.Get(ctx, "k")
	assert.False(t, found)
}

func TestKVStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, memory.NewKVStore().Set(ctx, "k", nil), context.Canceled)
}
