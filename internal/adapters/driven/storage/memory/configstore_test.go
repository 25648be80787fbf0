package memory

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("github.repo", "acme/agent"))
	val, ok := store.Get("github.repo")
	assert.True(t, ok)
	assert.Equal(t, "acme/agent", val)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	tests := []struct {
		name       string
		value      any
		wantString string
		wantInt    int
	}{
		{name: "string", value: "sqlite", wantString: "sqlite"},
		{name: "int", value: 42, wantInt: 42},
		{name: "int64 as decoded from TOML", value: int64(100000), wantInt: 100000},
		{name: "float64 as decoded from JSON", value: float64(7), wantInt: 7},
		{name: "bool is neither", value: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewConfigStore()
			require.NoError(t, store.Set("k", tt.value))
			assert.Equal(t, tt.wantString, store.GetString("k"))
			assert.Equal(t, tt.wantInt, store.GetInt("k"))
		})
	}
}

func TestConfigStore_NoOpPersistence(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("k", "v"))

	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
	assert.Equal(t, "v", store.GetString("k"))
	assert.Empty(t, store.Path())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("key.%d", n)
			assert.NoError(t, store.Set(key, n))
			assert.Equal(t, n, store.GetInt(key))
		}(i)
	}
	wg.Wait()
}
