package sequence

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "USR-10001", Format(KindUser, 10001))
	assert.Equal(t, "PRD-10500", Format(KindProduct, 10500))
}

func TestMemoryAllocatorStartsAtBase(t *testing.T) {
	a := NewMemoryAllocator()

	first, err := a.Next(context.Background(), KindUser)
	require.NoError(t, err)
	assert.Equal(t, "USR-10001", first)

	second, err := a.Next(context.Background(), KindUser)
	require.NoError(t, err)
	assert.Equal(t, "USR-10002", second)
}

func TestMemoryAllocatorKindsAreIndependent(t *testing.T) {
	a := NewMemoryAllocator()

	_, err := a.Next(context.Background(), KindUser)
	require.NoError(t, err)

	id, err := a.Next(context.Background(), KindProduct)
	require.NoError(t, err)
	assert.Equal(t, "PRD-10001", id)
}

func TestMemoryAllocatorConcurrentAllocationsAreDistinct(t *testing.T) {
	a := NewMemoryAllocator()

	const n = 200
	ids := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := a.Next(context.Background(), KindUser)
			assert.NoError(t, err)
			ids <- id
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]struct{}, n)
	for id := range ids {
		_, dup := seen[id]
		assert.False(t, dup, "duplicate identifier %s", id)
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, n)
}
