package collectionutils

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestSafeMap(t *testing.T) {
	m := New[string, int]()
	m.Store("a", 1)
	m.Store("b", 2)

	v, ok := m.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	m.Delete("a")
	_, ok = m.Get("a")
	assert.False(t, ok)

	m.Store("c", 3)
	m.DeleteFunc(func(_ string, v int) bool { return v > 2 })
	assert.Equal(t, 1, m.Len())

	m.Clear()
	assert.Zero(t, m.Len())
}

func TestSafeMap_ConcurrentStore(t *testing.T) {
	defer goleak.VerifyNone(t)

	m := New[int, int]()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m.Store(i, i*i)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 50, m.Len())
}
