package memcache

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCache_SetAndGet(t *testing.T) {
	c := New[string, float64]()

	c.Set("BTC", 87000.5)
	c.Set("ETH", 2900.25)

	val, ok := c.Get("BTC")
	assert.True(t, ok)
	assert.Equal(t, 87000.5, val)

	val, ok = c.Get("ETH")
	assert.True(t, ok)
	assert.Equal(t, 2900.25, val)

	_, ok = c.Get("SOL")
	assert.False(t, ok)
}

func TestCache_SetOverwrites(t *testing.T) {
	c := New[string, float64]()

	c.Set("BTC", 1.0)
	c.Set("BTC", 2.0)

	val, ok := c.Get("BTC")
	assert.True(t, ok)
	assert.Equal(t, 2.0, val)
	assert.Equal(t, 1, c.Len())
}

func TestCache_Delete(t *testing.T) {
	c := New[string, int]()

	c.Set("a", 1)
	c.Delete("a")

	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestCache_KeysAndValues(t *testing.T) {
	c := New[string, int]()

	c.Set("a", 1)
	c.Set("b", 2)

	keys := c.Keys()
	assert.Len(t, keys, 2)
	assert.Contains(t, keys, "a")
	assert.Contains(t, keys, "b")

	values := c.Values()
	assert.Len(t, values, 2)
	assert.Contains(t, values, 1)
	assert.Contains(t, values, 2)
}

func TestCache_Clear(t *testing.T) {
	c := New[string, int]()

	c.Set("a", 1)
	c.Set("b", 2)
	c.Clear()

	assert.Equal(t, 0, c.Len())
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := New[int, int]()
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Set(i, i*2)
		}(i)
	}

	wg.Wait()
	assert.Equal(t, 100, c.Len())

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			val, ok := c.Get(i)
			assert.True(t, ok)
			assert.Equal(t, i*2, val)
		}(i)
	}

	wg.Wait()
}
