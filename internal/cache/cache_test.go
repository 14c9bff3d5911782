package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyNormalizesQueryText(t *testing.T) {
	assert.Equal(t, Key("  Berapa Event?  ", "m8;"), Key("berapa event?", "m8;"))
	assert.NotEqual(t, Key("berapa event?", "m8;"), Key("berapa event?", "m9;"))
}

func TestGetSetRoundTrip(t *testing.T) {
	c := New(10, time.Minute)

	_, ok := c.Get("k")
	assert.False(t, ok)

	c.Set("k", "answer")
	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "answer", v)
}

func TestEvictsOldestAtCapacity(t *testing.T) {
	c := New(3, time.Minute)
	for i := 0; i < 3; i++ {
		c.Set(fmt.Sprintf("k%d", i), i)
	}
	c.Set("k3", 3)

	_, ok := c.Get("k0")
	assert.False(t, ok, "oldest entry must be evicted")
	for i := 1; i <= 3; i++ {
		_, ok := c.Get(fmt.Sprintf("k%d", i))
		assert.True(t, ok)
	}
}

func TestOverwriteDoesNotEvict(t *testing.T) {
	c := New(2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("a", 3)

	v, ok := c.Get("b")
	require.True(t, ok)
	assert.Equal(t, 2, v)
	v, _ = c.Get("a")
	assert.Equal(t, 3, v)
}

func TestExpiry(t *testing.T) {
	c := New(10, 10*time.Millisecond)
	c.Set("k", "v")
	time.Sleep(30 * time.Millisecond)

	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Stats().Entries)
}

func TestStats(t *testing.T) {
	c := New(10, time.Minute)
	c.Set("k", "v")
	c.Get("k")
	c.Get("missing")

	s := c.Stats()
	assert.Equal(t, 1, s.Entries)
	assert.Equal(t, int64(1), s.Hits)
	assert.Equal(t, int64(1), s.Misses)
	assert.InDelta(t, 0.5, s.HitRate, 1e-9)

	c.Clear()
	s = c.Stats()
	assert.Equal(t, 0, s.Entries)
	assert.Equal(t, int64(0), s.Hits)
}
