package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSet(t *testing.T) {
	c := New(time.Minute, time.Minute)

	_, ok := c.Get("rules:q:a")
	assert.False(t, ok)

	c.Set("rules:q:a", []byte(`[{"rule_id":"x"}]`))
	b, ok := c.Get("rules:q:a")
	require.True(t, ok)
	assert.Equal(t, `[{"rule_id":"x"}]`, string(b))
}

func TestInvalidatePrefix(t *testing.T) {
	c := New(time.Minute, time.Minute)
	c.Set("rules:q:a", []byte("1"))
	c.Set("rules:q:b", []byte("2"))
	c.Set("other:key", []byte("3"))

	c.InvalidatePrefix("rules:")

	_, ok := c.Get("rules:q:a")
	assert.False(t, ok)
	_, ok = c.Get("rules:q:b")
	assert.False(t, ok)
	_, ok = c.Get("other:key")
	assert.True(t, ok, "unrelated keys survive")
}

func TestZeroTTLFallsBackToDefault(t *testing.T) {
	c := New(0, 0)
	c.Set("k", []byte("v"))
	_, ok := c.Get("k")
	assert.True(t, ok)
}
