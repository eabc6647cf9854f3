package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPresence(t *testing.T) {
	p := NewPresence()
	first := &Client{connID: "first"}
	second := &Client{connID: "second"}

	t.Run("empty table", func(t *testing.T) {
		assert.Nil(t, p.Get(1))
		assert.False(t, p.Remove(1, first))
	})

	t.Run("set and get", func(t *testing.T) {
		p.Set(1, first)
		assert.Same(t, first, p.Get(1))
	})

	t.Run("last registration wins", func(t *testing.T) {
		p.Set(1, second)
		assert.Same(t, second, p.Get(1))
	})

	t.Run("stale owner cannot remove", func(t *testing.T) {
		assert.False(t, p.Remove(1, first))
		assert.Same(t, second, p.Get(1))
	})

	t.Run("current owner removes", func(t *testing.T) {
		assert.True(t, p.Remove(1, second))
		assert.Nil(t, p.Get(1))
	})

	t.Run("remove is idempotent", func(t *testing.T) {
		assert.False(t, p.Remove(1, second))
	})

	t.Run("entries are independent per user", func(t *testing.T) {
		p.Set(1, first)
		p.Set(2, second)
		assert.True(t, p.Remove(1, first))
		assert.Same(t, second, p.Get(2))
	})
}
