// Package kvtest holds behaviour checks shared by every kv.Store implementation.
package kvtest

import (
	"context"
	"testing"

	"github.com/SergeyParamoshkin/voil/internal/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run exercises newStore against the kv.Store contract. Each subtest gets a fresh store.
func Run(t *testing.T, newStore func(t *testing.T) kv.Store) {
	ctx := context.Background()

	t.Run("get missing", func(t *testing.T) {
		s := newStore(t)

		_, err := s.Get(ctx, "article:nope")
		assert.ErrorIs(t, err, kv.ErrNotFound)
	})

	t.Run("put then get", func(t *testing.T) {
		s := newStore(t)

		require.NoError(t, s.Put(ctx, "article:hello", []byte(`{"body":"world"}`)))

		v, err := s.Get(ctx, "article:hello")
		require.NoError(t, err)
		assert.Equal(t, `{"body":"world"}`, string(v))
	})

	t.Run("put overwrites", func(t *testing.T) {
		s := newStore(t)

		require.NoError(t, s.Put(ctx, "k", []byte("one")))
		require.NoError(t, s.Put(ctx, "k", []byte("two")))

		v, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "two", string(v))
	})

	t.Run("empty value", func(t *testing.T) {
		s := newStore(t)

		require.NoError(t, s.Put(ctx, "k", []byte{}))

		v, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.Empty(t, v)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		s := newStore(t)

		require.NoError(t, s.Put(ctx, "k", []byte("v")))
		require.NoError(t, s.Delete(ctx, "k"))
		require.NoError(t, s.Delete(ctx, "k"))
		require.NoError(t, s.Delete(ctx, "never-written"))

		_, err := s.Get(ctx, "k")
		assert.ErrorIs(t, err, kv.ErrNotFound)
	})

	t.Run("keys by prefix", func(t *testing.T) {
		s := newStore(t)

		keys, err := s.Keys(ctx, "article:")
		require.NoError(t, err)
		assert.Empty(t, keys)

		for _, k := range []string{"article:A", "article:B", "article:C", "session:x", "articles"} {
			require.NoError(t, s.Put(ctx, k, []byte("v")))
		}

		keys, err = s.Keys(ctx, "article:")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"article:A", "article:B", "article:C"}, keys)

		require.NoError(t, s.Delete(ctx, "article:B"))

		keys, err = s.Keys(ctx, "article:")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"article:A", "article:C"}, keys)
	})

	t.Run("special characters in keys", func(t *testing.T) {
		s := newStore(t)

		for _, k := range []string{"article:hello world", "article:100%", "article:a/b", "article:日本語", "article:_%"} {
			require.NoError(t, s.Put(ctx, k, []byte(k)))

			v, err := s.Get(ctx, k)
			require.NoError(t, err, k)
			assert.Equal(t, k, string(v))
		}

		keys, err := s.Keys(ctx, "article:_")
		require.NoError(t, err)
		assert.Equal(t, []string{"article:_%"}, keys)
	})
}
