package memory

import (
	"context"
	"testing"

	"github.com/SergeyParamoshkin/voil/internal/kv"
	"github.com/SergeyParamoshkin/voil/internal/kv/kvtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	kvtest.Run(t, func(t *testing.T) kv.Store {
		return New()
	})
}

func TestSeedAndCopies(t *testing.T) {
	s := New()
	raw := []byte("v1")
	s.Seed(map[string][]byte{"k": raw})

	raw[0] = 'x'

	v, err := s.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "v1", string(v))

	v[0] = 'y'

	again, err := s.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "v1", string(again))
}
