package kvhttp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SergeyParamoshkin/voil/internal/kv"
	"github.com/SergeyParamoshkin/voil/internal/kv/kvtest"
	"github.com/SergeyParamoshkin/voil/internal/kv/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestClientAgainstHandler(t *testing.T) {
	kvtest.Run(t, func(t *testing.T) kv.Store {
		srv := httptest.NewServer(NewHandler(memory.New(), zaptest.NewLogger(t).Sugar()))
		t.Cleanup(srv.Close)

		c, err := NewClient(srv.URL + "/")
		require.NoError(t, err)

		return c
	})
}

func TestNewClientRequiresURL(t *testing.T) {
	_, err := NewClient("  ")
	assert.Error(t, err)
}

func TestServerErrorsAreUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	ctx := context.Background()

	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, kv.ErrUnavailable)
	assert.ErrorIs(t, c.Put(ctx, "k", []byte("v")), kv.ErrUnavailable)
	assert.ErrorIs(t, c.Delete(ctx, "k"), kv.ErrUnavailable)

	_, err = c.Keys(ctx, "")
	assert.ErrorIs(t, err, kv.ErrUnavailable)
}

func TestUnreachableBackend(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewClient(url)
	require.NoError(t, err)

	_, err = c.Get(context.Background(), "k")
	assert.ErrorIs(t, err, kv.ErrUnavailable)
}

func TestPutTooLarge(t *testing.T) {
	srv := httptest.NewServer(NewHandler(memory.New(), zaptest.NewLogger(t).Sugar()))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	err = c.Put(context.Background(), "k", make([]byte, MaxValueSize+1))
	assert.ErrorIs(t, err, kv.ErrTooLarge)
	assert.NotErrorIs(t, err, kv.ErrUnavailable)

	require.NoError(t, c.Put(context.Background(), "k", make([]byte, MaxValueSize)))
}
