package article

import (
	"context"
	"testing"

	"github.com/SergeyParamoshkin/voil/internal/kv"
	"github.com/SergeyParamoshkin/voil/internal/kv/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// brokenStore fails every call the way an unreachable backend would.
type brokenStore struct{}

func (brokenStore) Get(context.Context, string) ([]byte, error) { return nil, kv.ErrUnavailable }
func (brokenStore) Put(context.Context, string, []byte) error { return kv.ErrUnavailable }
func (brokenStore) Delete(context.Context, string) error { return kv.ErrUnavailable }
func (brokenStore) Keys(context.Context, string) ([]string, error) { return nil, kv.ErrUnavailable }

// fullStore refuses every write the way a size-capped backend does.
type fullStore struct{ *memory.Store }

func (fullStore) Put(context.Context, string, []byte) error { return kv.ErrTooLarge }

func newTestStore(t *testing.T) (*Store, *memory.Store) {
	backend := memory.New()

	return NewStore(backend, zaptest.NewLogger(t).Sugar()), backend
}

func TestGetNeverWritten(t *testing.T) {
	s, _ := newTestStore(t)

	res, err := s.Get(context.Background(), "nothing")
	require.NoError(t, err)
	assert.Equal(t, NotFound, res.Outcome)
	assert.Nil(t, res.Article)
}

func TestPutGetRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		title string
		body  string
	}{
		{"hello", "world"},
		{"empty body", ""},
		{"", "empty title"},
		{"quotes", `he said "hi" \ bye`},
		{"unicode", "日本語のページ"},
		{"markup", "<script>alert(1)</script>"},
	}

	for _, tt := range tests {
		require.NoError(t, s.Put(ctx, tt.title, tt.body))

		res, err := s.Get(ctx, tt.title)
		require.NoError(t, err)
		require.Equal(t, Found, res.Outcome, tt.title)
		assert.Equal(t, tt.body, res.Article.Body, tt.title)
	}
}

func TestPutOverwrites(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "t", "b1"))
	require.NoError(t, s.Put(ctx, "t", "b2"))

	res, err := s.Get(ctx, "t")
	require.NoError(t, err)
	assert.Equal(t, "b2", res.Article.Body)
}

func TestPutUsesNamespacedKey(t *testing.T) {
	s, backend := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "hello", "world"))

	raw, err := backend.Get(ctx, "article:hello")
	require.NoError(t, err)
	assert.JSONEq(t, `{"body":"world"}`, string(raw))
}

func TestDeleteIsIdempotent(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "gone", "soon"))
	require.NoError(t, s.Delete(ctx, "gone"))
	require.NoError(t, s.Delete(ctx, "gone"))
	require.NoError(t, s.Delete(ctx, "never"))

	for _, title := range []string{"gone", "never"} {
		res, err := s.Get(ctx, title)
		require.NoError(t, err)
		assert.Equal(t, NotFound, res.Outcome)
	}
}

func TestListTitles(t *testing.T) {
	s, backend := newTestStore(t)
	ctx := context.Background()

	titles, err := s.ListTitles(ctx)
	require.NoError(t, err)
	assert.NotNil(t, titles)
	assert.Empty(t, titles)

	for _, title := range []string{"A", "B", "C"} {
		require.NoError(t, s.Put(ctx, title, "x"))
	}
	// foreign keys sharing the backend are not articles
	require.NoError(t, backend.Put(ctx, "session:A", []byte("x")))

	titles, err = s.ListTitles(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"A", "B", "C"}, titles)

	require.NoError(t, s.Delete(ctx, "B"))

	titles, err = s.ListTitles(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"A", "C"}, titles)
}

func TestListStripsOnlyThePrefix(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "article:nested", "x"))

	titles, err := s.ListTitles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"article:nested"}, titles)
}

func TestGetMalformed(t *testing.T) {
	s, backend := newTestStore(t)
	ctx := context.Background()

	backend.Seed(map[string][]byte{
		"article:not-json":  []byte("{body: oops"),
		"article:wrong":     []byte(`{"body": 42}`),
		"article:null":      []byte("null"),
		"article:no-body":   []byte(`{"title":"x"}`),
		"article:empty":     []byte(""),
		"article:just-text": []byte("hello"),
	})

	for _, title := range []string{"not-json", "wrong", "null", "no-body", "empty", "just-text"} {
		res, err := s.Get(ctx, title)
		require.NoError(t, err, title)
		assert.Equal(t, Malformed, res.Outcome, title)
		assert.Error(t, res.Err, title)
		assert.Nil(t, res.Article, title)
	}
}

func TestBackendFailures(t *testing.T) {
	s := NewStore(brokenStore{}, zaptest.NewLogger(t).Sugar())
	ctx := context.Background()

	_, err := s.Get(ctx, "x")
	assert.ErrorIs(t, err, ErrBackend)

	_, err = s.ListTitles(ctx)
	assert.ErrorIs(t, err, ErrBackend)

	assert.ErrorIs(t, s.Put(ctx, "x", "y"), ErrBackend)
	assert.ErrorIs(t, s.Delete(ctx, "x"), ErrBackend)
}

func TestPutRejectsInvalidUTF8(t *testing.T) {
	s, backend := newTestStore(t)
	ctx := context.Background()

	assert.ErrorIs(t, s.Put(ctx, "t", "\xff"), ErrInvalidText)
	assert.ErrorIs(t, s.Put(ctx, "\xff", "body"), ErrInvalidText)
	assert.ErrorIs(t, s.Put(ctx, "ok", "a\xc3"), ErrInvalidText)

	keys, err := backend.Keys(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, keys)

	res, err := s.Get(ctx, "t")
	require.NoError(t, err)
	assert.Equal(t, NotFound, res.Outcome)
}

func TestPutTooLarge(t *testing.T) {
	s := NewStore(fullStore{memory.New()}, zaptest.NewLogger(t).Sugar())

	err := s.Put(context.Background(), "big", "body")
	assert.ErrorIs(t, err, ErrTooLarge)
	assert.NotErrorIs(t, err, ErrBackend)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "found", Found.String())
	assert.Equal(t, "not found", NotFound.String())
	assert.Equal(t, "malformed", Malformed.String())
	assert.Equal(t, "Outcome(0)", Outcome(0).String())
}
