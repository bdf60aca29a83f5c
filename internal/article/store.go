package article

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/SergeyParamoshkin/voil/internal/kv"
	"github.com/SergeyParamoshkin/voil/internal/model"
	"go.uber.org/zap"
)

// KeyPrefix namespaces article keys in the shared backend.
const KeyPrefix = "article:"

// ErrBackend wraps every failure reported by the key-value backend.
var ErrBackend = errors.New("article: backend failure")

var (
	// ErrInvalidText is returned by Put for a title or body that is not
	// valid UTF-8 and would not survive JSON encoding unchanged.
	ErrInvalidText = errors.New("article: text is not valid UTF-8")
	// ErrTooLarge is returned by Put when the backend refuses the record size.
	ErrTooLarge = errors.New("article: record too large")
)

var errMissingBody = errors.New("article: record has no body field")

// Outcome tags the result of a Get.
type Outcome int

const (
	Found Outcome = iota + 1
	NotFound
	Malformed
)

func (o Outcome) String() string {
	switch o {
	case Found:
		return "found"
	case NotFound:
		return "not found"
	case Malformed:
		return "malformed"
	}

	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Result is what Get returns when the backend answered. Article is set
// only for Found, Err only for Malformed.
type Result struct {
	Outcome Outcome
	Article *model.Article
	Err     error
}

// Store maps article titles onto the key-value backend. It keeps no state of
// its own; every call goes to the backend.
type Store struct {
	kv  kv.Store
	log *zap.SugaredLogger
}

func NewStore(backend kv.Store, log *zap.SugaredLogger) *Store {
	return &Store{kv: backend, log: log}
}

// Key returns the backend key for title.
func Key(title string) string {
	return KeyPrefix + title
}

// ListTitles returns every stored title in backend order.
func (s *Store) ListTitles(ctx context.Context) ([]string, error) {
	keys, err := s.kv.Keys(ctx, KeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("%w: list: %v", ErrBackend, err)
	}

	titles := make([]string, 0, len(keys))
	for _, k := range keys {
		if !strings.HasPrefix(k, KeyPrefix) {
			continue
		}
		titles = append(titles, strings.TrimPrefix(k, KeyPrefix))
	}

	return titles, nil
}

func (s *Store) Get(ctx context.Context, title string) (Result, error) {
	raw, err := s.kv.Get(ctx, Key(title))
	if errors.Is(err, kv.ErrNotFound) {
		return Result{Outcome: NotFound}, nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("%w: get %q: %v", ErrBackend, title, err)
	}

	a, err := decode(raw)
	if err != nil {
		s.log.Warnw("malformed article record", "title", title, "error", err)

		return Result{Outcome: Malformed, Err: err}, nil
	}

	return Result{Outcome: Found, Article: a}, nil
}

// record mirrors model.Article with Body optional so a missing field is
// told apart from an empty one.
type record struct {
	Body *string `json:"body"`
}

func decode(raw []byte) (*model.Article, error) {
	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}

	if rec.Body == nil {
		return nil, errMissingBody
	}

	return &model.Article{Body: *rec.Body}, nil
}

// Put creates or overwrites the article stored under title.
func (s *Store) Put(ctx context.Context, title, body string) error {
	if !utf8.ValidString(title) {
		return fmt.Errorf("%w: title %q", ErrInvalidText, title)
	}

	if !utf8.ValidString(body) {
		return fmt.Errorf("%w: body of %q", ErrInvalidText, title)
	}

	raw, err := json.Marshal(model.Article{Body: body})
	if err != nil {
		return fmt.Errorf("article: encode %q: %w", title, err)
	}

	if err := s.kv.Put(ctx, Key(title), raw); err != nil {
		if errors.Is(err, kv.ErrTooLarge) {
			return fmt.Errorf("%w: put %q (%d bytes): %v", ErrTooLarge, title, len(raw), err)
		}

		return fmt.Errorf("%w: put %q: %v", ErrBackend, title, err)
	}

	return nil
}

// Delete removes title. Deleting a missing article succeeds.
func (s *Store) Delete(ctx context.Context, title string) error {
	if err := s.kv.Delete(ctx, Key(title)); err != nil {
		return fmt.Errorf("%w: delete %q: %v", ErrBackend, title, err)
	}

	return nil
}
