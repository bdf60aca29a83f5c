package article

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/SergeyParamoshkin/voil/internal/urlparam"
)

// ErrInvalidTitle is returned for titles that cannot be stored or routed.
var ErrInvalidTitle = errors.New("invalid title")

type ctxKey int8

const ctxKeyTitle ctxKey = iota

// ValidateTitle rejects titles that cannot round-trip through a URL path
// segment: empty, "." or "..", containing a path separator, or not UTF-8.
func ValidateTitle(title string) error {
	if title == "" {
		return fmt.Errorf("%w: empty", ErrInvalidTitle)
	}

	if title == "." || title == ".." {
		return fmt.Errorf("%w: %q is a dot segment", ErrInvalidTitle, title)
	}

	if !utf8.ValidString(title) {
		return fmt.Errorf("%w: %q is not valid UTF-8", ErrInvalidTitle, title)
	}

	if strings.Contains(title, "/") {
		return fmt.Errorf("%w: %q contains '/'", ErrInvalidTitle, title)
	}

	return nil
}

// TitleCtx middleware decodes and validates the named URL parameter and puts
// the title on the request context. Invalid titles go to reject and the
// chain stops there.
func TitleCtx(param string, reject func(w http.ResponseWriter, r *http.Request, err error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			title, err := urlparam.Decoded(r, param)
			if err != nil {
				reject(w, r, fmt.Errorf("%w: %v", ErrInvalidTitle, err))

				return
			}

			if err := ValidateTitle(title); err != nil {
				reject(w, r, err)

				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyTitle, title)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TitleFromContext returns the title stored by TitleCtx.
func TitleFromContext(ctx context.Context) string {
	title, _ := ctx.Value(ctxKeyTitle).(string)

	return title
}
