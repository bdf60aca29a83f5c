// Package urlparam reads chi path parameters as decoded strings.
package urlparam

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
)

// Decoded returns the named chi URL parameter with percent-escapes removed.
//
// chi matches against r.URL.RawPath when it is set, leaving parameters
// escaped; otherwise it matches the already-decoded r.URL.Path.
func Decoded(r *http.Request, name string) (string, error) {
	v := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return v, nil
	}

	return url.PathUnescape(v)
}
