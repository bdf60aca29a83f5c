// Package kvhttp exposes a kv.Store over HTTP and provides the matching client.
//
// Protocol:
//
//	GET    /kv/{key}        -> 200 raw value, 404 when missing
//	PUT    /kv/{key}        -> 204, request body is the value
//	DELETE /kv/{key}        -> 204
//	GET    /kv?prefix={p}   -> 200 {"keys": [...]}
//
// Keys are path-escaped on the wire.
package kvhttp

import (
	"errors"
	"io"
	"net/http"

	"github.com/SergeyParamoshkin/voil/internal/kv"
	"github.com/SergeyParamoshkin/voil/internal/urlparam"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"go.uber.org/zap"
)

// MaxValueSize caps accepted PUT bodies.
const MaxValueSize = 1 << 20

type keysResponse struct {
	Keys []string `json:"keys"`
}

type Handler struct {
	store kv.Store
	log   *zap.SugaredLogger
}

// NewHandler returns a router serving store.
func NewHandler(store kv.Store, log *zap.SugaredLogger) http.Handler {
	h := &Handler{store: store, log: log}

	r := chi.NewRouter()
	r.Get("/kv", h.keys)
	r.Route("/kv/{key}", func(r chi.Router) {
		r.Get("/", h.get)
		r.Put("/", h.put)
		r.Delete("/", h.delete)
	})

	return r
}

func (h *Handler) keys(w http.ResponseWriter, r *http.Request) {
	keys, err := h.store.Keys(r.Context(), r.URL.Query().Get("prefix"))
	if err != nil {
		h.fail(w, "keys", err)

		return
	}

	render.JSON(w, r, keysResponse{Keys: keys})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	key, ok := h.key(w, r)
	if !ok {
		return
	}

	v, err := h.store.Get(r.Context(), key)
	if errors.Is(err, kv.ErrNotFound) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)

		return
	}
	if err != nil {
		h.fail(w, "get", err)

		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	if _, err := w.Write(v); err != nil {
		h.log.Errorw("write value", "key", key, "error", err)
	}
}

func (h *Handler) put(w http.ResponseWriter, r *http.Request) {
	key, ok := h.key(w, r)
	if !ok {
		return
	}

	v, err := io.ReadAll(io.LimitReader(r.Body, MaxValueSize+1))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}
	if len(v) > MaxValueSize {
		http.Error(w, http.StatusText(http.StatusRequestEntityTooLarge), http.StatusRequestEntityTooLarge)

		return
	}

	if err := h.store.Put(r.Context(), key, v); err != nil {
		h.fail(w, "put", err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	key, ok := h.key(w, r)
	if !ok {
		return
	}

	if err := h.store.Delete(r.Context(), key); err != nil {
		h.fail(w, "delete", err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) key(w http.ResponseWriter, r *http.Request) (string, bool) {
	key, err := urlparam.Decoded(r, "key")
	if err != nil || key == "" {
		http.Error(w, "invalid key", http.StatusBadRequest)

		return "", false
	}

	return key, true
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	h.log.Errorw("kv backend failure", "op", op, "error", err)
	http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
}
