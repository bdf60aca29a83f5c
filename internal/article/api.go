package article

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"unicode/utf8"

	"github.com/SergeyParamoshkin/voil/internal/articlerequest"
	"github.com/SergeyParamoshkin/voil/internal/articleresponse"
	"github.com/SergeyParamoshkin/voil/internal/errresponse"
	"github.com/SergeyParamoshkin/voil/internal/urlparam"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"go.uber.org/zap"
)

// MaxRequestBytes caps the JSON payload accepted by UpdateArticle.
const MaxRequestBytes = 1 << 20

// API serves the JSON endpoints under /api.
type API struct {
	store *Store
	log   *zap.SugaredLogger
}

func NewAPI(store *Store, log *zap.SugaredLogger) *API {
	return &API{store: store, log: log}
}

// Router returns the /api sub-router.
func (a *API) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		if err := render.Render(w, r, errresponse.ErrNotFound); err != nil {
			a.log.Errorw(err.Error())
		}
	})

	r.Get("/articles", a.ListArticles)

	r.Route("/article/{title}", func(r chi.Router) {
		r.Use(TitleCtx("title", a.reject))
		r.Put("/", a.UpdateArticle)        // PUT /api/article/hello {"body": "..."}
		r.Delete("/", a.DeleteArticle)     // DELETE /api/article/hello
		r.Post("/{body}", a.CreateArticle) // POST /api/article/hello/world
	})

	return r
}

// ListArticles returns every title as data.
func (a *API) ListArticles(w http.ResponseWriter, r *http.Request) {
	titles, err := a.store.ListTitles(r.Context())
	if err != nil {
		a.fail(w, r, err)

		return
	}

	a.render(w, r, articleresponse.NewArticleListResponse(titles))
}

// CreateArticle stores the body taken from the path under the title,
// overwriting any existing article.
func (a *API) CreateArticle(w http.ResponseWriter, r *http.Request) {
	body, err := urlparam.Decoded(r, "body")
	if err != nil {
		a.reject(w, r, err)

		return
	}

	a.put(w, r, TitleFromContext(r.Context()), body)
}

// UpdateArticle stores a JSON-encoded body under the title.
func (a *API) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, MaxRequestBytes+1))
	if err != nil {
		a.reject(w, r, err)

		return
	}

	if len(raw) > MaxRequestBytes {
		a.tooLarge(w, r, fmt.Errorf("request body exceeds %d bytes", MaxRequestBytes))

		return
	}

	// json.Unmarshal swaps invalid bytes for U+FFFD, so check before decoding.
	if !utf8.Valid(raw) {
		a.reject(w, r, errors.New("request body is not valid UTF-8"))

		return
	}

	r.Body = io.NopCloser(bytes.NewReader(raw))

	data := &articlerequest.ArticleRequest{}
	if err := render.Bind(r, data); err != nil {
		a.reject(w, r, err)

		return
	}

	a.put(w, r, TitleFromContext(r.Context()), *data.Body)
}

// DeleteArticle removes the article. Missing articles are not an error.
func (a *API) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	title := TitleFromContext(r.Context())

	if err := a.store.Delete(r.Context(), title); err != nil {
		a.fail(w, r, err)

		return
	}

	a.log.Infow("article deleted", "title", title)
	a.render(w, r, articleresponse.NewSuccessResponse())
}

func (a *API) put(w http.ResponseWriter, r *http.Request, title, body string) {
	if !utf8.ValidString(body) {
		a.reject(w, r, errors.New("body is not valid UTF-8"))

		return
	}

	err := a.store.Put(r.Context(), title, body)
	switch {
	case errors.Is(err, ErrInvalidText):
		a.reject(w, r, err)

		return
	case errors.Is(err, ErrTooLarge):
		a.tooLarge(w, r, err)

		return
	case err != nil:
		a.fail(w, r, err)

		return
	}

	a.log.Infow("article saved", "title", title, "bytes", len(body))
	a.render(w, r, articleresponse.NewSuccessResponse())
}

func (a *API) render(w http.ResponseWriter, r *http.Request, v render.Renderer) {
	if err := render.Render(w, r, v); err != nil {
		err = render.Render(w, r, errresponse.ErrRender(err))
		if err != nil {
			a.log.Errorw(err.Error())
		}
	}
}

func (a *API) reject(w http.ResponseWriter, r *http.Request, err error) {
	if err := render.Render(w, r, errresponse.ErrInvalidRequest(err)); err != nil {
		a.log.Errorw(err.Error())
	}
}

func (a *API) tooLarge(w http.ResponseWriter, r *http.Request, err error) {
	a.log.Warnw("article rejected", "path", r.URL.Path, "error", err)

	if err := render.Render(w, r, errresponse.ErrTooLarge(err)); err != nil {
		a.log.Errorw(err.Error())
	}
}

func (a *API) fail(w http.ResponseWriter, r *http.Request, err error) {
	a.log.Errorw("article store failure", "path", r.URL.Path, "error", err)

	if err := render.Render(w, r, errresponse.ErrBackend(err)); err != nil {
		a.log.Errorw(err.Error())
	}
}
