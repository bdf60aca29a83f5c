package article

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFiles embed.FS

//go:embed static
var staticFiles embed.FS

var templates = template.Must(
	template.New("").Funcs(template.FuncMap{"pathEscape": url.PathEscape}).ParseFS(templateFiles, "templates/*.html"),
)

// Static returns the embedded stylesheet directory.
func Static() http.FileSystem {
	fsys, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}

	return http.FS(fsys)
}

type listPage struct {
	Titles []string
}

type articlePage struct {
	Title string
	Body  string
}

type errorPage struct {
	Heading string
	Message string
}

// Pages renders the HTML views. It holds no state between requests.
type Pages struct {
	store *Store
	log   *zap.SugaredLogger
}

func NewPages(store *Store, log *zap.SugaredLogger) *Pages {
	return &Pages{store: store, log: log}
}

// Routes registers the HTML views on r.
func (p *Pages) Routes(r chi.Router) {
	r.Get("/", p.List)
	r.Get("/new", p.New)
	r.With(TitleCtx("name", p.reject)).Get("/edit/{name}", p.Edit)
	r.With(TitleCtx("title", p.reject)).Get("/delete/{title}", p.Delete)
}

// List links every article. An empty store renders an empty list.
func (p *Pages) List(w http.ResponseWriter, r *http.Request) {
	titles, err := p.store.ListTitles(r.Context())
	if err != nil {
		p.log.Errorw("list articles", "error", err)
		p.render(w, r, http.StatusInternalServerError, "error.html", errorPage{
			Heading: "Articles",
			Message: "Error occurred while listing pages.",
		})

		return
	}

	p.render(w, r, http.StatusOK, "list.html", listPage{Titles: titles})
}

func (p *Pages) New(w http.ResponseWriter, r *http.Request) {
	p.render(w, r, http.StatusOK, "new.html", nil)
}

// Edit shows the article body for editing, an offer to create it when it is
// missing, or a read error when the record is corrupt or unreachable.
func (p *Pages) Edit(w http.ResponseWriter, r *http.Request) {
	title := TitleFromContext(r.Context())

	res, err := p.store.Get(r.Context(), title)
	if err != nil {
		p.log.Errorw("read article", "title", title, "error", err)
	}

	switch {
	case err == nil && res.Outcome == Found:
		p.render(w, r, http.StatusOK, "edit.html", articlePage{Title: title, Body: res.Article.Body})
	case err == nil && res.Outcome == NotFound:
		p.render(w, r, http.StatusNotFound, "edit_missing.html", articlePage{Title: title})
	default:
		p.render(w, r, http.StatusInternalServerError, "error.html", errorPage{
			Heading: "Editing " + title,
			Message: "Error occurred while reading this page.",
		})
	}
}

// Delete asks for confirmation before deleting. A malformed record still
// exists, so it can be confirmed and removed.
func (p *Pages) Delete(w http.ResponseWriter, r *http.Request) {
	title := TitleFromContext(r.Context())

	res, err := p.store.Get(r.Context(), title)
	if err != nil {
		p.log.Errorw("read article", "title", title, "error", err)
		p.render(w, r, http.StatusInternalServerError, "error.html", errorPage{
			Heading: "Deleting " + title,
			Message: "Error occurred while reading this page.",
		})

		return
	}

	if res.Outcome == NotFound {
		p.render(w, r, http.StatusNotFound, "delete_missing.html", articlePage{Title: title})

		return
	}

	p.render(w, r, http.StatusOK, "delete.html", articlePage{Title: title})
}

func (p *Pages) reject(w http.ResponseWriter, r *http.Request, err error) {
	p.render(w, r, http.StatusBadRequest, "error.html", errorPage{
		Heading: "Invalid title",
		Message: err.Error(),
	})
}

func (p *Pages) render(w http.ResponseWriter, r *http.Request, status int, name string, data interface{}) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		p.log.Errorw("execute template", "template", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)

		return
	}

	render.Status(r, status)
	render.HTML(w, r, buf.String())
}
