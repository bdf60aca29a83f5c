//
// voil
// ====
// A minimal wiki. Articles live in a key-value backend under "article:<title>"
// and are edited through a handful of HTML pages and a JSON API.
//
// Boot the server:
// ----------------
// $ go run . -backend sqlite -sqlite_path voil.db
//
// Client requests:
// ----------------
// $ curl -X POST http://localhost:3333/api/article/hello/world
// {"success":true}
//
// $ curl http://localhost:3333/api/articles
// {"success":true,"articles":["hello"]}
//
// $ curl -X PUT -d '{"body":"hello, world"}' http://localhost:3333/api/article/hello
// {"success":true}
//
// $ curl -X DELETE http://localhost:3333/api/article/hello
// {"success":true}
//
// $ curl http://localhost:9999/metrics
//
// Pass -routes to print the route documentation and exit.
//
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/SergeyParamoshkin/voil/internal/article"
	"github.com/SergeyParamoshkin/voil/internal/backend"
	"github.com/SergeyParamoshkin/voil/internal/config"
	"github.com/SergeyParamoshkin/voil/internal/kv"
	"github.com/SergeyParamoshkin/voil/internal/kv/kvhttp"
	"github.com/SergeyParamoshkin/voil/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/docgen"
	"go.opentelemetry.io/otel/metric/global"
	"go.uber.org/zap"
)

type CtxKey int8

const (
	CtxKeyLogger CtxKey = iota
)

type App struct {
	sugarLogger *zap.SugaredLogger
	config      config.Config
	store       *article.Store
	metrics     *metrics.HTTP
}

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync() // flushes buffer, if any
	sugar := logger.Sugar()

	exporter, err := metrics.NewExporter()
	if err != nil {
		sugar.Panicf("failed to initialize prometheus exporter %v", err)
	}
	global.SetMeterProvider(exporter.MeterProvider())

	httpMetrics, err := metrics.NewHTTP(global.Meter(config.ServiceName))
	if err != nil {
		sugar.Panicf("failed to create http instruments %v", err)
	}

	backendStore, closeBackend, err := backend.Open(cfg, sugar)
	if err != nil {
		sugar.Fatalw("failed to open backend", "backend", cfg.Backend, "error", err)
	}
	defer func() {
		if err := closeBackend(); err != nil {
			sugar.Errorw("failed to close backend", "error", err)
		}
	}()

	a := App{
		sugarLogger: sugar,
		config:      cfg,
		store:       article.NewStore(backendStore, sugar),
		metrics:     httpMetrics,
	}

	r := a.router()

	// Passing -routes to the program will generate docs for the above
	// router definition.
	if cfg.Routes {
		fmt.Println(docgen.MarkdownRoutesDoc(r, docgen.MarkdownOpts{
			ProjectPath: "github.com/SergeyParamoshkin/voil",
			Intro:       "Routes served by voil.",
		}))

		return
	}

	if cfg.KVServeAddr != "" {
		go a.serveKV(backendStore)
	}

	diagRouter := chi.NewRouter()
	diagRouter.Get("/metrics", exporter.ServeHTTP)

	go func() {
		sugar.Infow("listening", "addr", cfg.Addr, "backend", cfg.Backend)
		if err := http.ListenAndServe(cfg.Addr, r); err != nil {
			a.sugarLogger.Errorw(err.Error())
		}
	}()

	if err := http.ListenAndServe(cfg.DiagAddr, diagRouter); err != nil {
		a.sugarLogger.Errorw(err.Error())
	}
}

func (a *App) router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(a.Logger)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if a.metrics != nil {
		r.Use(a.metrics.Middleware)
	}

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		logger := r.Context().Value(CtxKeyLogger).(*zap.SugaredLogger)
		logger.Infow("ping", "request_id", middleware.GetReqID(r.Context()))
		if _, err := w.Write([]byte("pong")); err != nil {
			logger.Errorw(err.Error())
		}
	})

	article.NewPages(a.store, a.sugarLogger).Routes(r)
	r.Mount("/api", article.NewAPI(a.store, a.sugarLogger).Router())

	FileServer(r, "/static", article.Static())

	return r
}

// serveKV shares the configured backend with other instances over kvhttp.
func (a *App) serveKV(store kv.Store) {
	a.sugarLogger.Infow("serving kv backend", "addr", a.config.KVServeAddr)
	if err := http.ListenAndServe(a.config.KVServeAddr, kvhttp.NewHandler(store, a.sugarLogger)); err != nil {
		a.sugarLogger.Errorw(err.Error())
	}
}

func FileServer(r chi.Router, path string, root http.FileSystem) {
	if strings.ContainsAny(path, "{}*") {
		panic("FileServer does not permit any URL parameters.")
	}

	if path != "/" && path[len(path)-1] != '/' {
		r.Get(path, http.RedirectHandler(path+"/", http.StatusMovedPermanently).ServeHTTP)
		path += "/"
	}
	path += "*"

	r.Get(path, func(w http.ResponseWriter, r *http.Request) {
		rctx := chi.RouteContext(r.Context())
		pathPrefix := strings.TrimSuffix(rctx.RoutePattern(), "/*")
		fs := http.StripPrefix(pathPrefix, http.FileServer(root))
		fs.ServeHTTP(w, r)
	})
}

func (a *App) Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), CtxKeyLogger, a.sugarLogger)))
	})
}
