package http

import (
	"log/slog"
	"net/http"

	"github.com/alexandernizov/messageboard/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.elastic.co/apm/module/apmhttp/v2"
	"go.elastic.co/apm/v2"
)

type Deps struct {
	Log   *slog.Logger
	Board BoardProvider

	// Optional.
	Metrics     *metrics.Metrics
	Tracer      *apm.Tracer
	StaticDir   string
	CORSOrigins []string
}

func NewRouter(d Deps) http.Handler {
	log := d.Log
	if log == nil {
		log = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(log))
	r.Use(middleware.Recoverer)

	origins := d.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", HeaderRequestID},
		ExposedHeaders: []string{HeaderRequestID},
		MaxAge:         300,
	}))

	var recorder Recorder
	if d.Metrics != nil {
		recorder = d.Metrics
		r.Use(d.Metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}

	mh := NewMessageHandlers(log, d.Board, recorder)
	r.Get("/messages", mh.List)
	r.Post("/messages", mh.Create)

	if d.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(d.StaticDir)))
	}

	if d.Tracer == nil {
		return r
	}
	return apmhttp.Wrap(r, apmhttp.WithTracer(d.Tracer))
}
