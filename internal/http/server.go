package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexandernizov/messageboard/internal/pkg/logger/sl"
)

var ErrAlreadyRunning = errors.New("http server is already running")

type Server struct {
	log *slog.Logger

	httpAddr string
	handler  http.Handler

	server    *http.Server
	isRunning bool
}

func New(options ...func(*Server)) *Server {
	server := &Server{
		log:      slog.Default(),
		httpAddr: ":3000",
		handler:  http.NotFoundHandler(),
	}
	for _, option := range options {
		option(server)
	}
	return server
}

func WithLogger(log *slog.Logger) func(*Server) {
	return func(s *Server) {
		s.log = log
	}
}

func WithHttpAddr(httpAddr string) func(*Server) {
	return func(s *Server) {
		s.httpAddr = httpAddr
	}
}

func WithHandler(handler http.Handler) func(*Server) {
	return func(s *Server) {
		s.handler = handler
	}
}

func (s *Server) Addr() string {
	return s.httpAddr
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run blocks serving requests until the listener fails.
func (s *Server) Run() error {
	const op = "http.Run"
	log := s.log.With(slog.String("op", op))

	if s.isRunning {
		log.Error("http server is already running")
		return ErrAlreadyRunning
	}

	s.server = &http.Server{
		Addr:              s.httpAddr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.isRunning = true

	log.Info("http server is listening", slog.String("addr", s.httpAddr))
	err := s.server.ListenAndServe()
	s.isRunning = false
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("error during start http server", sl.Err(err))
		return err
	}
	return nil
}
