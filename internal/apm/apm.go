package apm

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"go.elastic.co/apm/v2"
	"go.elastic.co/apm/v2/transport"
)

var ErrInvalidConfig = errors.New("invalid apm config")

type Options struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	ServerURL      string
	SecretToken    string
}

// NewTracer builds an Elastic APM tracer reporting to ServerURL. The agent
// sends data in the background and never blocks requests when the server is
// unreachable.
func NewTracer(log *slog.Logger, opt Options) (*apm.Tracer, error) {
	const op = "apm.NewTracer"

	if opt.ServiceName == "" {
		return nil, fmt.Errorf("%s: empty service name: %w", op, ErrInvalidConfig)
	}

	serverURL, err := url.Parse(opt.ServerURL)
	if err != nil || serverURL.Scheme == "" || serverURL.Host == "" {
		return nil, fmt.Errorf("%s: bad server url %q: %w", op, opt.ServerURL, ErrInvalidConfig)
	}

	tr, err := transport.NewHTTPTransport(transport.HTTPTransportOptions{
		ServerURLs:  []*url.URL{serverURL},
		SecretToken: opt.SecretToken,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	tracer, err := apm.NewTracerOptions(apm.TracerOptions{
		ServiceName:        opt.ServiceName,
		ServiceVersion:     opt.ServiceVersion,
		ServiceEnvironment: opt.Environment,
		Transport:          tr,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	tracer.SetLogger(NewLogger(log))

	log.Info("apm agent started",
		slog.String("service", opt.ServiceName),
		slog.String("server", serverURL.String()),
	)
	return tracer, nil
}

// Logger routes agent diagnostics into slog.
type Logger struct {
	log *slog.Logger
}

func NewLogger(log *slog.Logger) *Logger {
	return &Logger{log: log.With(slog.String("component", "apm"))}
}

func (l *Logger) Debugf(format string, args ...any) {
	l.log.Debug(fmt.Sprintf(format, args...))
}

func (l *Logger) Warningf(format string, args ...any) {
	l.log.Warn(fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...any) {
	l.log.Error(fmt.Sprintf(format, args...))
}
