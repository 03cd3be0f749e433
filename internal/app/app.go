package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/alexandernizov/messageboard/internal/apm"
	"github.com/alexandernizov/messageboard/internal/config"
	boardhttp "github.com/alexandernizov/messageboard/internal/http"
	"github.com/alexandernizov/messageboard/internal/metrics"
	"github.com/alexandernizov/messageboard/internal/outbox"
	"github.com/alexandernizov/messageboard/internal/pkg/logger/sl"
	"github.com/alexandernizov/messageboard/internal/services/board"
	"github.com/alexandernizov/messageboard/internal/storage/badger"
	"github.com/alexandernizov/messageboard/internal/storage/inmemory"
	"github.com/alexandernizov/messageboard/internal/storage/mongo"
	"github.com/alexandernizov/messageboard/internal/storage/postgres"
	"github.com/alexandernizov/messageboard/internal/storage/redis"
	"go.elastic.co/apm/module/apmmongo/v2"
	elasticapm "go.elastic.co/apm/v2"
	"go.mongodb.org/mongo-driver/event"
)

var ErrUnknownDriver = errors.New("unknown storage driver")

type Store interface {
	board.MessageStorage
	Close() error
}

type App struct {
	log *slog.Logger

	server    *boardhttp.Server
	store     Store
	publisher *outbox.Publisher
	tracer    *elasticapm.Tracer
}

// New connects every dependency and builds the HTTP server. Nothing listens
// until Run is called, so a failed store connection never opens the port.
func New(log *slog.Logger, cfg *config.Config) (*App, error) {
	const op = "app.New"

	a := &App{log: log}

	if cfg.APM.Enabled {
		tracer, err := apm.NewTracer(log, apm.Options{
			ServiceName: cfg.APM.ServiceName,
			Environment: cfg.Env,
			ServerURL:   cfg.APM.ServerURL,
			SecretToken: cfg.APM.SecretToken,
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		a.tracer = tracer
	}

	store, err := a.openStore(cfg.Storage)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	a.store = store

	var notifier board.MessageNotifier
	if cfg.Kafka.Enabled {
		publisher, err := outbox.NewWithOptions(log, outbox.ConnectOptions{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
			Timeout: cfg.Storage.ConnectTimeout,
		})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		a.publisher = publisher
		notifier = publisher
	}

	var m *metrics.Metrics
	if cfg.HTTP.Prometheus {
		m = metrics.New()
	}

	router := boardhttp.NewRouter(boardhttp.Deps{
		Log:         log,
		Board:       board.New(log, store, notifier),
		Metrics:     m,
		Tracer:      a.tracer,
		StaticDir:   cfg.HTTP.StaticDir,
		CORSOrigins: cfg.HTTP.CORSOrigins,
	})

	a.server = boardhttp.New(
		boardhttp.WithLogger(log),
		boardhttp.WithHttpAddr(cfg.HTTP.Address),
		boardhttp.WithHandler(router),
	)

	log.Info("application initialized",
		slog.String("driver", cfg.Storage.Driver),
		slog.Bool("apm", a.tracer != nil),
		slog.Bool("kafka", a.publisher != nil),
	)
	return a, nil
}

func (a *App) openStore(cfg config.StorageConfig) (Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	switch cfg.Driver {
	case config.DriverMongo:
		// Spans join the transaction apmhttp stores in the request context.
		var monitor *event.CommandMonitor
		if a.tracer != nil {
			monitor = apmmongo.CommandMonitor()
		}
		return mongo.NewWithOptions(ctx, a.log, mongo.ConnectOptions{
			URI:        cfg.Mongo.URI,
			Collection: cfg.Mongo.Collection,
			Timeout:    cfg.ConnectTimeout,
			Monitor:    monitor,
		})
	case config.DriverPostgres:
		return postgres.NewWithOptions(ctx, a.log, postgres.ConnectOptions{
			Host:     cfg.Postgres.Host,
			Port:     strconv.Itoa(cfg.Postgres.Port),
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			DBname:   cfg.Postgres.DBname,
		})
	case config.DriverRedis:
		return redis.NewRedis(ctx, a.log, redis.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	case config.DriverBadger:
		return badger.Open(a.log, cfg.Badger.Path)
	case config.DriverMemory:
		return inmemory.New(a.log), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}

func (a *App) Handler() http.Handler {
	return a.server.Handler()
}

// Run blocks until the HTTP listener fails.
func (a *App) Run() error {
	return a.server.Run()
}

// Close releases the store, the publisher and the tracer.
func (a *App) Close() {
	const op = "app.Close"
	log := a.log.With(slog.String("op", op))

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			log.Warn("can't close kafka producer", sl.Err(err))
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			log.Warn("can't close storage", sl.Err(err))
		}
	}
	if a.tracer != nil {
		a.tracer.Close()
	}
}
