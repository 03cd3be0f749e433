package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const defaultConfigPath = "configs/local.yaml"

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverBadger   = "badger"
	DriverMemory   = "memory"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Env     string        `yaml:"env" env:"ENV" env-default:"local"`
	HTTP    HTTPConfig    `yaml:"http"`
	Storage StorageConfig `yaml:"storage"`
	APM     APMConfig     `yaml:"apm"`
	Kafka   KafkaConfig   `yaml:"kafka"`
}

type HTTPConfig struct {
	Address     string   `yaml:"address" env:"HTTP_ADDRESS" env-default:":3000"`
	StaticDir   string   `yaml:"static_dir" env:"STATIC_DIR" env-default:"public"`
	Prometheus  bool     `yaml:"prometheus" env:"HTTP_PROMETHEUS" env-default:"true"`
	CORSOrigins []string `yaml:"cors_origins" env:"CORS_ORIGINS" env-default:"*"`
}

type StorageConfig struct {
	Driver         string         `yaml:"driver" env:"STORAGE_DRIVER" env-default:"mongo"`
	ConnectTimeout time.Duration  `yaml:"connect_timeout" env:"STORAGE_CONNECT_TIMEOUT" env-default:"10s"`
	Mongo          MongoConfig    `yaml:"mongo"`
	Postgres       PostgresConfig `yaml:"postgres"`
	Redis          RedisConfig    `yaml:"redis"`
	Badger         BadgerConfig   `yaml:"badger"`
}

type MongoConfig struct {
	URI        string `yaml:"uri" env:"MONGODB_URI" env-default:"mongodb://localhost:27017/board"`
	Collection string `yaml:"collection" env:"MONGODB_COLLECTION" env-default:"messages"`
}

type PostgresConfig struct {
	Host     string `yaml:"host" env:"POSTGRES_HOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"POSTGRES_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"POSTGRES_USER" env-default:"postgres"`
	Password string `yaml:"password" env:"POSTGRES_PASSWORD"`
	DBname   string `yaml:"db" env:"POSTGRES_DB" env-default:"board"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type BadgerConfig struct {
	Path string `yaml:"path" env:"BADGER_PATH" env-default:"data/badger"`
}

type APMConfig struct {
	Enabled     bool   `yaml:"enabled" env:"APM_ENABLED" env-default:"true"`
	ServiceName string `yaml:"service_name" env:"ELASTIC_APM_SERVICE_NAME" env-default:"app-boron"`
	ServerURL   string `yaml:"server_url" env:"ELASTIC_APM_SERVER_URL" env-default:"http://apm_server:8200"`
	SecretToken string `yaml:"secret_token" env:"ELASTIC_APM_SECRET_TOKEN"`
}

type KafkaConfig struct {
	Enabled bool     `yaml:"enabled" env:"KAFKA_ENABLED" env-default:"false"`
	Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS" env-default:"localhost:9092"`
	Topic   string   `yaml:"topic" env:"KAFKA_TOPIC" env-default:"messages"`
}

// Load reads path when it is set, otherwise only the environment.
// Variables from a .env file in the working directory are applied first.
func Load(path string) (*Config, error) {
	const op = "config.Load"

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: read .env: %w", op, err)
	}

	var cfg Config
	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("%s: read %s: %w", op, path, err)
		}
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("%s: read env: %w", op, err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

func MustLoad() *Config {
	path := fetchConfigPath()

	if path != "" {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			panic("config file does not exist: " + path)
		}
	} else if _, err := os.Stat(defaultConfigPath); err == nil {
		path = defaultConfigPath
	}

	cfg, err := Load(path)
	if err != nil {
		panic("failed to read config: " + err.Error())
	}
	return cfg
}

func (c *Config) validate() error {
	drivers := []string{DriverMongo, DriverPostgres, DriverRedis, DriverBadger, DriverMemory}
	if !slices.Contains(drivers, c.Storage.Driver) {
		return fmt.Errorf("%w: unknown storage driver %q", ErrInvalidConfig, c.Storage.Driver)
	}
	if c.Storage.ConnectTimeout <= 0 {
		return fmt.Errorf("%w: storage connect timeout must be positive", ErrInvalidConfig)
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("%w: kafka is enabled without brokers", ErrInvalidConfig)
	}
	return nil
}

// fetchConfigPath prefers the -config flag over CONFIG_PATH.
func fetchConfigPath() string {
	var path string

	fset := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	fset.StringVar(&path, "config", "", "path to config file")
	if err := fset.Parse(os.Args[1:]); err != nil {
		panic("failed to parse flags: " + err.Error())
	}

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	return path
}
