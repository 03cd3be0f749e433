package app_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alexandernizov/messageboard/internal/apm"
	"github.com/alexandernizov/messageboard/internal/app"
	"github.com/alexandernizov/messageboard/internal/config"
	"github.com/alexandernizov/messageboard/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(driver string) *config.Config {
	return &config.Config{
		Env: "local",
		HTTP: config.HTTPConfig{
			Address:    "127.0.0.1:0",
			Prometheus: true,
		},
		Storage: config.StorageConfig{
			Driver:         driver,
			ConnectTimeout: 200 * time.Millisecond,
			Mongo: config.MongoConfig{
				URI:        "mongodb://127.0.0.1:1/board",
				Collection: "messages",
			},
		},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     func(t *testing.T) *config.Config
		wantErr error
	}{
		{
			name: "memory",
			cfg:  func(t *testing.T) *config.Config { return testConfig(config.DriverMemory) },
		},
		{
			name: "badger",
			cfg: func(t *testing.T) *config.Config {
				cfg := testConfig(config.DriverBadger)
				cfg.Storage.Badger.Path = filepath.Join(t.TempDir(), "badger")
				return cfg
			},
		},
		{
			name: "apm_enabled",
			cfg: func(t *testing.T) *config.Config {
				cfg := testConfig(config.DriverMemory)
				cfg.APM = config.APMConfig{Enabled: true, ServiceName: "app-boron", ServerURL: "http://127.0.0.1:1"}
				return cfg
			},
		},
		{
			name:    "mongo_unreachable",
			cfg:     func(t *testing.T) *config.Config { return testConfig(config.DriverMongo) },
			wantErr: storage.ErrNoConnection,
		},
		{
			name: "mongo_unreachable_with_apm",
			cfg: func(t *testing.T) *config.Config {
				cfg := testConfig(config.DriverMongo)
				cfg.APM = config.APMConfig{Enabled: true, ServiceName: "app-boron", ServerURL: "http://127.0.0.1:1"}
				return cfg
			},
			wantErr: storage.ErrNoConnection,
		},
		{
			name: "apm_bad_url",
			cfg: func(t *testing.T) *config.Config {
				cfg := testConfig(config.DriverMemory)
				cfg.APM = config.APMConfig{Enabled: true, ServiceName: "app-boron", ServerURL: "apm_server"}
				return cfg
			},
			wantErr: apm.ErrInvalidConfig,
		},
		{
			name:    "unknown_driver",
			cfg:     func(t *testing.T) *config.Config { return testConfig("cassandra") },
			wantErr: app.ErrUnknownDriver,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := app.New(discardLogger(), tt.cfg(t))

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, a)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, a)
			a.Close()
		})
	}
}

func TestApp_Handler(t *testing.T) {
	a, err := app.New(discardLogger(), testConfig(config.DriverMemory))
	require.NoError(t, err)
	t.Cleanup(a.Close)

	srv := httptest.NewServer(a.Handler())
	t.Cleanup(srv.Close)

	resp, err := http.Post(srv.URL+"/messages", "application/json", strings.NewReader(`{"message":"hi","name":"a"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/messages")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"message":"hi"`)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "board_messages_created_total 1")
}
