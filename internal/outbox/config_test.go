package outbox

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProducerConfig(t *testing.T) {
	tests := []struct {
		name        string
		opt         ConnectOptions
		wantDial    time.Duration
		wantPublish time.Duration
	}{
		{
			name:        "long_connect_timeout_is_capped",
			opt:         ConnectOptions{Timeout: 10 * time.Second},
			wantDial:    10 * time.Second,
			wantPublish: maxPublishTimeout,
		},
		{
			name:        "short_connect_timeout",
			opt:         ConnectOptions{Timeout: 500 * time.Millisecond},
			wantDial:    500 * time.Millisecond,
			wantPublish: 500 * time.Millisecond,
		},
		{
			name:        "no_timeout",
			opt:         ConnectOptions{},
			wantDial:    30 * time.Second,
			wantPublish: maxPublishTimeout,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := producerConfig(tt.opt)

			assert.Equal(t, 0, cfg.Producer.Retry.Max)
			assert.Equal(t, 0, cfg.Metadata.Retry.Max)
			assert.Equal(t, tt.wantDial, cfg.Net.DialTimeout)
			assert.Equal(t, tt.wantPublish, cfg.Producer.Timeout)
			assert.Equal(t, tt.wantPublish, cfg.Net.WriteTimeout)
			assert.True(t, cfg.Producer.Return.Successes)
			assert.NoError(t, cfg.Validate())
		})
	}
}
