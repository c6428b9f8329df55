package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(viper.New(), t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "redis://localhost:6380", cfg.Redis.URL)
	assert.Equal(t, 25, cfg.Postgres.MaxOpenConns)
	assert.Equal(t, SinkRedis, cfg.Sink.Kind)
	assert.Equal(t, time.Second, cfg.Playback.Pace)
	assert.Equal(t, 3, cfg.League.RetryAttempts)
	assert.Empty(t, cfg.Sports)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":9999")
	t.Setenv("SINK_KIND", "kafka")
	t.Setenv("SINK_KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("PLAYBACK_PACE", "250ms")
	t.Setenv("SPORTS", "hockey, basketball")

	cfg, err := load(viper.New(), t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, SinkKafka, cfg.Sink.Kind)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Sink.KafkaBrokers)
	assert.Equal(t, 250*time.Millisecond, cfg.Playback.Pace)
	assert.Equal(t, []string{"hockey", "basketball"}, cfg.Sports)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	yml := `
league:
  base_url: /l/7
penalty:
  opportunities:
    pass: 20000
    run: 11000
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "game-results.yml"), []byte(yml), 0o600))

	cfg, err := load(viper.New(), dir)
	require.NoError(t, err)

	assert.Equal(t, "/l/7", cfg.League.BaseURL)
	assert.Equal(t, int64(20000), cfg.Penalty.Opportunities["pass"])
	assert.Equal(t, int64(11000), cfg.Penalty.Opportunities["run"])
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Sink:     SinkConfig{Kind: SinkLog},
			Playback: PlaybackConfig{Pace: time.Second},
			League:   LeagueConfig{RetryAttempts: 1},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"unknown sink", func(c *Config) { c.Sink.Kind = "carrier-pigeon" }, "unknown sink kind"},
		{"kafka without topic", func(c *Config) { c.Sink.Kind = SinkKafka; c.Sink.KafkaBrokers = []string{"k:9092"} }, "brokers and a topic"},
		{"zero pace", func(c *Config) { c.Playback.Pace = 0 }, "pace must be positive"},
		{"no attempts", func(c *Config) { c.League.RetryAttempts = 0 }, "retry attempts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
