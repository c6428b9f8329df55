package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Sink kinds
const (
	SinkRedis = "redis"
	SinkKafka = "kafka"
	SinkLog   = "log"
)

// ServerConfig holds server configuration
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	URL          string `mapstructure:"url"`
	Password     string `mapstructure:"password"`
	StreamMaxLen int64  `mapstructure:"stream_max_len"`
}

// PostgresConfig holds the game store connection. An empty DSN keeps game
// records in memory.
type PostgresConfig struct {
	DSN          string `mapstructure:"dsn"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	Migrate      bool   `mapstructure:"migrate"`
}

// SinkConfig selects where narrative events and signals go
type SinkConfig struct {
	Kind         string   `mapstructure:"kind"`
	KafkaBrokers []string `mapstructure:"kafka_brokers"`
	KafkaTopic   string   `mapstructure:"kafka_topic"`
}

// LeagueConfig holds settings used when finalizing games
type LeagueConfig struct {
	BaseURL       string `mapstructure:"base_url"` // Prefix of narrative links, e.g. "/l/1"
	RetryAttempts int    `mapstructure:"retry_attempts"`
}

// PlaybackConfig controls live sessions
type PlaybackConfig struct {
	Pace time.Duration `mapstructure:"pace"`
}

// LogConfig controls the service logger
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// PenaltyConfig overrides the season opportunity table by play category
type PenaltyConfig struct {
	Opportunities map[string]int64 `mapstructure:"opportunities"`
}

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Sink     SinkConfig     `mapstructure:"sink"`
	League   LeagueConfig   `mapstructure:"league"`
	Playback PlaybackConfig `mapstructure:"playback"`
	Log      LogConfig      `mapstructure:"log"`
	Penalty  PenaltyConfig  `mapstructure:"penalty"`
	Sports   []string       `mapstructure:"sports"` // Empty enables every sport
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("redis.url", "redis://localhost:6380")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.stream_max_len", 10000)
	v.SetDefault("postgres.dsn", "")
	v.SetDefault("postgres.max_open_conns", 25)
	v.SetDefault("postgres.migrate", true)
	v.SetDefault("sink.kind", SinkRedis)
	v.SetDefault("sink.kafka_brokers", []string{"localhost:9092"})
	v.SetDefault("sink.kafka_topic", "game-results")
	v.SetDefault("league.base_url", "")
	v.SetDefault("league.retry_attempts", 3)
	v.SetDefault("playback.pace", time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("penalty.opportunities", map[string]int64{})
	v.SetDefault("sports", []string{})
}

// Load reads configuration from the environment (SERVER_ADDR, REDIS_URL,
// SINK_KIND, ...) and, when present, configs/game-results.yml.
func Load() (*Config, error) {
	return load(viper.New(), "configs")
}

func load(v *viper.Viper, configPath string) (*Config, error) {
	setDefaults(v)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.AddConfigPath(configPath)
	v.SetConfigName("game-results")
	v.SetConfigType("yml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	hooks := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hooks); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that have no usable fallback.
func (c *Config) Validate() error {
	switch c.Sink.Kind {
	case SinkRedis, SinkLog:
	case SinkKafka:
		if len(c.Sink.KafkaBrokers) == 0 || c.Sink.KafkaTopic == "" {
			return fmt.Errorf("kafka sink needs brokers and a topic")
		}
	default:
		return fmt.Errorf("unknown sink kind %q", c.Sink.Kind)
	}
	if c.Playback.Pace <= 0 {
		return fmt.Errorf("playback pace must be positive, got %s", c.Playback.Pace)
	}
	if c.League.RetryAttempts < 1 {
		return fmt.Errorf("league retry attempts must be at least 1, got %d", c.League.RetryAttempts)
	}

	sports := c.Sports[:0]
	for _, s := range c.Sports {
		if s = strings.TrimSpace(s); s != "" {
			sports = append(sports, s)
		}
	}
	c.Sports = sports
	return nil
}
