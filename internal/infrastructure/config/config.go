package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	// ScanTicksPerSecond bounds how often the capture loop samples a frame.
	ScanTicksPerSecond float64 `env:"SCAN_TICKS_PER_SECOND, default=15"`

	Bolt  BoltConfig
	Redis RedisConfig
}

type BoltConfig struct {
	Path string `env:"BOLT_PATH, default=portal.db"`
}

// RedisConfig configures the optional QR replay guard. An empty address
// disables it.
type RedisConfig struct {
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
