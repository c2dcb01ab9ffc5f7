package config

import (
	"time"

	"github.com/maxviazov/user-directory-service/internal/logger"
)

type Config struct {
	App       AppConfig           `mapstructure:"app"`
	Logger    logger.LoggerConfig `mapstructure:"logger" validate:"-"` // validated by logger.New after defaults
	HTTP      HTTPConfig          `mapstructure:"http"`
	Directory DirectoryConfig     `mapstructure:"directory"`
}

type AppConfig struct {
	Name    string `mapstructure:"name" validate:"required"`
	Version string `mapstructure:"version"`
	Env     string `mapstructure:"env" validate:"oneof=dev test staging prod"`
	Port    int    `mapstructure:"port" validate:"gt=0,lte=65535"`
}

// IsProduction reports whether the service runs in a production-like environment.
func (a AppConfig) IsProduction() bool { return a.Env == "prod" || a.Env == "staging" }

type HTTPConfig struct {
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
	// RateLimit is requests per minute per client IP; 0 disables limiting.
	RateLimit int `mapstructure:"rate_limit" validate:"gte=0"`
}

type DirectoryConfig struct {
	// SeedCount fake users are generated at startup.
	SeedCount int `mapstructure:"seed_count" validate:"gte=0,lte=100000"`
	// SeedValue makes seeding deterministic; 0 picks a random seed.
	SeedValue uint64 `mapstructure:"seed_value"`
}
