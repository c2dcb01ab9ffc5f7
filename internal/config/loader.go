package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "user-directory-service")
	v.SetDefault("app.version", "0.1.0")
	v.SetDefault("app.env", "dev")
	v.SetDefault("app.port", 4000)

	v.SetDefault("logger.level", "")
	v.SetDefault("logger.format", "")
	v.SetDefault("logger.env", "")
	// Every key Unmarshal should see from APP_* must be known to viper, so the
	// remaining logger keys get zero defaults; logger.New fills the real ones.
	v.SetDefault("logger.output_target", "")
	v.SetDefault("logger.time_field", "")
	v.SetDefault("logger.time_format", "")
	v.SetDefault("logger.service_name", "")
	v.SetDefault("logger.service_version", "")
	v.SetDefault("logger.with_caller", false)
	v.SetDefault("logger.stacktrace", false)
	v.SetDefault("logger.stacktrace_min_level", "")
	v.SetDefault("logger.debug_file", false)

	v.SetDefault("http.read_timeout", "10s")
	v.SetDefault("http.write_timeout", "10s")
	v.SetDefault("http.shutdown_timeout", "5s")
	v.SetDefault("http.rate_limit", 120)

	v.SetDefault("directory.seed_count", 23)
	v.SetDefault("directory.seed_value", 0)
}

// Load reads the YAML file at path (optional when empty) and applies APP_* env overrides,
// e.g. APP_APP_PORT or APP_DIRECTORY_SEED_COUNT.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config file not found: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	// logger env follows the app env unless set explicitly
	if config.Logger.Env == "" {
		config.Logger.Env = config.App.Env
	}
	if err := validator.New().Struct(&config); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}
	return &config, nil
}
