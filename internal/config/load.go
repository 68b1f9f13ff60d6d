package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. SHOPLIST_SERVER_PORT.
const EnvPrefix = "SHOPLIST"

// Default values applied before files and environment are read.
const (
	DefaultPort                 = 8080
	DefaultLogLevel             = "info"
	DefaultShutdownTimeout      = 10
	DefaultTokenLifetimeMinutes = 15 * 24 * 60
	DefaultPasswordAlgorithm    = "bcrypt"
	DefaultBCryptCost           = 10
	DefaultPageLimit            = 10
	DefaultMaxPageLimit         = 100
)

// keys lists every setting so viper binds it to an environment variable
// even when no default or config file value exists.
var keys = []string{
	"server.port",
	"server.log_level",
	"server.shutdown_timeout_seconds",
	"database.url",
	"database.max_open_conns",
	"database.max_idle_conns",
	"database.conn_max_lifetime_minutes",
	"auth.jwt_secret",
	"auth.token_lifetime_minutes",
	"auth.clock_skew_seconds",
	"auth.password_algorithm",
	"auth.bcrypt_cost",
	"pagination.default_limit",
	"pagination.max_limit",
}

// Options controls where Load looks for optional inputs.
type Options struct {
	// EnvFile is a dotenv file loaded into the process environment.
	// Variables already set in the environment win.
	EnvFile string
	// ConfigFile is an optional YAML file. Environment variables override it.
	ConfigFile string
}

// DefaultOptions looks for .env and config.yaml in the working directory.
func DefaultOptions() Options {
	return Options{EnvFile: ".env", ConfigFile: "config.yaml"}
}

// Load reads configuration using DefaultOptions.
func Load() (*Config, error) {
	return LoadWithOptions(DefaultOptions())
}

// LoadWithOptions reads configuration from defaults, an optional config file
// and the environment (highest precedence), then validates it.
func LoadWithOptions(opts Options) (*Config, error) {
	if opts.EnvFile != "" && fileExists(opts.EnvFile) {
		if err := godotenv.Load(opts.EnvFile); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", opts.EnvFile, err)
		}
	}

	v := viper.New()
	setDefaults(v)

	if opts.ConfigFile != "" && fileExists(opts.ConfigFile) {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", opts.ConfigFile, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.log_level", DefaultLogLevel)
	v.SetDefault("server.shutdown_timeout_seconds", DefaultShutdownTimeout)
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 25)
	v.SetDefault("database.conn_max_lifetime_minutes", 5)
	v.SetDefault("auth.token_lifetime_minutes", DefaultTokenLifetimeMinutes)
	v.SetDefault("auth.clock_skew_seconds", 0)
	v.SetDefault("auth.password_algorithm", DefaultPasswordAlgorithm)
	v.SetDefault("auth.bcrypt_cost", DefaultBCryptCost)
	v.SetDefault("pagination.default_limit", DefaultPageLimit)
	v.SetDefault("pagination.max_limit", DefaultMaxPageLimit)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
