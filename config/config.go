package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/s0up4200/moviesearcher/filter"
	"github.com/s0up4200/moviesearcher/omdb"
)

const (
	// DefaultAPIKey is used when OMDB_API_KEY is not set.
	DefaultAPIKey = "97ce0888"
	// DefaultThrottle is the fixed pause between lookups.
	DefaultThrottle = 2 * time.Second

	// APIKeyEnv names the environment variable holding the API key.
	APIKeyEnv = "OMDB_API_KEY"
	// EnvPrefix prefixes environment overrides for every other key.
	EnvPrefix = "MOVIESEARCHER"
	// DotEnvFile is loaded from the working directory when present.
	DotEnvFile = ".env"

	appDir = "moviesearcher"
)

// Load loads the configuration. A config file is optional: with an empty
// configPath the standard locations are searched and defaults apply when none
// is found. An explicit configPath must exist.
func Load(configPath string) (*Config, error) {
	if err := loadDotEnv(DotEnvFile); err != nil {
		return nil, err
	}

	v := viper.New()

	// Set default values
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("omdb.api_key", APIKeyEnv, EnvPrefix+"_OMDB_API_KEY"); err != nil {
		return nil, fmt.Errorf("error binding %s: %w", APIKeyEnv, err)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, "."+appDir))
		}

		// Check /etc
		v.AddConfigPath("/etc/" + appDir + "/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadDotEnv exports variables from a .env file without overriding ones
// already set. A missing file is not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("error loading %s: %w", path, err)
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// OMDb defaults
	v.SetDefault("omdb.url", omdb.DefaultBaseURL)
	v.SetDefault("omdb.api_key", DefaultAPIKey)
	v.SetDefault("omdb.timeout", omdb.DefaultTimeout)

	// Search defaults
	v.SetDefault("search.throttle", DefaultThrottle)
	v.SetDefault("search.output_dir", ".")
	v.SetDefault("search.auto_save", "")

	// Logging defaults
	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.OMDb.URL == "" {
		return fmt.Errorf("omdb.url is required")
	}
	if u, err := url.Parse(cfg.OMDb.URL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("omdb.url must be an absolute URL: %s", cfg.OMDb.URL)
	}

	if cfg.OMDb.APIKey == "" {
		return fmt.Errorf("omdb.api_key must not be empty")
	}

	if cfg.OMDb.Timeout < 0 {
		return fmt.Errorf("omdb.timeout must not be negative: %s", cfg.OMDb.Timeout)
	}

	if cfg.Search.Throttle < 0 {
		return fmt.Errorf("search.throttle must not be negative: %s", cfg.Search.Throttle)
	}

	if strings.TrimSpace(cfg.Search.AutoSave) != "" {
		if _, err := filter.CompileExprFilter(cfg.Search.AutoSave); err != nil {
			return fmt.Errorf("invalid search.auto_save: %w", err)
		}
	}

	// Validate logging level
	cfg.Logging.Level = strings.ToLower(cfg.Logging.Level)
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
