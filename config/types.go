package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	OMDb    OMDbConfig    `mapstructure:"omdb"`
	Search  SearchConfig  `mapstructure:"search"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// OMDbConfig holds OMDb API connection details
type OMDbConfig struct {
	URL     string        `mapstructure:"url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// SearchConfig contains settings for the search loop
type SearchConfig struct {
	Throttle  time.Duration `mapstructure:"throttle"`
	OutputDir string        `mapstructure:"output_dir"`
	AutoSave  string        `mapstructure:"auto_save"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
