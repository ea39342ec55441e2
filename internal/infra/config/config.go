package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Catalogue CatalogueConfig `mapstructure:"catalogue" yaml:"catalogue"`
	Download  DownloadConfig  `mapstructure:"download" yaml:"download"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
	Store     StoreConfig     `mapstructure:"store" yaml:"store"`
}

type CatalogueConfig struct {
	URL             string `mapstructure:"url" yaml:"url"`
	CacheTTLMinutes int    `mapstructure:"cache_ttl_minutes" yaml:"cache_ttl_minutes"`
}

type DownloadConfig struct {
	BaseURL        string `mapstructure:"base_url" yaml:"base_url"`
	OutDir         string `mapstructure:"out_dir" yaml:"out_dir"`
	Workers        int    `mapstructure:"workers" yaml:"workers"`
	MaxRetries     int    `mapstructure:"max_retries" yaml:"max_retries"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

type LogConfig struct {
	Path          string `mapstructure:"path" yaml:"path"`
	Level         string `mapstructure:"level" yaml:"level"`
	IncludeStdout bool   `mapstructure:"include_stdout" yaml:"include_stdout"`
}

type StoreConfig struct {
	SQLitePath string `mapstructure:"sqlite_path" yaml:"sqlite_path"`
}

func (c *CatalogueConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLMinutes) * time.Minute
}

func (c *DownloadConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Load reads the optional config file, layers QURANDL_* environment
// variables over it, and back-fills defaults. A missing file is only an
// error when a path was given explicitly.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Set Defaults
	v.SetDefault("catalogue.url", "https://quranicaudio.com/api/reciters")
	v.SetDefault("catalogue.cache_ttl_minutes", 60)
	v.SetDefault("download.base_url", "https://download.quranicaudio.com/quran")
	v.SetDefault("download.out_dir", "./quran_audio")
	v.SetDefault("download.workers", 5)
	v.SetDefault("download.max_retries", 3)
	v.SetDefault("download.timeout_seconds", 30)
	v.SetDefault("log.path", "qurandl.log")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.include_stdout", false)
	v.SetDefault("store.sqlite_path", "qurandl.db")

	explicit := path != ""
	if !explicit {
		path = "config.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	} else if explicit {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	// Support Environment Variables
	v.SetEnvPrefix("QURANDL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Catalogue.URL == "" {
		return fmt.Errorf("catalogue url is required")
	}

	if c.Download.BaseURL == "" {
		return fmt.Errorf("download base_url is required")
	}

	if c.Catalogue.CacheTTLMinutes <= 0 {
		c.Catalogue.CacheTTLMinutes = 60
	}

	if c.Download.Workers <= 0 {
		c.Download.Workers = 5
	}

	if c.Download.MaxRetries <= 0 {
		c.Download.MaxRetries = 3
	}

	if c.Download.TimeoutSeconds <= 0 {
		c.Download.TimeoutSeconds = 30
	}

	if c.Download.OutDir == "" {
		c.Download.OutDir = "./quran_audio"
	}

	return nil
}
