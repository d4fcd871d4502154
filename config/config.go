package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

var (
	BackoffMaxElapsedTime time.Duration                = 5 * time.Minute
	Timeout               time.Duration                = 30 * time.Second
	GlobalConfigCallback  ConfigCallback[GlobalConfig] = ConfigCallback[GlobalConfig]{}
	CfgFlag                                            = flag.String("config", "config.toml", "Configuration file (toml format)")
)

func init() {
	GlobalConfigCallback.AddCallback(func(config GlobalConfig) {
		tCfg := config.TimeoutConfig()

		if tCfg.BackoffMaxElapsedTimeSeconds != nil {
			BackoffMaxElapsedTime = time.Duration(*tCfg.BackoffMaxElapsedTimeSeconds) * time.Second
		}

		if tCfg.TimeoutMillis > 0 {
			Timeout = time.Duration(tCfg.TimeoutMillis) * time.Millisecond
		}
	})
}

type GlobalConfig interface {
	LoggerConfig() LoggerConfig
	TimeoutConfig() TimeoutConfig
}

type Config struct {
	DB      DBConfig      `toml:"db"`
	Logger  LoggerConfig  `toml:"logger"`
	MLIT    MLITConfig    `toml:"mlit"`
	FX      FXConfig      `toml:"fx"`
	Ingest  IngestConfig  `toml:"ingest"`
	Timeout TimeoutConfig `toml:"timeout"`
}

type LoggerConfig struct {
	Level       string `toml:"level"` // valid values are: DEBUG, INFO, WARN, ERROR, DPANIC, PANIC, FATAL (zap)
	File        string `toml:"file"`
	MaxFileSize int    `toml:"max_file_size"` // In megabytes
	Console     bool   `toml:"console"`
}

type DBConfig struct {
	Host       string `toml:"host"`
	Port       int    `toml:"port"`
	Database   string `toml:"database"`
	Schema     string `toml:"schema"`
	Username   string `toml:"username"`
	Password   string `toml:"password"`
	LogQueries bool   `toml:"log_queries"`
}

type MLITConfig struct {
	APIKey            string  `toml:"api_key"`
	BaseURL           string  `toml:"base_url"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

type FXConfig struct {
	BaseURL           string   `toml:"base_url"`
	Currencies        []string `toml:"currencies"`
	RequestsPerSecond float64  `toml:"requests_per_second"`
}

type IngestConfig struct {
	StartYear           int    `toml:"start_year"`
	ReferencePrefecture string `toml:"reference_prefecture"`
}

type TimeoutConfig struct {
	BackoffMaxElapsedTimeSeconds *int `toml:"backoff_max_elapsed_time_seconds"`
	TimeoutMillis                int  `toml:"timeout_millis"`
}

const (
	DefaultMLITBaseURL = "https://www.reinfolib.mlit.go.jp/ex-api/external"
	DefaultFXBaseURL   = "https://api.frankfurter.app"

	// The MLIT API terms allow at most 2 requests per second.
	DefaultRequestsPerSecond = 2.0

	// Transaction data is published from 2005 onwards.
	DefaultStartYear = 2005

	// Tokyo. Used by the incremental probe as the availability reference.
	DefaultReferencePrefecture = "13"
)

func BuildConfig() (*Config, error) {
	cfgFileName := *CfgFlag

	cfg := &Config{}
	err := parseConfigFile(cfg, cfgFileName)
	if err != nil {
		return nil, err
	}

	applyDefaults(cfg)
	applyEnvOverrides(cfg)

	return cfg, nil
}

func parseConfigFile(cfg *Config, fileName string) error {
	content, err := os.ReadFile(fileName)
	if err != nil {
		return fmt.Errorf("error opening config file: %w", err)
	}

	_, err = toml.Decode(string(content), cfg)
	if err != nil {
		return fmt.Errorf("error parsing config file: %w", err)
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.MLIT.BaseURL == "" {
		cfg.MLIT.BaseURL = DefaultMLITBaseURL
	}
	if cfg.MLIT.RequestsPerSecond <= 0 {
		cfg.MLIT.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if cfg.FX.BaseURL == "" {
		cfg.FX.BaseURL = DefaultFXBaseURL
	}
	if cfg.FX.RequestsPerSecond <= 0 {
		cfg.FX.RequestsPerSecond = 5
	}
	if len(cfg.FX.Currencies) == 0 {
		cfg.FX.Currencies = []string{"USD", "EUR", "GBP"}
	}
	if cfg.Ingest.StartYear == 0 {
		cfg.Ingest.StartYear = DefaultStartYear
	}
	if cfg.Ingest.ReferencePrefecture == "" {
		cfg.Ingest.ReferencePrefecture = DefaultReferencePrefecture
	}
}

// Secrets are usually provided through the environment rather than the
// config file.
func applyEnvOverrides(cfg *Config) {
	if key := os.Getenv("MLIT_API_KEY"); key != "" {
		cfg.MLIT.APIKey = key
	}
	if pwd := os.Getenv("DB_PASSWORD"); pwd != "" {
		cfg.DB.Password = pwd
	}
}

func (c Config) LoggerConfig() LoggerConfig {
	return c.Logger
}

func (c Config) TimeoutConfig() TimeoutConfig {
	return c.Timeout
}
