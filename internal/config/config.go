package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Host        string
	Port        int
	Environment string `toml:"environment"`
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// postgres
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`
	// prometheus metrics server
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
	// pose analysis
	PoseModel                         string `toml:"pose_model"`
	PoseAnalysisTimeoutSeconds        int    `toml:"pose_analysis_timeout_seconds"`
	AnalyzePoseRateLimitAllowedPerMin int    `toml:"analyze_pose_rate_limit_allowed_per_min"`

	QuotesCsvPath string `toml:"quotes_csv_path"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Load reads the TOML config file at path and returns the
// section for the given environment.
func (t *Toml) Load(env string, path string) (*Config, error) {
	if _, err := toml.DecodeFile(path, t); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("config for env %s is empty", env)
	}

	cfg.Environment = env

	if cfg.PoseModel == "" {
		cfg.PoseModel = "gemini-2.0-flash"
	}
	if cfg.PoseAnalysisTimeoutSeconds <= 0 {
		cfg.PoseAnalysisTimeoutSeconds = 30
	}

	return cfg, nil
}

func Load(env string, path string) (*Config, error) {
	var t Toml
	return t.Load(env, path)
}
