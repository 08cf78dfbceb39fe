// Package config handles loading and validating the YAML configuration.
//
// Values may reference environment variables as ${VAR}; a .env file in the
// working directory is loaded first when present.
package config

import (
	"log/slog"
	"strings"
	"time"
)

// Config is the root configuration for rankcheck and rankd.
type Config struct {
	LogLevel    string            `yaml:"log_level"`
	Search      SearchConfig      `yaml:"search"`
	KeywordTool KeywordToolConfig `yaml:"keyword_tool"`
	Rank        RankConfig        `yaml:"rank"`
	History     HistoryConfig     `yaml:"history"`
	Monitor     MonitorConfig     `yaml:"monitor"`
	Telegram    TelegramConfig    `yaml:"telegram"`
	Server      ServerConfig      `yaml:"server"`
	Metrics     MetricsConfig     `yaml:"metrics"`
	Export      ExportConfig      `yaml:"export"`
}

// SearchConfig holds shopping search API settings.
type SearchConfig struct {
	BaseURL      string        `yaml:"base_url"`
	ClientID     string        `yaml:"client_id"`
	ClientSecret string        `yaml:"client_secret"`
	Timeout      time.Duration `yaml:"timeout"`
	MaxRetries   int           `yaml:"max_retries"`
	RetryBackoff time.Duration `yaml:"retry_backoff"`
}

// KeywordToolConfig holds keyword-metrics API settings.
type KeywordToolConfig struct {
	BaseURL          string        `yaml:"base_url"`
	APIKey           string        `yaml:"api_key"`
	SecretKey        string        `yaml:"secret_key"`
	CustomerID       string        `yaml:"customer_id"`
	Timeout          time.Duration `yaml:"timeout"`
	FallbackToSearch *bool         `yaml:"fallback_to_search"`
}

// Enabled reports whether all credentials are set.
func (k KeywordToolConfig) Enabled() bool {
	return k.APIKey != "" && k.SecretKey != "" && k.CustomerID != ""
}

// Fallback reports whether title tokens stand in for related keywords when
// the API is unavailable. Defaults to true.
func (k KeywordToolConfig) Fallback() bool {
	return k.FallbackToSearch == nil || *k.FallbackToSearch
}

// RankConfig holds rank check defaults.
type RankConfig struct {
	PageSize           int    `yaml:"page_size"`
	MaxPages           int    `yaml:"max_pages"`
	MaxKeywords        int    `yaml:"max_keywords"`
	KeywordConcurrency int    `yaml:"keyword_concurrency"`
	Sort               string `yaml:"sort"`
}

// HistoryConfig selects where rank checks are recorded.
type HistoryConfig struct {
	Driver     string   `yaml:"driver"` // none, sqlite, postgres
	SQLitePath string   `yaml:"sqlite_path"`
	Postgres   DBConfig `yaml:"postgres"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// MonitorConfig holds scheduled re-check settings.
type MonitorConfig struct {
	Enabled     bool          `yaml:"enabled"`
	Interval    time.Duration `yaml:"interval"`
	Concurrency int           `yaml:"concurrency"`
	Timeout     time.Duration `yaml:"timeout"`
	Watches     []WatchConfig `yaml:"watches"`
}

// WatchConfig is one keyword/merchant pair to track.
type WatchConfig struct {
	Keyword  string `yaml:"keyword"`
	Merchant string `yaml:"merchant"`
}

// TelegramConfig holds rank-change notification settings. An empty token
// disables Telegram notifications.
type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// MetricsConfig holds Prometheus endpoint settings.
type MetricsConfig struct {
	Port int    `yaml:"port"`
	Path string `yaml:"path"`
}

// ExportConfig holds CSV export settings.
type ExportConfig struct {
	Dir string `yaml:"dir"`
}

// SlogLevel maps LogLevel to a slog level. Unknown values mean info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
