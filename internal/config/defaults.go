package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultLogLevel           = "info"
	DefaultSearchURL          = "https://openapi.naver.com/v1/search/shop.json"
	DefaultKeywordURL         = "https://api.searchad.naver.com"
	DefaultAPITimeout         = 10 * time.Second
	DefaultMaxRetries         = 2
	DefaultRetryBackoff       = 500 * time.Millisecond
	DefaultPageSize           = 100
	DefaultMaxPages           = 10
	DefaultMaxKeywords        = 10
	DefaultKeywordConcurrency = 1
	DefaultSort               = "relevance"
	DefaultHistoryDriver      = "none"
	DefaultSQLitePath         = "./data/rank.db"
	DefaultDBPort             = 5432
	DefaultDBSSLMode          = "prefer"
	DefaultMaxConns           = 5
	DefaultMinConns           = 1
	DefaultMonitorInterval    = 6 * time.Hour
	DefaultMonitorConcurrency = 1
	DefaultMonitorTimeout     = 5 * time.Minute
	DefaultServerAddr         = ":8080"
	DefaultServerReadTimeout  = 15 * time.Second
	DefaultServerWriteTimeout = 5 * time.Minute
	DefaultMetricsPort        = 9090
	DefaultMetricsPath        = "/metrics"
	DefaultExportDir          = "exports"
)

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}

	// Search defaults
	if c.Search.BaseURL == "" {
		c.Search.BaseURL = DefaultSearchURL
	}
	if c.Search.Timeout == 0 {
		c.Search.Timeout = DefaultAPITimeout
	}
	if c.Search.MaxRetries == 0 {
		c.Search.MaxRetries = DefaultMaxRetries
	}
	if c.Search.RetryBackoff == 0 {
		c.Search.RetryBackoff = DefaultRetryBackoff
	}

	// Keyword tool defaults
	if c.KeywordTool.BaseURL == "" {
		c.KeywordTool.BaseURL = DefaultKeywordURL
	}
	if c.KeywordTool.Timeout == 0 {
		c.KeywordTool.Timeout = DefaultAPITimeout
	}

	// Rank defaults
	if c.Rank.PageSize == 0 {
		c.Rank.PageSize = DefaultPageSize
	}
	if c.Rank.MaxPages == 0 {
		c.Rank.MaxPages = DefaultMaxPages
	}
	if c.Rank.MaxKeywords == 0 {
		c.Rank.MaxKeywords = DefaultMaxKeywords
	}
	if c.Rank.KeywordConcurrency == 0 {
		c.Rank.KeywordConcurrency = DefaultKeywordConcurrency
	}
	if c.Rank.Sort == "" {
		c.Rank.Sort = DefaultSort
	}

	// History defaults
	if c.History.Driver == "" {
		c.History.Driver = DefaultHistoryDriver
	}
	if c.History.SQLitePath == "" {
		c.History.SQLitePath = DefaultSQLitePath
	}
	applyDBDefaults(&c.History.Postgres)

	// Monitor defaults
	if c.Monitor.Interval == 0 {
		c.Monitor.Interval = DefaultMonitorInterval
	}
	if c.Monitor.Concurrency == 0 {
		c.Monitor.Concurrency = DefaultMonitorConcurrency
	}
	if c.Monitor.Timeout == 0 {
		c.Monitor.Timeout = DefaultMonitorTimeout
	}

	// Server defaults
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = DefaultServerReadTimeout
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = DefaultServerWriteTimeout
	}

	// Metrics defaults
	if c.Metrics.Port == 0 {
		c.Metrics.Port = DefaultMetricsPort
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}

	if c.Export.Dir == "" {
		c.Export.Dir = DefaultExportDir
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
