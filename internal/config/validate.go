package config

import (
	"errors"
	"fmt"

	"github.com/rickgao/shoprank/internal/model"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn, error, got %q", c.LogLevel)
	}

	if c.Search.ClientID == "" {
		return errors.New("search.client_id is required")
	}
	if c.Search.ClientSecret == "" {
		return errors.New("search.client_secret is required")
	}
	if c.Search.MaxRetries < 0 {
		return errors.New("search.max_retries must be >= 0")
	}

	if err := c.Rank.validate(); err != nil {
		return err
	}

	switch c.History.Driver {
	case "none":
	case "sqlite":
		if c.History.SQLitePath == "" {
			return errors.New("history.sqlite_path is required for the sqlite driver")
		}
	case "postgres":
		if err := c.History.Postgres.validate("history.postgres"); err != nil {
			return err
		}
	default:
		return fmt.Errorf("history.driver must be one of none, sqlite, postgres, got %q", c.History.Driver)
	}

	if c.Monitor.Enabled {
		if c.Monitor.Interval < 0 {
			return errors.New("monitor.interval must be positive")
		}
		if c.Monitor.Concurrency < 1 {
			return errors.New("monitor.concurrency must be >= 1")
		}
		if len(c.Monitor.Watches) == 0 {
			return errors.New("monitor.watches must not be empty when the monitor is enabled")
		}
		for i, w := range c.Monitor.Watches {
			if w.Keyword == "" || w.Merchant == "" {
				return fmt.Errorf("monitor.watches[%d] needs keyword and merchant", i)
			}
		}
	}

	if c.Telegram.BotToken != "" && c.Telegram.ChatID == 0 {
		return errors.New("telegram.chat_id is required when telegram.bot_token is set")
	}

	if c.Metrics.Port < 1 || c.Metrics.Port > 65535 {
		return fmt.Errorf("metrics.port must be between 1 and 65535, got %d", c.Metrics.Port)
	}

	return nil
}

func (r *RankConfig) validate() error {
	if r.PageSize < 1 || r.PageSize > model.MaxPageSize {
		return fmt.Errorf("rank.page_size must be between 1 and %d, got %d", model.MaxPageSize, r.PageSize)
	}
	if r.MaxPages < 1 {
		return errors.New("rank.max_pages must be >= 1")
	}
	if last := (r.MaxPages-1)*r.PageSize + 1; last > model.MaxStart {
		return fmt.Errorf("rank.max_pages (%d) with page_size (%d) starts past result %d", r.MaxPages, r.PageSize, model.MaxStart)
	}
	if r.MaxKeywords < 1 {
		return errors.New("rank.max_keywords must be >= 1")
	}
	if r.KeywordConcurrency < 1 {
		return errors.New("rank.keyword_concurrency must be >= 1")
	}
	if _, err := model.ParseSortMode(r.Sort); err != nil {
		return fmt.Errorf("rank.sort: %w", err)
	}
	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
