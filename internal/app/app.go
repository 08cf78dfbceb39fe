// Package app wires configuration into the clients, stores and service
// shared by rankcheck and rankd.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/rickgao/shoprank/internal/api"
	"github.com/rickgao/shoprank/internal/auth"
	"github.com/rickgao/shoprank/internal/config"
	"github.com/rickgao/shoprank/internal/history"
	"github.com/rickgao/shoprank/internal/model"
	"github.com/rickgao/shoprank/internal/service"
)

// App holds the long-lived components built from a Config.
type App struct {
	Config  *config.Config
	Search  *api.SearchClient
	History history.Store
	Service *service.Service
}

// NewLogger builds the text logger used by the binaries.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// New builds the search clients, opens the history store and creates the
// service.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	sort, err := model.ParseSortMode(cfg.Rank.Sort)
	if err != nil {
		return nil, fmt.Errorf("rank.sort: %w", err)
	}

	search := api.NewSearchClient(
		cfg.Search.BaseURL,
		cfg.Search.ClientID,
		cfg.Search.ClientSecret,
		api.WithLogger(logger),
		api.WithTimeout(cfg.Search.Timeout),
	)
	fetcher := api.NewRetryFetcher(search, cfg.Search.MaxRetries, cfg.Search.RetryBackoff, logger)

	var keywords service.KeywordSource
	if cfg.KeywordTool.Enabled() {
		creds, err := auth.NewCredentials(cfg.KeywordTool.APIKey, cfg.KeywordTool.SecretKey, cfg.KeywordTool.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("keyword tool credentials: %w", err)
		}
		keywords = api.NewKeywordClient(
			cfg.KeywordTool.BaseURL,
			creds,
			api.WithLogger(logger),
			api.WithTimeout(cfg.KeywordTool.Timeout),
		)
	} else {
		logger.Debug("keyword tool not configured")
	}

	store, err := history.Open(ctx, cfg.History)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}

	svc := service.New(fetcher, service.Options{
		Keywords: keywords,
		History:  store,
		Fallback: cfg.KeywordTool.Fallback(),
		Defaults: service.Defaults{
			PageSize:    cfg.Rank.PageSize,
			MaxPages:    cfg.Rank.MaxPages,
			MaxKeywords: cfg.Rank.MaxKeywords,
			Concurrency: cfg.Rank.KeywordConcurrency,
			Sort:        sort,
		},
		Logger: logger,
	})

	return &App{
		Config:  cfg,
		Search:  search,
		History: store,
		Service: svc,
	}, nil
}

// Close releases the history store.
func (a *App) Close() error {
	if a.History == nil {
		return nil
	}
	return a.History.Close()
}
