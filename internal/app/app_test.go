package app

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rickgao/shoprank/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "search:\n  client_id: id\n  client_secret: secret\n")
	cfg, err := config.Load(path, config.WithDotEnv(""))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	return cfg
}

func TestNewWithoutHistory(t *testing.T) {
	cfg := testConfig(t)

	a, err := New(context.Background(), cfg, slog.Default())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() { _ = a.Close() }()

	if a.History != nil {
		t.Errorf("History = %v, want nil for driver none", a.History)
	}
	if a.Service == nil || a.Search == nil {
		t.Fatal("service or search client not built")
	}
	if got := a.Service.MaxKeywords(); got != config.DefaultMaxKeywords {
		t.Errorf("MaxKeywords() = %d, want %d", got, config.DefaultMaxKeywords)
	}
}

func TestNewWithSQLiteHistory(t *testing.T) {
	cfg := testConfig(t)
	cfg.History.Driver = "sqlite"
	cfg.History.SQLitePath = filepath.Join(t.TempDir(), "data", "rank.db")
	cfg.KeywordTool.APIKey = "key"
	cfg.KeywordTool.SecretKey = "secret"
	cfg.KeywordTool.CustomerID = "123"

	a, err := New(context.Background(), cfg, slog.Default())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() { _ = a.Close() }()

	if a.History == nil {
		t.Fatal("History = nil, want sqlite store")
	}
}

func TestNewRejectsBadSort(t *testing.T) {
	cfg := testConfig(t)
	cfg.Rank.Sort = "random"

	if _, err := New(context.Background(), cfg, slog.Default()); err == nil || !strings.Contains(err.Error(), "rank.sort") {
		t.Errorf("New() error = %v, want rank.sort error", err)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelWarn)
	logger.Info("hidden")
	logger.Warn("shown", "keyword", "mouse")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "keyword=mouse") {
		t.Errorf("log output = %q", out)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
