// Command migrate manages the rank history schema.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/pressly/goose/v3"

	"github.com/rickgao/shoprank/internal/config"
	"github.com/rickgao/shoprank/internal/database"
	"github.com/rickgao/shoprank/migrations"
)

func main() {
	configPath := flag.String("config", envOrDefault("SHOPRANK_CONFIG", "configs/rankd.yaml"), "path to config file")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: migrate [-config path] <command>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Commands:")
		fmt.Fprintln(os.Stderr, "  up          Migrate to the latest version")
		fmt.Fprintln(os.Stderr, "  up-one      Migrate one version up")
		fmt.Fprintln(os.Stderr, "  down        Roll back one version")
		fmt.Fprintln(os.Stderr, "  status      Show migration status")
		fmt.Fprintln(os.Stderr, "  version     Show current version")
		fmt.Fprintln(os.Stderr, "  reset       Roll back all migrations")
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath, config.WithoutValidation())
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	db, dialect, closeDB, err := open(ctx, cfg.History)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer closeDB()

	dir, err := migrations.Setup(dialect)
	if err != nil {
		log.Fatalf("setup migrations: %v", err)
	}

	cmd := args[0]
	switch cmd {
	case "up":
		err = goose.Up(db, dir)
	case "up-one":
		err = goose.UpByOne(db, dir)
	case "down":
		err = goose.Down(db, dir)
	case "status":
		err = goose.Status(db, dir)
	case "version":
		err = goose.Version(db, dir)
	case "reset":
		err = goose.Reset(db, dir)
	default:
		log.Fatalf("unknown command: %s", cmd)
	}

	if err != nil {
		log.Fatalf("%s: %v", cmd, err)
	}
}

// open returns a database/sql handle for the configured history driver.
func open(ctx context.Context, cfg config.HistoryConfig) (*sql.DB, string, func(), error) {
	switch cfg.Driver {
	case "sqlite":
		db, err := database.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, "", nil, err
		}
		return db, migrations.DialectSQLite, func() { _ = db.Close() }, nil
	case "postgres":
		pool, err := database.Connect(ctx, cfg.Postgres)
		if err != nil {
			return nil, "", nil, err
		}
		db := database.StdDB(pool)
		return db, migrations.DialectPostgres, func() {
			_ = db.Close()
			pool.Close()
		}, nil
	default:
		return nil, "", nil, fmt.Errorf("history.driver %q has no database", cfg.Driver)
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
