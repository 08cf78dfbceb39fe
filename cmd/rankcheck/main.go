// Command rankcheck runs one-shot rank checks and shopping analyses.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rickgao/shoprank/internal/app"
	"github.com/rickgao/shoprank/internal/config"
	"github.com/rickgao/shoprank/internal/version"
)

const usage = `Usage: rankcheck [-config path] <command> [flags]

Commands:
  rank      Find a merchant's best rank for one or more keywords
  top       Show the top-N shopping table for a keyword
  analyze   Summarize prices, brands and title tokens for a keyword
  keywords  Show related keyword metrics
  history   List recorded rank checks
  version   Print the version
`

func main() {
	configPath := flag.String("config", "configs/rankcheck.yaml", "path to config file")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}
	if args[0] == "version" {
		fmt.Println(version.String())
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Logs go to stderr so stdout stays clean for tables.
	logger := app.NewLogger(os.Stderr, cfg.SlogLevel())
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		os.Exit(1)
	}
	defer func() { _ = a.Close() }()

	if err := run(ctx, a, args[0], args[1:], os.Stdout); err != nil {
		logger.Error("command failed", "command", args[0], "error", err)
		stop()
		_ = a.Close()
		os.Exit(1)
	}
}

func run(ctx context.Context, a *app.App, cmd string, args []string, out io.Writer) error {
	c := &cli{app: a, out: out, errOut: os.Stderr}
	switch cmd {
	case "rank":
		return c.rank(ctx, args)
	case "top":
		return c.top(ctx, args)
	case "analyze":
		return c.analyze(ctx, args)
	case "keywords":
		return c.keywords(ctx, args)
	case "history":
		return c.history(ctx, args)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}
