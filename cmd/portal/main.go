// Command portal is the single-user patient portal client. State lives in
// the SQLite file named by PORTAL_DATA_PATH, or in Postgres when
// DATABASE_URL is set.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"patient-portal/internal/cli"
	"patient-portal/internal/config"
	"patient-portal/internal/portal"
	"patient-portal/internal/store"
)

func main() {
	log.SetPrefix("[portal] ")
	log.SetFlags(0)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, cfg, os.Args[1:])
	stop()
	os.Exit(code)
}

func run(ctx context.Context, cfg config.Config, args []string) int {
	kv, err := store.Open(ctx, cfg.DatabaseURL, cfg.DataPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer kv.Close()

	p, err := portal.Open(ctx, kv, portal.Options{AuthDelay: cfg.AuthDelay})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if err := cli.Run(ctx, p, args, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, cli.ErrUsage) {
			return 2
		}
		return 1
	}
	return 0
}
