package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jobtrackr/jobtrackr-go/internal/cli"
	"github.com/jobtrackr/jobtrackr-go/internal/client"
	"github.com/jobtrackr/jobtrackr-go/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		// A bare usage error has already printed the help text.
		if err != cli.ErrUsage { //nolint:errorlint
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	cfg, err := config.LoadClient(ctx)
	if err != nil {
		return err
	}

	store, err := client.NewFileStore(cfg.Home)
	if err != nil {
		return err
	}

	app := cli.NewApp(client.NewAPI(cfg.ServerURL, nil), store, os.Stdin, os.Stdout)
	return app.Run(ctx, args)
}
