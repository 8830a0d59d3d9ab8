package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/blunfr84/Webly/cart-service/internal/cli"
	"github.com/blunfr84/Webly/pkg/config"
	"github.com/blunfr84/Webly/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.LoadStorefront()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		return 1
	}

	log := logger.Must("storefront", cfg.Env)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = cli.Execute(ctx, func(ctx context.Context) (*cli.App, error) {
		return cli.NewApp(ctx, cfg, log)
	})
	if err != nil {
		log.Debug("command failed", zap.Error(err))
		return 1
	}
	return 0
}
