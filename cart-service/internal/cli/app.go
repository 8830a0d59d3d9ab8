package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/blunfr84/Webly/cart-service/internal/cache"
	"github.com/blunfr84/Webly/cart-service/internal/repository"
	"github.com/blunfr84/Webly/cart-service/internal/service"
	"github.com/blunfr84/Webly/cart-service/pkg/cart"
	"github.com/blunfr84/Webly/checkout-service/pkg/sink"
	"github.com/blunfr84/Webly/pkg/config"
	"github.com/blunfr84/Webly/product-service/pkg/catalog"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var ErrUnknownStorage = errors.New("unknown cart storage")

// App is everything one command invocation needs.
type App struct {
	Logger  *zap.Logger
	Sink    *sink.Client
	Store   *cart.Store
	Cart    *service.CartService
	Timeout time.Duration

	closers []func() error
}

// AppFactory builds the App lazily so that commands like --help never touch
// the network or the cart storage.
type AppFactory func(ctx context.Context) (*App, error)

// NewApp wires the storefront from its configuration.
func NewApp(ctx context.Context, cfg *config.Storefront, logger *zap.Logger) (*App, error) {
	client, err := sink.NewClient(cfg.APIBaseURL, &http.Client{Timeout: cfg.RequestTimeout})
	if err != nil {
		return nil, err
	}

	storage, closer, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	app := Assemble(ctx, client, storage, logger, cfg.RequestTimeout)
	if closer != nil {
		app.closers = append(app.closers, closer)
	}
	return app, nil
}

// Assemble builds an App over an existing sink client and cart storage.
func Assemble(ctx context.Context, client *sink.Client, storage cart.Storage, logger *zap.Logger, timeout time.Duration) *App {
	store := cart.NewStore(ctx, storage, logger)
	return &App{
		Logger:  logger,
		Sink:    client,
		Store:   store,
		Cart:    service.NewCartService(store, catalog.NewLoader(client), logger),
		Timeout: timeout,
	}
}

func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

func openStorage(ctx context.Context, cfg *config.Storefront, logger *zap.Logger) (cart.Storage, func() error, error) {
	switch cfg.CartStorage {
	case "", "file":
		logger.Debug("cart stored in file", zap.String("path", cfg.CartFile))
		return repository.NewFileStorage(cfg.CartFile), nil, nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("redis connection failed: %w", err)
		}
		logger.Debug("cart stored in redis", zap.String("addr", cfg.RedisAddr), zap.String("profile", cfg.CartProfile))
		return cache.NewRedisStorage(client, cfg.CartProfile, 0), client.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownStorage, cfg.CartStorage)
	}
}
