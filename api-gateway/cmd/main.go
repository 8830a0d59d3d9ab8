package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/blunfr84/Webly/api-gateway/internal/auth"
	"github.com/blunfr84/Webly/api-gateway/internal/mail"
	"github.com/blunfr84/Webly/api-gateway/internal/payment"
	"github.com/blunfr84/Webly/api-gateway/internal/repository"
	"github.com/blunfr84/Webly/pkg/config"
	"github.com/blunfr84/Webly/pkg/logger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	h "github.com/blunfr84/Webly/api-gateway/internal/http"
)

func main() {
	cfg, err := config.LoadServer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.Must("api-gateway", cfg.Env)
	defer log.Sync()
	zap.ReplaceGlobals(log)

	repos, closeRepos, err := openRepositories(cfg, log)
	if err != nil {
		log.Fatal("failed to open store", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	defer closeRepos()

	var sender mail.Sender = mail.NewLogSender(log)
	if cfg.SendGridAPIKey != "" {
		sender = mail.NewSendGridSender(cfg.SendGridAPIKey, cfg.EmailFrom, "Webly", log)
	} else {
		log.Warn("SENDGRID_API_KEY not set, mails are logged only")
	}
	adminURL := cfg.AdminURL
	if adminURL == "" {
		adminURL = strings.TrimRight(cfg.BaseURL, "/") + "/admin"
	}
	notifier := mail.NewNotifier(sender, cfg.EmailTo, adminURL, log)

	var gateway payment.Gateway
	if cfg.StripeSecretKey != "" {
		gateway = payment.NewStripeGateway(cfg.StripeSecretKey, cfg.BaseURL, nil)
	} else {
		log.Warn("STRIPE_SECRET_KEY not set, card payments disabled")
	}

	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		log.Warn("ADMIN_USERNAME or ADMIN_PASSWORD not set, admin login disabled")
	}

	router := h.NewRouter(h.Deps{
		Config:   *cfg,
		Repos:    repos,
		Issuer:   auth.NewIssuer(cfg.JWTSecret, cfg.AdminUsername, cfg.AdminPassword),
		Notifier: notifier,
		Invoices: notifier,
		Payments: gateway,
		Logger:   log,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      otelhttp.NewHandler(router, "api-gateway"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("api-gateway starting",
			zap.String("addr", srv.Addr),
			zap.String("store", cfg.StoreDriver),
			zap.String("static_dir", cfg.StaticDir),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("server exited")
}

// openRepositories picks the store for STORE_DRIVER. The sqlite driver keeps
// services and messages in the database; events and analytics stay in JSON.
func openRepositories(cfg *config.Server, log *zap.Logger) (repository.Set, func() error, error) {
	jsonRepo := repository.NewJSONRepository(cfg.DataDir)
	noop := func() error { return nil }

	switch cfg.StoreDriver {
	case "", "json":
		return jsonRepo.Set(), noop, nil
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
			return repository.Set{}, noop, err
		}
		db, err := repository.NewSQLiteRepository(cfg.SQLitePath)
		if err != nil {
			return repository.Set{}, noop, err
		}
		if err := db.RunMigrations(); err != nil {
			db.Close()
			return repository.Set{}, noop, err
		}
		log.Info("sqlite store ready", zap.String("path", cfg.SQLitePath))

		set := jsonRepo.Set()
		set.Services = db
		set.Messages = db
		return set, db.Close, nil
	default:
		return repository.Set{}, noop, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
