package http

import (
	"net/http"
	"time"

	"github.com/blunfr84/Webly/api-gateway/internal/auth"
	"github.com/blunfr84/Webly/api-gateway/internal/payment"
	"github.com/blunfr84/Webly/api-gateway/internal/repository"
	"github.com/blunfr84/Webly/pkg/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type Deps struct {
	Config   config.Server
	Repos    repository.Set
	Issuer   *auth.Issuer
	Notifier MessageNotifier
	Invoices InvoiceSender
	Payments payment.Gateway
	Logger   *zap.Logger
	Now      func() time.Time
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	if d.Now == nil {
		d.Now = time.Now
	}

	services := NewServiceHandler(d.Repos.Services, cfg.RequestTimeout, d.Logger)
	events := NewEventHandler(d.Repos.Events, d.Repos.Messages, d.Notifier, cfg.RequestTimeout, d.Now, d.Logger)
	messages := NewMessageHandler(d.Repos.Messages, d.Notifier, cfg.RequestTimeout, d.Now, d.Logger)
	analytics := NewAnalyticsHandler(d.Repos.Analytics, cfg.RequestTimeout, d.Now, d.Logger)
	authHandler := NewAuthHandler(d.Issuer)
	payments := NewPaymentHandler(d.Payments, d.Invoices, cfg.StripePublicKey, cfg.RequestTimeout, d.Logger)
	static := NewStatic(cfg.StaticDir)
	admin := auth.RequireAdmin(d.Issuer)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	if cfg.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(AccessLog(d.Logger))
	r.Use(Recoverer(d.Logger))
	r.Use(SecurityHeaders)
	if len(cfg.CORSOrigins) > 0 {
		r.Use(CORS(cfg.CORSOrigins))
	}
	r.Use(middleware.RequestSize(cfg.BodyLimitBytes))
	r.Use(middleware.Compress(5))

	r.NotFound(NotFound)
	r.MethodNotAllowed(NotFound)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(RateLimit(cfg.RateLimitMax, cfg.RateLimitWindow))

		r.Route("/services", func(r chi.Router) {
			r.Get("/", services.List)
			r.Get("/{id}", services.Get)
			r.With(admin).Post("/", services.Create)
			r.With(admin).Put("/{id}", services.Update)
			r.With(admin).Delete("/{id}", services.Delete)
		})

		r.Route("/events", func(r chi.Router) {
			r.Get("/", events.Upcoming)
			r.With(admin).Get("/all", events.All)
			r.Get("/{id}", events.Get)
			r.Post("/{id}/reservations", events.Reserve)
			r.With(admin).Post("/", events.Create)
			r.With(admin).Put("/{id}", events.Update)
			r.With(admin).Delete("/{id}", events.Delete)
		})

		r.Route("/messages", func(r chi.Router) {
			r.Post("/", messages.Create)
			r.With(admin).Get("/", messages.List)
			r.With(admin).Get("/stats", messages.Stats)
			r.With(admin).Put("/{id}", messages.Update)
			r.With(admin).Delete("/{id}", messages.Delete)
		})

		r.Route("/analytics", func(r chi.Router) {
			r.Post("/track", analytics.Track)
			r.With(admin).Get("/", analytics.Today)
			r.With(admin).Get("/summary", analytics.Summary)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/verify", authHandler.Verify)
		})

		r.Route("/payments", func(r chi.Router) {
			r.Post("/checkout-session", payments.CreateCheckoutSession)
			r.Get("/session/{sessionID}", payments.GetSession)
		})

		r.Get("/config/stripe", payments.StripeConfig)
	})

	r.Get("/", static.Page("index.html"))
	r.Get("/admin", static.Page("admin.html"))
	r.Get("/admin/", static.Page("admin.html"))
	r.Get("/admin.html", static.Page("admin.html"))
	r.Get("/*", static.ServeHTTP)
	r.Head("/*", static.ServeHTTP)

	return r
}
