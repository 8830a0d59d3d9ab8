package http

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/blunfr84/Webly/api-gateway/internal/mail"
	"github.com/blunfr84/Webly/api-gateway/internal/payment"
	"github.com/blunfr84/Webly/checkout-service/pkg/sink"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const placeholderPublishableKey = "pk_test_placeholder"

type InvoiceSender interface {
	SendInvoice(ctx context.Context, inv mail.Invoice) error
}

type PaymentHandler struct {
	gateway        payment.Gateway
	invoices       InvoiceSender
	publishableKey string
	timeout        time.Duration
	logger         *zap.Logger

	// invoiced holds ids of sessions whose invoice was already sent
	invoiced sync.Map
}

// NewPaymentHandler accepts a nil gateway; payment routes then answer 503.
func NewPaymentHandler(gateway payment.Gateway, invoices InvoiceSender, publishableKey string, timeout time.Duration, logger *zap.Logger) *PaymentHandler {
	if gateway == nil {
		gateway = payment.Disabled{}
	}
	return &PaymentHandler{
		gateway:        gateway,
		invoices:       invoices,
		publishableKey: publishableKey,
		timeout:        timeout,
		logger:         logger,
	}
}

type SessionDTO struct {
	ID            string            `json:"id"`
	Status        string            `json:"status"`
	Amount        float64           `json:"amount"`
	CustomerEmail string            `json:"customer_email"`
	Metadata      map[string]string `json:"metadata"`
}

type StripeConfigResponse struct {
	Success        bool   `json:"success"`
	PublishableKey string `json:"publishableKey"`
}

// POST /api/payments/checkout-session
func (h *PaymentHandler) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req sink.CheckoutSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	s, err := h.gateway.CreateCheckoutSession(ctx, payment.CheckoutRequest{
		LineItems:      req.LineItems,
		CustomerEmail:  req.CustomerEmail,
		CustomerName:   req.CustomerName,
		CustomerPhone:  req.CustomerPhone,
		Message:        req.Message,
		IdempotencyKey: r.Header.Get(sink.IdempotencyKeyHeader),
	})
	if errors.Is(err, payment.ErrNotConfigured) {
		respondPaymentsDisabled(w)
		return
	}
	if errors.Is(err, payment.ErrInvalidLineItems) {
		respondError(w, http.StatusBadRequest, "invalid_items", "Articles invalides")
		return
	}
	if err != nil {
		h.logger.Error("create checkout session failed", zap.Error(err))
		respondError(w, http.StatusBadGateway, "provider_error", "Erreur lors de la création de la session de paiement")
		return
	}

	h.logger.Info("checkout session created",
		zap.String("session_id", s.ID),
		zap.Int("items", len(req.LineItems)),
	)
	respondJSON(w, http.StatusOK, sink.CheckoutSessionResponse{
		Success:        true,
		SessionID:      s.ID,
		PublishableKey: h.publicKey(),
		URL:            s.URL,
	})
}

// GET /api/payments/session/{sessionID} reports a session and mails the
// invoice the first time it is seen paid. Mail failures are logged only.
func (h *PaymentHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	s, err := h.gateway.GetSession(ctx, chi.URLParam(r, "sessionID"))
	if errors.Is(err, payment.ErrNotConfigured) {
		respondPaymentsDisabled(w)
		return
	}
	if err != nil {
		h.logger.Error("get checkout session failed", zap.Error(err))
		respondError(w, http.StatusBadGateway, "provider_error", "Erreur lors de la récupération de la session")
		return
	}

	if s.Paid() && s.CustomerEmail != "" {
		if _, sent := h.invoiced.LoadOrStore(s.ID, struct{}{}); !sent {
			h.sendInvoice(ctx, s)
		}
	}

	respondData(w, http.StatusOK, "", SessionDTO{
		ID:            s.ID,
		Status:        s.PaymentStatus,
		Amount:        s.Amount().InexactFloat64(),
		CustomerEmail: s.CustomerEmail,
		Metadata:      s.Metadata,
	})
}

func (h *PaymentHandler) sendInvoice(ctx context.Context, s *payment.Session) {
	created := s.Created
	if created.IsZero() {
		created = time.Now()
	}
	err := h.invoices.SendInvoice(ctx, mail.Invoice{
		Number:        s.InvoiceNumber(),
		CustomerEmail: s.CustomerEmail,
		CustomerName:  s.CustomerName,
		ServiceName:   s.Metadata["serviceName"],
		Amount:        s.Amount().String(),
		Date:          created,
		TransactionID: s.ID,
	})
	if err != nil {
		h.invoiced.Delete(s.ID)
		h.logger.Error("invoice mail failed", zap.String("session_id", s.ID), zap.Error(err))
		return
	}
	h.logger.Info("invoice sent", zap.String("session_id", s.ID), zap.String("invoice", s.InvoiceNumber()))
}

// GET /api/config/stripe
func (h *PaymentHandler) StripeConfig(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, StripeConfigResponse{Success: true, PublishableKey: h.publicKey()})
}

func respondPaymentsDisabled(w http.ResponseWriter) {
	respondError(w, http.StatusServiceUnavailable, "payments_disabled", "Paiement non configuré")
}

func (h *PaymentHandler) publicKey() string {
	if h.publishableKey == "" {
		return placeholderPublishableKey
	}
	return h.publishableKey
}
