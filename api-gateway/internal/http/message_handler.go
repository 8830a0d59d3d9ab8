package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/blunfr84/Webly/api-gateway/internal/domain"
	"github.com/blunfr84/Webly/api-gateway/internal/repository"
	"github.com/blunfr84/Webly/checkout-service/pkg/sink"
	"go.uber.org/zap"
)

const (
	msgMessageNotFound = "Message non trouvé"
	msgMessageRequired = "Nom, email et message requis"
	msgMessageReceived = "Message reçu avec succès"
)

// MessageNotifier tells the admin about a new message without blocking the
// request.
type MessageNotifier interface {
	NotifyAsync(msg domain.Message)
}

type MessageHandler struct {
	repo     repository.MessageRepository
	notifier MessageNotifier
	timeout  time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

func NewMessageHandler(repo repository.MessageRepository, notifier MessageNotifier, timeout time.Duration, now func() time.Time, logger *zap.Logger) *MessageHandler {
	return &MessageHandler{
		repo:     repo,
		notifier: notifier,
		timeout:  timeout,
		now:      now,
		logger:   logger,
	}
}

// POST /api/messages
func (h *MessageHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req sink.MessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Message) == "" {
		respondError(w, http.StatusBadRequest, "missing_fields", msgMessageRequired)
		return
	}

	now := h.now()
	msg := domain.Message{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Company: req.Company,
		Message: req.Message,
		Date:    req.Date,
		Time:    req.Time,
		Status:  domain.MessageStatusPending,
	}
	if msg.Date == "" {
		msg.Date = now.Format("2006-01-02")
	}
	if msg.Time == "" {
		msg.Time = now.Format("15:04")
	}

	if err := h.repo.CreateMessage(ctx, &msg); err != nil {
		h.logger.Error("create message failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "save_failed", msgSaveFailed)
		return
	}

	h.notifier.NotifyAsync(msg)
	h.logger.Info("message received", zap.Int64("message_id", msg.ID))
	respondData(w, http.StatusCreated, msgMessageReceived, msg)
}

// GET /api/messages
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	msgs, err := h.repo.ListMessages(ctx)
	if err != nil {
		h.logger.Error("list messages failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", msgServerError)
		return
	}
	if msgs == nil {
		msgs = []domain.Message{}
	}

	domain.SortMessagesNewestFirst(msgs)
	respondData(w, http.StatusOK, "", msgs)
}

// GET /api/messages/stats
func (h *MessageHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	msgs, err := h.repo.ListMessages(ctx)
	if err != nil {
		h.logger.Error("list messages failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", msgServerError)
		return
	}
	respondData(w, http.StatusOK, "", domain.ComputeMessageStats(msgs))
}

// PUT /api/messages/{id}
func (h *MessageHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, ok := idParam(r)
	if !ok {
		respondError(w, http.StatusNotFound, "not_found", msgMessageNotFound)
		return
	}

	var patch domain.MessagePatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	msg, err := h.repo.UpdateMessage(ctx, id, func(m *domain.Message) error {
		patch.Apply(m)
		return nil
	})
	if err != nil {
		h.handleError(w, err, "update message failed")
		return
	}
	respondData(w, http.StatusOK, "", msg)
}

// DELETE /api/messages/{id}
func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, ok := idParam(r)
	if !ok {
		respondError(w, http.StatusNotFound, "not_found", msgMessageNotFound)
		return
	}

	msg, err := h.repo.DeleteMessage(ctx, id)
	if err != nil {
		h.handleError(w, err, "delete message failed")
		return
	}
	respondData(w, http.StatusOK, "Message supprimé", msg)
}

func (h *MessageHandler) handleError(w http.ResponseWriter, err error, msg string) {
	if errors.Is(err, repository.ErrNotFound) {
		respondError(w, http.StatusNotFound, "not_found", msgMessageNotFound)
		return
	}
	h.logger.Error(msg, zap.Error(err))
	respondError(w, http.StatusInternalServerError, "save_failed", msgSaveFailed)
}
