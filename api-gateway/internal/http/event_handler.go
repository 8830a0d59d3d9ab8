package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/blunfr84/Webly/api-gateway/internal/domain"
	"github.com/blunfr84/Webly/api-gateway/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	msgEventNotFound    = "Événement non trouvé"
	msgEventRequired    = "Titre, date et heure requis"
	msgBookingRequired  = "Nom et email requis"
	msgEventFull        = "Plus assez de places disponibles"
	msgInvalidSeats     = "Nombre de places invalide"
	msgBookingConfirmed = "Réservation confirmée"
	msgEventPast        = "Événement déjà passé"
)

type EventHandler struct {
	events   repository.EventRepository
	messages repository.MessageRepository
	notifier MessageNotifier
	timeout  time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

func NewEventHandler(events repository.EventRepository, messages repository.MessageRepository, notifier MessageNotifier, timeout time.Duration, now func() time.Time, logger *zap.Logger) *EventHandler {
	return &EventHandler{
		events:   events,
		messages: messages,
		notifier: notifier,
		timeout:  timeout,
		now:      now,
		logger:   logger,
	}
}

type EventInput struct {
	Title           string `json:"title"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	Duration        *int   `json:"duration"`
	MaxParticipants *int   `json:"maxParticipants"`
}

type ReservationRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Seats   int    `json:"seats"`
	Message string `json:"message"`
}

type ReservationResponse struct {
	Reference string       `json:"reference"`
	Event     domain.Event `json:"event"`
	MessageID int64        `json:"messageId"`
}

// GET /api/events
func (h *EventHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	events, err := h.events.ListEvents(ctx)
	if err != nil {
		h.logger.Error("list events failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", msgServerError)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	respondData(w, http.StatusOK, "", domain.UpcomingEvents(events, h.now()))
}

// GET /api/events/all
func (h *EventHandler) All(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	events, err := h.events.ListEvents(ctx)
	if err != nil {
		h.logger.Error("list events failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", msgServerError)
		return
	}
	if events == nil {
		events = []domain.Event{}
	}

	domain.SortEventsLatestFirst(events, h.now().Location())
	respondData(w, http.StatusOK, "", events)
}

// GET /api/events/{id}
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, ok := idParam(r)
	if !ok {
		respondError(w, http.StatusNotFound, "not_found", msgEventNotFound)
		return
	}

	ev, err := h.events.GetEvent(ctx, id)
	if err != nil {
		h.handleError(w, err, "get event failed")
		return
	}
	respondData(w, http.StatusOK, "", ev)
}

// POST /api/events
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var in EventInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if in.Title == "" || in.Date == "" || in.Time == "" {
		respondError(w, http.StatusBadRequest, "missing_fields", msgEventRequired)
		return
	}

	ev := domain.Event{
		Title:           in.Title,
		Date:            in.Date,
		Time:            in.Time,
		Duration:        domain.DefaultEventDuration,
		MaxParticipants: domain.DefaultEventMaxParticipants,
		Status:          domain.EventStatusAvailable,
	}
	if v := nonZero(in.Duration); v != nil {
		ev.Duration = *v
	}
	if v := nonZero(in.MaxParticipants); v != nil {
		ev.MaxParticipants = *v
	}

	if err := h.events.CreateEvent(ctx, &ev); err != nil {
		h.logger.Error("create event failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "save_failed", msgSaveFailed)
		return
	}
	respondData(w, http.StatusCreated, "", ev)
}

// PUT /api/events/{id}
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, ok := idParam(r)
	if !ok {
		respondError(w, http.StatusNotFound, "not_found", msgEventNotFound)
		return
	}

	var patch domain.EventPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	ev, err := h.events.UpdateEvent(ctx, id, func(e *domain.Event) error {
		patch.Apply(e)
		return nil
	})
	if err != nil {
		h.handleError(w, err, "update event failed")
		return
	}
	respondData(w, http.StatusOK, "", ev)
}

// DELETE /api/events/{id}
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, ok := idParam(r)
	if !ok {
		respondError(w, http.StatusNotFound, "not_found", msgEventNotFound)
		return
	}

	ev, err := h.events.DeleteEvent(ctx, id)
	if err != nil {
		h.handleError(w, err, "delete event failed")
		return
	}
	respondData(w, http.StatusOK, "Événement supprimé", ev)
}

// POST /api/events/{id}/reservations books seats and files a message so the
// booking shows up in the admin inbox.
func (h *EventHandler) Reserve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, ok := idParam(r)
	if !ok {
		respondError(w, http.StatusNotFound, "not_found", msgEventNotFound)
		return
	}

	var req ReservationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" {
		respondError(w, http.StatusBadRequest, "missing_fields", msgBookingRequired)
		return
	}
	if req.Seats == 0 {
		req.Seats = 1
	}

	now := h.now()
	if ev, err := h.events.GetEvent(ctx, id); err == nil && ev.StartsAt(now.Location()).Before(now) {
		respondError(w, http.StatusConflict, "event_past", msgEventPast)
		return
	}

	ev, err := h.events.UpdateEvent(ctx, id, func(e *domain.Event) error {
		return e.Reserve(req.Seats)
	})
	switch {
	case errors.Is(err, domain.ErrEventFull):
		respondError(w, http.StatusConflict, "event_full", msgEventFull)
		return
	case errors.Is(err, domain.ErrInvalidSeats):
		respondError(w, http.StatusBadRequest, "invalid_seats", msgInvalidSeats)
		return
	case err != nil:
		h.handleError(w, err, "reserve event failed")
		return
	}

	reference := uuid.NewString()
	msg := domain.Message{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Company: req.Company,
		Message: bookingMessage(*ev, req, reference),
		Date:    now.Format("2006-01-02"),
		Time:    now.Format("15:04"),
		Status:  domain.MessageStatusPending,
	}
	if err := h.messages.CreateMessage(ctx, &msg); err != nil {
		// seats stay booked; the reference is still returned to the customer
		h.logger.Error("booking message not saved",
			zap.Int64("event_id", ev.ID),
			zap.String("reference", reference),
			zap.Error(err),
		)
	} else {
		h.notifier.NotifyAsync(msg)
	}

	h.logger.Info("event reserved",
		zap.Int64("event_id", ev.ID),
		zap.Int("seats", req.Seats),
		zap.String("reference", reference),
	)
	respondData(w, http.StatusCreated, msgBookingConfirmed, ReservationResponse{
		Reference: reference,
		Event:     *ev,
		MessageID: msg.ID,
	})
}

func bookingMessage(ev domain.Event, req ReservationRequest, reference string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Réservation: %s le %s à %s (%d place(s))\n", ev.Title, ev.Date, ev.Time, req.Seats)
	fmt.Fprintf(&b, "Référence: %s", reference)
	if m := strings.TrimSpace(req.Message); m != "" {
		b.WriteString("\n\n")
		b.WriteString(m)
	}
	return b.String()
}

func (h *EventHandler) handleError(w http.ResponseWriter, err error, msg string) {
	if errors.Is(err, repository.ErrNotFound) {
		respondError(w, http.StatusNotFound, "not_found", msgEventNotFound)
		return
	}
	h.logger.Error(msg, zap.Error(err))
	respondError(w, http.StatusInternalServerError, "save_failed", msgSaveFailed)
}
