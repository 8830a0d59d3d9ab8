package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/blunfr84/Webly/api-gateway/internal/repository"
	"github.com/blunfr84/Webly/product-service/pkg/catalog"
	"go.uber.org/zap"
)

const (
	msgServiceNotFound = "Service non trouvé"
	msgServiceRequired = "Titre et description requis"
	msgInvalidService  = "Type de service invalide"

	defaultServiceCategory = "Autre"
)

type ServiceHandler struct {
	repo    repository.ServiceRepository
	timeout time.Duration
	logger  *zap.Logger
}

func NewServiceHandler(repo repository.ServiceRepository, timeout time.Duration, logger *zap.Logger) *ServiceHandler {
	return &ServiceHandler{
		repo:    repo,
		timeout: timeout,
		logger:  logger,
	}
}

// ServiceInput is the admin create/update body. Absent keys leave fields
// untouched on update; an explicit null clears a price or duration.
type ServiceInput struct {
	Category          *string              `json:"category"`
	Title             *string              `json:"title"`
	Description       *string              `json:"description"`
	Type              *catalog.ServiceType `json:"type"`
	Price             optional[float64]    `json:"price"`
	SubscriptionPrice optional[float64]    `json:"subscriptionPrice"`
	Duration          optional[int]        `json:"duration"`
	Features          *[]string            `json:"features"`
	Options           *[]catalog.Option    `json:"options"`
}

func nonEmpty(s *string) bool {
	return s != nil && *s != ""
}

// nonZero keeps a number only when it is set and not zero.
func nonZero[T float64 | int](v *T) *T {
	if v == nil || *v == 0 {
		return nil
	}
	out := *v
	return &out
}

func (in ServiceInput) validType() bool {
	return in.Type == nil || *in.Type == "" || in.Type.IsValid()
}

func (in ServiceInput) newService() catalog.Service {
	svc := catalog.Service{
		Category:          defaultServiceCategory,
		Title:             *in.Title,
		Description:       *in.Description,
		Type:              catalog.ServiceTypeOneTime,
		Price:             nonZero(in.Price.Value),
		SubscriptionPrice: nonZero(in.SubscriptionPrice.Value),
		Duration:          nonZero(in.Duration.Value),
		Features:          []string{},
		Options:           []catalog.Option{},
	}
	if nonEmpty(in.Category) {
		svc.Category = *in.Category
	}
	if in.Type != nil && *in.Type != "" {
		svc.Type = *in.Type
	}
	if in.Features != nil {
		svc.Features = *in.Features
	}
	if in.Options != nil {
		svc.Options = *in.Options
	}
	return svc
}

func (in ServiceInput) apply(svc *catalog.Service) {
	if nonEmpty(in.Category) {
		svc.Category = *in.Category
	}
	if in.Type != nil && *in.Type != "" {
		svc.Type = *in.Type
	}
	if nonEmpty(in.Title) {
		svc.Title = *in.Title
	}
	if nonEmpty(in.Description) {
		svc.Description = *in.Description
	}
	if in.Price.Set {
		svc.Price = in.Price.Value
	}
	if in.SubscriptionPrice.Set {
		svc.SubscriptionPrice = in.SubscriptionPrice.Value
	}
	if in.Duration.Set {
		svc.Duration = in.Duration.Value
	}
	if in.Features != nil {
		svc.Features = *in.Features
	}
	if in.Options != nil {
		svc.Options = *in.Options
	}
}

// GET /api/services
func (h *ServiceHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	services, err := h.repo.ListServices(ctx)
	if err != nil {
		h.logger.Error("list services failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", msgServerError)
		return
	}
	if services == nil {
		services = []catalog.Service{}
	}

	w.Header().Set("Cache-Control", "no-store")
	respondData(w, http.StatusOK, "", services)
}

// GET /api/services/{id}
func (h *ServiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, ok := idParam(r)
	if !ok {
		respondError(w, http.StatusNotFound, "not_found", msgServiceNotFound)
		return
	}

	svc, err := h.repo.GetService(ctx, id)
	if err != nil {
		h.handleError(w, err, "get service failed")
		return
	}
	respondData(w, http.StatusOK, "", svc)
}

// POST /api/services
func (h *ServiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var in ServiceInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if !nonEmpty(in.Title) || !nonEmpty(in.Description) {
		respondError(w, http.StatusBadRequest, "missing_fields", msgServiceRequired)
		return
	}
	if !in.validType() {
		respondError(w, http.StatusBadRequest, "invalid_type", msgInvalidService)
		return
	}

	svc := in.newService()
	if err := h.repo.CreateService(ctx, &svc); err != nil {
		h.logger.Error("create service failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "save_failed", msgSaveFailed)
		return
	}

	h.logger.Info("service created", zap.Int64("service_id", svc.ID))
	respondData(w, http.StatusCreated, "", svc)
}

// PUT /api/services/{id}
func (h *ServiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, ok := idParam(r)
	if !ok {
		respondError(w, http.StatusNotFound, "not_found", msgServiceNotFound)
		return
	}

	var in ServiceInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if !in.validType() {
		respondError(w, http.StatusBadRequest, "invalid_type", msgInvalidService)
		return
	}

	svc, err := h.repo.UpdateService(ctx, id, func(s *catalog.Service) error {
		in.apply(s)
		return nil
	})
	if err != nil {
		h.handleError(w, err, "update service failed")
		return
	}
	respondData(w, http.StatusOK, "", svc)
}

// DELETE /api/services/{id}
func (h *ServiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, ok := idParam(r)
	if !ok {
		respondError(w, http.StatusNotFound, "not_found", msgServiceNotFound)
		return
	}

	svc, err := h.repo.DeleteService(ctx, id)
	if err != nil {
		h.handleError(w, err, "delete service failed")
		return
	}
	respondData(w, http.StatusOK, "Service supprimé", svc)
}

func (h *ServiceHandler) handleError(w http.ResponseWriter, err error, msg string) {
	if errors.Is(err, repository.ErrNotFound) {
		respondError(w, http.StatusNotFound, "not_found", msgServiceNotFound)
		return
	}
	h.logger.Error(msg, zap.Error(err))
	respondError(w, http.StatusInternalServerError, "save_failed", msgSaveFailed)
}
