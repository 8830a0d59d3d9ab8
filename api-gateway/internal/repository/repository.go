package repository

import (
	"context"
	"errors"

	"github.com/blunfr84/Webly/api-gateway/internal/domain"
	"github.com/blunfr84/Webly/product-service/pkg/catalog"
)

var ErrNotFound = errors.New("record not found")

// ServiceRepository defines catalog persistence.
// Consumers define this interface, not the JSON or SQLite implementation
type ServiceRepository interface {
	ListServices(ctx context.Context) ([]catalog.Service, error)
	GetService(ctx context.Context, id int64) (*catalog.Service, error)
	CreateService(ctx context.Context, svc *catalog.Service) error
	UpdateService(ctx context.Context, id int64, fn func(*catalog.Service) error) (*catalog.Service, error)
	DeleteService(ctx context.Context, id int64) (*catalog.Service, error)
}

type MessageRepository interface {
	ListMessages(ctx context.Context) ([]domain.Message, error)
	GetMessage(ctx context.Context, id int64) (*domain.Message, error)
	CreateMessage(ctx context.Context, msg *domain.Message) error
	UpdateMessage(ctx context.Context, id int64, fn func(*domain.Message) error) (*domain.Message, error)
	DeleteMessage(ctx context.Context, id int64) (*domain.Message, error)
}

type EventRepository interface {
	ListEvents(ctx context.Context) ([]domain.Event, error)
	GetEvent(ctx context.Context, id int64) (*domain.Event, error)
	CreateEvent(ctx context.Context, ev *domain.Event) error
	UpdateEvent(ctx context.Context, id int64, fn func(*domain.Event) error) (*domain.Event, error)
	DeleteEvent(ctx context.Context, id int64) (*domain.Event, error)
}

type AnalyticsRepository interface {
	ListDays(ctx context.Context) ([]domain.DailyAnalytics, error)
	GetDay(ctx context.Context, date string) (*domain.DailyAnalytics, error)
	RecordVisit(ctx context.Context, date string) (*domain.DailyAnalytics, error)
}

// Set is everything the api-gateway persists.
type Set struct {
	Services  ServiceRepository
	Messages  MessageRepository
	Events    EventRepository
	Analytics AnalyticsRepository
}
