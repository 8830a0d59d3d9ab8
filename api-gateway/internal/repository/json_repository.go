package repository

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/blunfr84/Webly/api-gateway/internal/domain"
	"github.com/blunfr84/Webly/pkg/jsonstore"
	"github.com/blunfr84/Webly/product-service/pkg/catalog"
)

// jsonTable adds id lookups over a JSON collection. Ids are max+1.
type jsonTable[T any] struct {
	col   *jsonstore.Collection[T]
	id    func(*T) int64
	setID func(*T, int64)
}

func (t jsonTable[T]) list() ([]T, error) {
	return t.col.Load()
}

func (t jsonTable[T]) get(id int64) (*T, error) {
	records, err := t.col.Load()
	if err != nil {
		return nil, err
	}
	for i := range records {
		if t.id(&records[i]) == id {
			return &records[i], nil
		}
	}
	return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
}

func (t jsonTable[T]) create(rec *T) error {
	return t.col.Update(func(records []T) ([]T, error) {
		next := int64(1)
		for i := range records {
			if v := t.id(&records[i]); v >= next {
				next = v + 1
			}
		}
		t.setID(rec, next)
		return append(records, *rec), nil
	})
}

func (t jsonTable[T]) update(id int64, fn func(*T) error) (*T, error) {
	var out T
	err := t.col.Update(func(records []T) ([]T, error) {
		for i := range records {
			if t.id(&records[i]) != id {
				continue
			}
			if err := fn(&records[i]); err != nil {
				return nil, err
			}
			t.setID(&records[i], id)
			out = records[i]
			return records, nil
		}
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (t jsonTable[T]) delete(id int64) (*T, error) {
	var out T
	err := t.col.Update(func(records []T) ([]T, error) {
		for i := range records {
			if t.id(&records[i]) == id {
				out = records[i]
				return append(records[:i], records[i+1:]...), nil
			}
		}
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// JSONRepository keeps each record kind in its own file under dataDir:
// services.json, messages.json, events.json, analytics.json.
type JSONRepository struct {
	services  jsonTable[catalog.Service]
	messages  jsonTable[domain.Message]
	events    jsonTable[domain.Event]
	analytics *jsonstore.Collection[domain.DailyAnalytics]
}

func NewJSONRepository(dataDir string) *JSONRepository {
	return &JSONRepository{
		services: jsonTable[catalog.Service]{
			col:   jsonstore.NewCollection[catalog.Service](filepath.Join(dataDir, "services.json")),
			id:    func(s *catalog.Service) int64 { return s.ID },
			setID: func(s *catalog.Service, id int64) { s.ID = id },
		},
		messages: jsonTable[domain.Message]{
			col:   jsonstore.NewCollection[domain.Message](filepath.Join(dataDir, "messages.json")),
			id:    func(m *domain.Message) int64 { return m.ID },
			setID: func(m *domain.Message, id int64) { m.ID = id },
		},
		events: jsonTable[domain.Event]{
			col:   jsonstore.NewCollection[domain.Event](filepath.Join(dataDir, "events.json")),
			id:    func(e *domain.Event) int64 { return e.ID },
			setID: func(e *domain.Event, id int64) { e.ID = id },
		},
		analytics: jsonstore.NewCollection[domain.DailyAnalytics](filepath.Join(dataDir, "analytics.json")),
	}
}

func (r *JSONRepository) Set() Set {
	return Set{Services: r, Messages: r, Events: r, Analytics: r}
}

func (r *JSONRepository) ListServices(ctx context.Context) ([]catalog.Service, error) {
	return r.services.list()
}

func (r *JSONRepository) GetService(ctx context.Context, id int64) (*catalog.Service, error) {
	return r.services.get(id)
}

func (r *JSONRepository) CreateService(ctx context.Context, svc *catalog.Service) error {
	return r.services.create(svc)
}

func (r *JSONRepository) UpdateService(ctx context.Context, id int64, fn func(*catalog.Service) error) (*catalog.Service, error) {
	return r.services.update(id, fn)
}

func (r *JSONRepository) DeleteService(ctx context.Context, id int64) (*catalog.Service, error) {
	return r.services.delete(id)
}

func (r *JSONRepository) ListMessages(ctx context.Context) ([]domain.Message, error) {
	return r.messages.list()
}

func (r *JSONRepository) GetMessage(ctx context.Context, id int64) (*domain.Message, error) {
	return r.messages.get(id)
}

func (r *JSONRepository) CreateMessage(ctx context.Context, msg *domain.Message) error {
	return r.messages.create(msg)
}

func (r *JSONRepository) UpdateMessage(ctx context.Context, id int64, fn func(*domain.Message) error) (*domain.Message, error) {
	return r.messages.update(id, fn)
}

func (r *JSONRepository) DeleteMessage(ctx context.Context, id int64) (*domain.Message, error) {
	return r.messages.delete(id)
}

func (r *JSONRepository) ListEvents(ctx context.Context) ([]domain.Event, error) {
	return r.events.list()
}

func (r *JSONRepository) GetEvent(ctx context.Context, id int64) (*domain.Event, error) {
	return r.events.get(id)
}

func (r *JSONRepository) CreateEvent(ctx context.Context, ev *domain.Event) error {
	return r.events.create(ev)
}

func (r *JSONRepository) UpdateEvent(ctx context.Context, id int64, fn func(*domain.Event) error) (*domain.Event, error) {
	return r.events.update(id, fn)
}

func (r *JSONRepository) DeleteEvent(ctx context.Context, id int64) (*domain.Event, error) {
	return r.events.delete(id)
}

func (r *JSONRepository) ListDays(ctx context.Context) ([]domain.DailyAnalytics, error) {
	return r.analytics.Load()
}

func (r *JSONRepository) GetDay(ctx context.Context, date string) (*domain.DailyAnalytics, error) {
	days, err := r.analytics.Load()
	if err != nil {
		return nil, err
	}
	for i := range days {
		if days[i].Date == date {
			return &days[i], nil
		}
	}
	return nil, fmt.Errorf("%w: day %s", ErrNotFound, date)
}

func (r *JSONRepository) RecordVisit(ctx context.Context, date string) (*domain.DailyAnalytics, error) {
	var out domain.DailyAnalytics
	err := r.analytics.Update(func(days []domain.DailyAnalytics) ([]domain.DailyAnalytics, error) {
		for i := range days {
			if days[i].Date == date {
				days[i].Visitors++
				out = days[i]
				return days, nil
			}
		}
		out = domain.DailyAnalytics{
			ID:       jsonstore.NextID(days, func(d domain.DailyAnalytics) int64 { return d.ID }),
			Date:     date,
			Visitors: 1,
		}
		return append(days, out), nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
