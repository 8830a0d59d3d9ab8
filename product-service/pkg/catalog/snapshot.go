package catalog

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/singleflight"
)

var ErrServiceNotFound = errors.New("service not found")

// Snapshot is an immutable copy of the catalog at fetch time.
type Snapshot struct {
	services []Service
	byID     map[int64]int
}

func NewSnapshot(services []Service) *Snapshot {
	s := &Snapshot{
		services: make([]Service, 0, len(services)),
		byID:     make(map[int64]int, len(services)),
	}
	for _, svc := range services {
		s.byID[svc.ID] = len(s.services)
		s.services = append(s.services, svc.Clone())
	}
	return s
}

func (s *Snapshot) All() []Service {
	out := make([]Service, 0, len(s.services))
	for _, svc := range s.services {
		out = append(out, svc.Clone())
	}
	return out
}

func (s *Snapshot) Find(id int64) (Service, error) {
	i, ok := s.byID[id]
	if !ok {
		return Service{}, fmt.Errorf("%w: id %d", ErrServiceNotFound, id)
	}
	return s.services[i].Clone(), nil
}

func (s *Snapshot) Len() int { return len(s.services) }

// ServiceLister is implemented by the sink client.
type ServiceLister interface {
	ListServices(ctx context.Context) ([]Service, error)
}

type Loader struct {
	lister ServiceLister
	sfg    singleflight.Group // concurrent loads share one fetch
}

func NewLoader(lister ServiceLister) *Loader {
	return &Loader{lister: lister}
}

func (l *Loader) Load(ctx context.Context) (*Snapshot, error) {
	v, err, _ := l.sfg.Do("catalog", func() (interface{}, error) {
		services, err := l.lister.ListServices(ctx)
		if err != nil {
			return nil, fmt.Errorf("list services: %w", err)
		}
		return NewSnapshot(services), nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Snapshot), nil
}
