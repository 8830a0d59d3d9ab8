// Package catalog holds the service records sold on the storefront. The
// storefront treats them as read-only snapshots; the api-gateway owns writes.
package catalog

type ServiceType string

const (
	ServiceTypeOneTime      ServiceType = "one-time"
	ServiceTypeSubscription ServiceType = "subscription"
)

func (t ServiceType) IsValid() bool {
	return t == ServiceTypeOneTime || t == ServiceTypeSubscription
}

// Option is an add-on priced per unit. Names are unique within a service.
type Option struct {
	Name  string      `json:"name"`
	Price float64     `json:"price"`
	Type  ServiceType `json:"type,omitempty"`
}

// Service is a sellable offering. A nil Price means "quote on request".
type Service struct {
	ID                int64       `json:"id"`
	Category          string      `json:"category"`
	Title             string      `json:"title"`
	Description       string      `json:"description"`
	Type              ServiceType `json:"type"`
	Price             *float64    `json:"price"`
	SubscriptionPrice *float64    `json:"subscriptionPrice,omitempty"`
	Duration          *int        `json:"duration,omitempty"`
	Features          []string    `json:"features"`
	Options           []Option    `json:"options"`
}

func (s Service) IsSubscription() bool {
	return s.Type == ServiceTypeSubscription
}

// Option looks up an add-on by name.
func (s Service) Option(name string) (Option, bool) {
	for _, o := range s.Options {
		if o.Name == name {
			return o, true
		}
	}
	return Option{}, false
}

// Clone returns a copy that shares no memory with s.
func (s Service) Clone() Service {
	c := s
	if s.Price != nil {
		p := *s.Price
		c.Price = &p
	}
	if s.SubscriptionPrice != nil {
		p := *s.SubscriptionPrice
		c.SubscriptionPrice = &p
	}
	if s.Duration != nil {
		d := *s.Duration
		c.Duration = &d
	}
	if s.Features != nil {
		c.Features = append([]string(nil), s.Features...)
	}
	if s.Options != nil {
		c.Options = append([]Option(nil), s.Options...)
	}
	return c
}

func Float(v float64) *float64 { return &v }

func Int(v int) *int { return &v }
