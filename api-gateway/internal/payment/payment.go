package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/blunfr84/Webly/checkout-service/pkg/sink"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidLineItems = errors.New("invalid line items")
	ErrNotConfigured    = errors.New("payment provider not configured")
)

// metadata values are capped by the provider
const maxMetadataLen = 500

type CheckoutRequest struct {
	LineItems      []sink.LineItem
	CustomerEmail  string
	CustomerName   string
	CustomerPhone  string
	Message        string
	IdempotencyKey string
}

func (r CheckoutRequest) Validate() error {
	if len(r.LineItems) == 0 {
		return fmt.Errorf("%w: no items", ErrInvalidLineItems)
	}
	for i, li := range r.LineItems {
		if strings.TrimSpace(li.ProductName) == "" {
			return fmt.Errorf("%w: item %d has no name", ErrInvalidLineItems, i)
		}
		if li.Quantity < 1 {
			return fmt.Errorf("%w: item %d quantity %d", ErrInvalidLineItems, i, li.Quantity)
		}
		if li.UnitAmountMinorUnits < 0 {
			return fmt.Errorf("%w: item %d negative amount", ErrInvalidLineItems, i)
		}
	}
	return nil
}

// ServiceNames joins the product names, for the invoice description.
func (r CheckoutRequest) ServiceNames() string {
	names := make([]string, 0, len(r.LineItems))
	for _, li := range r.LineItems {
		names = append(names, li.ProductName)
	}
	return clip(strings.Join(names, ", "), maxMetadataLen)
}

type Session struct {
	ID            string            `json:"id"`
	URL           string            `json:"url,omitempty"`
	PaymentStatus string            `json:"status"`
	AmountTotal   int64             `json:"-"`
	CustomerEmail string            `json:"customer_email"`
	CustomerName  string            `json:"-"`
	Metadata      map[string]string `json:"metadata"`
	Created       time.Time         `json:"-"`
}

const PaymentStatusPaid = "paid"

func (s Session) Paid() bool {
	return s.PaymentStatus == PaymentStatusPaid
}

// Amount is AmountTotal in euros.
func (s Session) Amount() decimal.Decimal {
	return decimal.New(s.AmountTotal, -2)
}

// InvoiceNumber is "INV-" and the first eight characters of the session id,
// upper-cased.
func (s Session) InvoiceNumber() string {
	id := s.ID
	if len(id) > 8 {
		id = id[:8]
	}
	return "INV-" + strings.ToUpper(id)
}

type Gateway interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*Session, error)
	GetSession(ctx context.Context, id string) (*Session, error)
}

// Disabled stands in for the provider when no secret key is configured.
type Disabled struct{}

func (Disabled) CreateCheckoutSession(context.Context, CheckoutRequest) (*Session, error) {
	return nil, ErrNotConfigured
}

func (Disabled) GetSession(context.Context, string) (*Session, error) {
	return nil, ErrNotConfigured
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
