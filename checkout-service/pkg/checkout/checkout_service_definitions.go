package checkout

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/blunfr84/Webly/cart-service/pkg/cart"
	d "github.com/blunfr84/Webly/checkout-service/domain"
	"github.com/blunfr84/Webly/checkout-service/pkg/sink"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Cart is the part of the cart store checkout reads and clears.
type Cart interface {
	Items() []cart.CartItem
	IsEmpty() bool
	Clear(ctx context.Context)
}

// Sink receives order messages and opens card payment sessions.
type Sink interface {
	PostMessage(ctx context.Context, req sink.MessageRequest) (*sink.MessageRecord, error)
	CreateCheckoutSession(ctx context.Context, req sink.CheckoutSessionRequest, idempotencyKey string) (*sink.CheckoutSessionResponse, error)
}

// Redirector hands the customer over to the hosted payment page.
type Redirector interface {
	Redirect(ctx context.Context, session d.HostedSession) error
}

type CheckoutService interface {
	Open() (*OpenCheckout, error)
	Submit(ctx context.Context, form d.CheckoutForm) (*d.CheckoutResult, error)
	Status() d.CheckoutStatus
}

type CheckoutServiceImpl struct {
	cart     Cart
	sink     Sink
	redirect Redirector
	logger   *zap.Logger

	timeout time.Duration
	now     func() time.Time
	newKey  func() string

	inFlight atomic.Bool
	mu       sync.Mutex
	status   d.CheckoutStatus
}

type Option func(*CheckoutServiceImpl)

// WithClock sets the clock used for message date and time.
func WithClock(now func() time.Time) Option {
	return func(s *CheckoutServiceImpl) { s.now = now }
}

// WithTimeout bounds each outbound request.
func WithTimeout(timeout time.Duration) Option {
	return func(s *CheckoutServiceImpl) { s.timeout = timeout }
}

func WithIdempotencyKeys(newKey func() string) Option {
	return func(s *CheckoutServiceImpl) { s.newKey = newKey }
}

func NewCheckoutService(c Cart, sk Sink, redirect Redirector, logger *zap.Logger, opts ...Option) *CheckoutServiceImpl {
	s := &CheckoutServiceImpl{
		cart:     c,
		sink:     sk,
		redirect: redirect,
		logger:   logger,
		timeout:  15 * time.Second,
		now:      time.Now,
		newKey:   uuid.NewString,
		status:   d.CheckoutStatusIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
