package checkout

import (
	"context"
	"fmt"

	"github.com/blunfr84/Webly/cart-service/pkg/cart"
	"github.com/blunfr84/Webly/cart-service/pkg/pricing"
	d "github.com/blunfr84/Webly/checkout-service/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OpenCheckout is what the checkout dialog shows before the form is filled.
type OpenCheckout struct {
	Items []cart.CartItem
	Total decimal.Decimal
}

// Open starts a fresh attempt. It refuses an empty cart.
func (s *CheckoutServiceImpl) Open() (*OpenCheckout, error) {
	if s.cart.IsEmpty() {
		return nil, ErrEmptyCart
	}
	s.mu.Lock()
	if !s.status.IsDispatching() && s.status != d.CheckoutStatusValidating {
		s.status = d.CheckoutStatusIdle
	}
	s.mu.Unlock()

	items := s.cart.Items()
	return &OpenCheckout{Items: items, Total: pricing.CartTotal(items)}, nil
}

func (s *CheckoutServiceImpl) Status() d.CheckoutStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Submit validates the form and dispatches the cart: card payments open a
// hosted session, every other method is sent as an order message. Only one
// submission runs at a time and nothing is retried.
func (s *CheckoutServiceImpl) Submit(ctx context.Context, form d.CheckoutForm) (*d.CheckoutResult, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, ErrCheckoutInProgress
	}
	defer s.inFlight.Store(false)

	s.mu.Lock()
	if s.status.IsTerminal() {
		s.status = d.CheckoutStatusIdle
	}
	s.mu.Unlock()

	if err := s.transition(d.CheckoutStatusValidating); err != nil {
		return nil, err
	}

	form = form.Normalize()
	items := s.cart.Items()
	if err := validate(form, items); err != nil {
		_ = s.transition(d.CheckoutStatusIdle)
		return &d.CheckoutResult{Status: d.CheckoutStatusIdle}, err
	}

	if form.PaymentMethod == d.PaymentMethodCard {
		return s.payByCard(ctx, form, items)
	}
	return s.sendOrderMessage(ctx, form, items)
}

func (s *CheckoutServiceImpl) fail(result *d.CheckoutResult, err error) (*d.CheckoutResult, error) {
	if tErr := s.transition(d.CheckoutStatusFailed); tErr != nil {
		s.logger.Error("checkout status update failed", zap.Error(tErr))
	}
	result.Status = d.CheckoutStatusFailed
	return result, err
}

func (s *CheckoutServiceImpl) transition(to d.CheckoutStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !d.CanTransitionTo(s.status, to) {
		return fmt.Errorf("%w: %s -> %s", IllegalTransitionError, s.status, to)
	}
	s.status = to
	return nil
}
