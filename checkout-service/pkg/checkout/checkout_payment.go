package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/blunfr84/Webly/cart-service/pkg/cart"
	"github.com/blunfr84/Webly/cart-service/pkg/pricing"
	d "github.com/blunfr84/Webly/checkout-service/domain"
	"github.com/blunfr84/Webly/checkout-service/pkg/sink"
	"go.uber.org/zap"
)

// maxMetadataMessage is the provider's limit on a metadata value.
const maxMetadataMessage = 500

func (s *CheckoutServiceImpl) payByCard(ctx context.Context, form d.CheckoutForm, items []cart.CartItem) (*d.CheckoutResult, error) {
	if err := s.transition(d.CheckoutStatusDispatchingCard); err != nil {
		return nil, err
	}
	result := &d.CheckoutResult{}

	req := sink.CheckoutSessionRequest{
		LineItems:     buildLineItems(items),
		CustomerEmail: form.Email,
		CustomerName:  form.Name,
		CustomerPhone: form.Phone,
		Message:       truncate(form.Message, maxMetadataMessage),
	}

	sinkCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	key := s.newKey()
	resp, err := s.sink.CreateCheckoutSession(sinkCtx, req, key)
	if err != nil {
		s.logger.Warn("checkout session failed", zap.String("idempotency_key", key), zap.Error(err))
		return s.fail(result, fmt.Errorf("create checkout session: %w", err))
	}
	if resp.SessionID == "" {
		return s.fail(result, ErrMissingSession)
	}
	if resp.PublishableKey == "" {
		return s.fail(result, ErrMissingPublishableKey)
	}

	session := d.HostedSession{SessionID: resp.SessionID, PublishableKey: resp.PublishableKey, URL: resp.URL}
	result.Session = &session
	if err := s.redirect.Redirect(ctx, session); err != nil {
		return s.fail(result, fmt.Errorf("redirect to payment page: %w", err))
	}

	if err := s.transition(d.CheckoutStatusRedirected); err != nil {
		return nil, err
	}
	result.Status = d.CheckoutStatusRedirected
	s.logger.Info("checkout handed to payment page", zap.String("session_id", resp.SessionID), zap.Int("lines", len(items)))
	return result, nil
}

// buildLineItems charges options per unit, so each line's unit amount folds
// them into the base price.
func buildLineItems(items []cart.CartItem) []sink.LineItem {
	lines := make([]sink.LineItem, 0, len(items))
	for _, it := range items {
		lines = append(lines, sink.LineItem{
			UnitAmountMinorUnits: pricing.MinorUnits(pricing.UnitTotal(it)),
			ProductName:          it.Service.Title,
			ProductDescription:   lineDescription(it),
			Quantity:             int64(it.Quantity),
		})
	}
	return lines
}

func lineDescription(it cart.CartItem) string {
	var picked []string
	for _, name := range it.SelectedOptions.Names() {
		if q := it.SelectedOptions.Quantity(name); q > 0 {
			picked = append(picked, fmt.Sprintf("%s × %d", name, q))
		}
	}
	if len(picked) == 0 {
		return it.Service.Description
	}
	options := "Options: " + strings.Join(picked, ", ")
	if it.Service.Description == "" {
		return options
	}
	return it.Service.Description + " | " + options
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
