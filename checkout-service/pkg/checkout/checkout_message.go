package checkout

import (
	"context"
	"fmt"

	"github.com/blunfr84/Webly/cart-service/pkg/cart"
	d "github.com/blunfr84/Webly/checkout-service/domain"
	"github.com/blunfr84/Webly/checkout-service/pkg/sink"
	"go.uber.org/zap"
)

// sendOrderMessage records a manual-payment order as a message. The cart is
// cleared only once the message is accepted.
func (s *CheckoutServiceImpl) sendOrderMessage(ctx context.Context, form d.CheckoutForm, items []cart.CartItem) (*d.CheckoutResult, error) {
	if err := s.transition(d.CheckoutStatusDispatchingOther); err != nil {
		return nil, err
	}

	summary := BuildOrderSummary(form, items)
	result := &d.CheckoutResult{Summary: summary}
	now := s.now()

	sinkCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	rec, err := s.sink.PostMessage(sinkCtx, sink.MessageRequest{
		Name:    form.Name,
		Email:   form.Email,
		Phone:   form.Phone,
		Message: summary,
		Date:    now.Format("2006-01-02"),
		Time:    now.Format("15:04"),
	})
	if err != nil {
		s.logger.Warn("order message failed", zap.String("payment_method", string(form.PaymentMethod)), zap.Error(err))
		return s.fail(result, fmt.Errorf("send order message: %w", err))
	}

	// the order is already recorded; a cancelled caller must not keep the cart
	s.cart.Clear(context.WithoutCancel(ctx))
	if err := s.transition(d.CheckoutStatusSucceeded); err != nil {
		return nil, err
	}
	result.Status = d.CheckoutStatusSucceeded
	if rec != nil {
		result.MessageID = rec.ID
	}
	s.logger.Info("order message sent", zap.Int64("message_id", result.MessageID), zap.Int("lines", len(items)))
	return result, nil
}
