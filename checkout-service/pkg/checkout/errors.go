package checkout

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCart             = errors.New("cart is empty, nothing to checkout")
	ErrCheckoutInProgress    = errors.New("a checkout is already being submitted")
	ErrMissingPublishableKey = errors.New("payment provider returned no publishable key")
	ErrMissingSession        = errors.New("payment provider returned no session id")
	IllegalTransitionError   = errors.New("illegal transition of checkout status")
)

// ValidationError rejects a form before anything is sent. Message is shown to
// the customer as-is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid checkout form (%s): %s", e.Field, e.Message)
}
