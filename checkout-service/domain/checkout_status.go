package domain

type CheckoutStatus string

const (
	CheckoutStatusIdle             CheckoutStatus = "IDLE"
	CheckoutStatusValidating       CheckoutStatus = "VALIDATING"
	CheckoutStatusDispatchingCard  CheckoutStatus = "DISPATCHING_CARD"
	CheckoutStatusDispatchingOther CheckoutStatus = "DISPATCHING_OTHER"
	CheckoutStatusRedirected       CheckoutStatus = "REDIRECTED"
	CheckoutStatusSucceeded        CheckoutStatus = "SUCCEEDED"
	CheckoutStatusFailed           CheckoutStatus = "FAILED"
)

var transitions = map[CheckoutStatus][]CheckoutStatus{
	CheckoutStatusIdle:             {CheckoutStatusValidating},
	CheckoutStatusValidating:       {CheckoutStatusIdle, CheckoutStatusDispatchingCard, CheckoutStatusDispatchingOther},
	CheckoutStatusDispatchingCard:  {CheckoutStatusRedirected, CheckoutStatusFailed},
	CheckoutStatusDispatchingOther: {CheckoutStatusSucceeded, CheckoutStatusFailed},
	CheckoutStatusRedirected:       {CheckoutStatusIdle},
	CheckoutStatusSucceeded:        {CheckoutStatusIdle},
	CheckoutStatusFailed:           {CheckoutStatusIdle, CheckoutStatusValidating},
}

// CanTransitionTo reports whether the checkout may move from one status to the next.
func CanTransitionTo(from, to CheckoutStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal is true once the attempt produced an outcome. The card hand-off
// counts: payment itself completes on the provider's page.
func (s CheckoutStatus) IsTerminal() bool {
	return s == CheckoutStatusSucceeded || s == CheckoutStatusFailed || s == CheckoutStatusRedirected
}

func (s CheckoutStatus) IsDispatching() bool {
	return s == CheckoutStatusDispatchingCard || s == CheckoutStatusDispatchingOther
}

// String representation (for logging)
func (s CheckoutStatus) String() string {
	return string(s)
}
