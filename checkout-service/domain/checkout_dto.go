package domain

import "strings"

type PaymentMethod string

const (
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodTransfer PaymentMethod = "transfer"
	PaymentMethodPayPal   PaymentMethod = "paypal"
	PaymentMethodCheck    PaymentMethod = "check"
	PaymentMethodCash     PaymentMethod = "cash"
)

var paymentLabels = map[PaymentMethod]string{
	PaymentMethodCard:     "Carte bancaire",
	PaymentMethodTransfer: "Virement bancaire",
	PaymentMethodPayPal:   "PayPal",
	PaymentMethodCheck:    "Chèque",
	PaymentMethodCash:     "Espèces",
}

func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{PaymentMethodCard, PaymentMethodTransfer, PaymentMethodPayPal, PaymentMethodCheck, PaymentMethodCash}
}

func (m PaymentMethod) IsValid() bool {
	_, ok := paymentLabels[m]
	return ok
}

// Label is the customer-facing name; unknown methods print as-is.
func (m PaymentMethod) Label() string {
	if label, ok := paymentLabels[m]; ok {
		return label
	}
	return string(m)
}

// CheckoutForm is what the customer typed in the checkout dialog.
type CheckoutForm struct {
	Name          string
	Email         string
	Phone         string
	PaymentMethod PaymentMethod
	Message       string
}

// Normalize trims every field.
func (f CheckoutForm) Normalize() CheckoutForm {
	return CheckoutForm{
		Name:          strings.TrimSpace(f.Name),
		Email:         strings.TrimSpace(f.Email),
		Phone:         strings.TrimSpace(f.Phone),
		PaymentMethod: PaymentMethod(strings.ToLower(strings.TrimSpace(string(f.PaymentMethod)))),
		Message:       strings.TrimSpace(f.Message),
	}
}

// HostedSession is the provider payment page the customer is sent to.
type HostedSession struct {
	SessionID      string
	PublishableKey string
	URL            string
}

type CheckoutResult struct {
	Status    CheckoutStatus
	Session   *HostedSession
	MessageID int64
	Summary   string
}
