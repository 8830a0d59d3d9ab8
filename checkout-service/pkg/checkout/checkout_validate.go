package checkout

import (
	"github.com/blunfr84/Webly/cart-service/pkg/cart"
	d "github.com/blunfr84/Webly/checkout-service/domain"
)

func validate(form d.CheckoutForm, items []cart.CartItem) error {
	if len(items) == 0 {
		return ErrEmptyCart
	}

	required := []struct {
		field string
		value string
	}{
		{"name", form.Name},
		{"email", form.Email},
		{"phone", form.Phone},
		{"paymentMethod", string(form.PaymentMethod)},
	}
	for _, r := range required {
		if r.value == "" {
			return &ValidationError{Field: r.field, Message: "Veuillez remplir tous les champs obligatoires"}
		}
	}
	if !form.PaymentMethod.IsValid() {
		return &ValidationError{Field: "paymentMethod", Message: "Mode de paiement inconnu"}
	}
	if form.Message == "" {
		return &ValidationError{Field: "message", Message: "Veuillez décrire vos besoins dans le message"}
	}
	return nil
}
