package checkout

import (
	"fmt"
	"strings"

	"github.com/blunfr84/Webly/cart-service/pkg/cart"
	"github.com/blunfr84/Webly/cart-service/pkg/pricing"
	d "github.com/blunfr84/Webly/checkout-service/domain"
)

var (
	frame = strings.Repeat("═", 40)
	rule  = strings.Repeat("─", 40)
)

// BuildOrderSummary renders the order as the plain-text message staff read in
// the admin inbox.
func BuildOrderSummary(form d.CheckoutForm, items []cart.CartItem) string {
	var b strings.Builder

	b.WriteString(frame + "\n")
	b.WriteString("            🛒 NOUVELLE COMMANDE 🛒\n")
	b.WriteString(frame + "\n\n")

	b.WriteString("📋 COORDONNÉES DU CLIENT:\n")
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "Nom: %s\nEmail: %s\nTéléphone: %s\n\n", form.Name, form.Email, form.Phone)

	b.WriteString("💰 MODE DE PAIEMENT:\n")
	b.WriteString(rule + "\n")
	b.WriteString(form.PaymentMethod.Label() + "\n\n")

	b.WriteString("📦 ARTICLES COMMANDÉS:\n")
	b.WriteString(rule + "\n")
	for _, it := range items {
		b.WriteString(summaryLine(it) + "\n")
	}
	b.WriteString("\n" + rule + "─\n")
	fmt.Fprintf(&b, "TOTAL: %s€\n\n", pricing.FormatFixed(pricing.CartTotal(items)))

	b.WriteString("📝 DÉTAILS DE LA DEMANDE:\n")
	b.WriteString(rule + "\n")
	b.WriteString(form.Message + "\n")
	b.WriteString(frame)

	return b.String()
}

func summaryLine(it cart.CartItem) string {
	kind := "Achat unique"
	if it.Service.IsSubscription() {
		kind = "Abonnement"
	}
	return fmt.Sprintf("• %s × %d = %s€ (%s)", it.Service.Title, it.Quantity, pricing.FormatAmount(pricing.LineTotal(it)), kind)
}
