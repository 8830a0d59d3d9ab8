package catalog

import (
	"fmt"
	"strconv"
)

// FormatDuration renders minutes the way the site does: 45min, 2h, 1h30.
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dmin", minutes)
	}
	h, m := minutes/60, minutes%60
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh%d", h, m)
}

// DisplayPrice is the catalog price label; subscriptions get a per-month suffix.
func DisplayPrice(s Service) string {
	price := s.Price
	if s.IsSubscription() && s.SubscriptionPrice != nil {
		price = s.SubscriptionPrice
	}
	if price == nil {
		return "Sur devis"
	}
	label := strconv.FormatFloat(*price, 'f', -1, 64) + "€"
	if s.IsSubscription() {
		label += "/mois"
	}
	return label
}
