// Package cart is the storefront shopping cart: an ordered list of services
// with per-line quantities and option selections, persisted on every change.
package cart

import (
	"strconv"
	"strings"

	"github.com/blunfr84/Webly/product-service/pkg/catalog"
)

// StorageKey is the key the cart is persisted under.
const StorageKey = "consultpro_cart"

// CartItem keeps a copy of the service taken when it was first added, so
// later catalog edits do not reprice a cart already being filled.
type CartItem struct {
	ServiceID       int64           `json:"serviceId"`
	Quantity        int             `json:"quantity"`
	Service         catalog.Service `json:"service"`
	SelectedOptions SelectedOptions `json:"selectedOptions"`
}

func (i CartItem) Clone() CartItem {
	return CartItem{
		ServiceID:       i.ServiceID,
		Quantity:        i.Quantity,
		Service:         i.Service.Clone(),
		SelectedOptions: i.SelectedOptions.Clone(),
	}
}

func cloneItems(items []CartItem) []CartItem {
	out := make([]CartItem, 0, len(items))
	for _, it := range items {
		out = append(out, it.Clone())
	}
	return out
}

// ParseQuantity coerces raw user input to a line quantity. Anything that is
// not a positive integer becomes 1.
func ParseQuantity(raw string) int {
	q, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || q < 1 {
		return 1
	}
	return q
}
