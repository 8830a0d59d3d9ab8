// Package pricing derives money amounts from cart lines. Every function is
// pure; amounts are decimals in euros.
package pricing

import (
	"github.com/blunfr84/Webly/cart-service/pkg/cart"
	"github.com/blunfr84/Webly/product-service/pkg/catalog"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// UnitPrice falls back from the subscription price to the base price to zero.
func UnitPrice(service catalog.Service) decimal.Decimal {
	if service.IsSubscription() && service.SubscriptionPrice != nil {
		return decimal.NewFromFloat(*service.SubscriptionPrice)
	}
	if service.Price != nil {
		return decimal.NewFromFloat(*service.Price)
	}
	return decimal.Zero
}

// OptionsTotal prices the selected add-ons of one unit. Names the service no
// longer offers count as zero.
func OptionsTotal(item cart.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, name := range item.SelectedOptions.Names() {
		qty := item.SelectedOptions.Quantity(name)
		if qty <= 0 {
			continue
		}
		opt, ok := item.Service.Option(name)
		if !ok {
			continue
		}
		total = total.Add(decimal.NewFromFloat(opt.Price).Mul(decimal.NewFromInt(int64(qty))))
	}
	return total
}

// UnitTotal is the per-unit amount charged for a line, options included.
func UnitTotal(item cart.CartItem) decimal.Decimal {
	return UnitPrice(item.Service).Add(OptionsTotal(item))
}

func LineTotal(item cart.CartItem) decimal.Decimal {
	return UnitTotal(item).Mul(decimal.NewFromInt(int64(item.Quantity)))
}

func CartTotal(items []cart.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(LineTotal(it))
	}
	return total
}

// MinorUnits converts euros to cents, rounding half away from zero.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

// FormatAmount prints the shortest form: 200, 150.5.
func FormatAmount(amount decimal.Decimal) string {
	return amount.String()
}

// FormatFixed prints two decimals: 200.00.
func FormatFixed(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
