package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/vendorahq/vendora-backend/pkg/db/models"
)

var oneHundred = decimal.NewFromInt(100)

// PricedItem pairs a product with the quantity being purchased.
type PricedItem struct {
	Product  *models.Product
	Quantity int
}

// Totals holds the order-level money amounts derived from a priced cart.
type Totals struct {
	TotalPrice      decimal.Decimal
	DiscountApplied decimal.Decimal
	FinalPrice      decimal.Decimal
}

// EffectiveUnitPrice returns the discount price when one is set, otherwise
// the list price.
func EffectiveUnitPrice(product *models.Product) decimal.Decimal {
	if product == nil {
		return decimal.Zero
	}
	if product.DiscountPrice.IsPositive() {
		return product.DiscountPrice
	}
	return product.Price
}

// LineTotal returns the effective unit price multiplied by the quantity.
func LineTotal(product *models.Product, quantity int) decimal.Decimal {
	if quantity <= 0 {
		return decimal.Zero
	}
	return EffectiveUnitPrice(product).Mul(decimal.NewFromInt(int64(quantity)))
}

// DiscountForItem returns the savings granted on a line, which is nonzero
// only when the discount price undercuts the list price.
func DiscountForItem(product *models.Product, quantity int) decimal.Decimal {
	if product == nil || quantity <= 0 {
		return decimal.Zero
	}
	if !product.DiscountPrice.IsPositive() || !product.DiscountPrice.LessThan(product.Price) {
		return decimal.Zero
	}
	return product.Price.Sub(product.DiscountPrice).Mul(decimal.NewFromInt(int64(quantity)))
}

// VendorSubtotal sums the line totals for one vendor's slice of the cart.
func VendorSubtotal(items []PricedItem) decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(LineTotal(item.Product, item.Quantity))
	}
	return subtotal
}

// OrderTotals folds the per-vendor subtotals and per-item discounts into the
// amounts stored on the order. The total already reflects effective prices,
// so the discount is reported alongside rather than subtracted again.
func OrderTotals(vendorSubtotals []decimal.Decimal, items []PricedItem, shippingCost decimal.Decimal) Totals {
	total := decimal.Zero
	for _, subtotal := range vendorSubtotals {
		total = total.Add(subtotal)
	}
	discount := decimal.Zero
	for _, item := range items {
		discount = discount.Add(DiscountForItem(item.Product, item.Quantity))
	}
	return Totals{
		TotalPrice:      total,
		DiscountApplied: discount,
		FinalPrice:      total.Add(shippingCost),
	}
}

// DeriveDiscountPrice recomputes the stored discount price from the list
// price and percentage. The percentage cut is rounded to two decimal places
// before subtraction; a nil or zero percentage clears the discount.
func DeriveDiscountPrice(price decimal.Decimal, discountInPercent *int) decimal.Decimal {
	if discountInPercent == nil || *discountInPercent <= 0 {
		return decimal.Zero
	}
	pct := decimal.NewFromInt(int64(*discountInPercent))
	cut := price.Mul(pct).Div(oneHundred).Round(2)
	return price.Sub(cut)
}
