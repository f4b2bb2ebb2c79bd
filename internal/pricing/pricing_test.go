package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendorahq/vendora-backend/pkg/db/models"
)

func product(price, discountPrice string) *models.Product {
	return &models.Product{
		Price:         decimal.RequireFromString(price),
		DiscountPrice: decimal.RequireFromString(discountPrice),
	}
}

func TestEffectiveUnitPrice(t *testing.T) {
	assert.True(t, decimal.RequireFromString("80").Equal(EffectiveUnitPrice(product("100", "80"))))
	assert.True(t, decimal.RequireFromString("100").Equal(EffectiveUnitPrice(product("100", "0"))))
	assert.True(t, decimal.Zero.Equal(EffectiveUnitPrice(nil)))
}

func TestLineTotal(t *testing.T) {
	assert.True(t, decimal.RequireFromString("160").Equal(LineTotal(product("100", "80"), 2)))
	assert.True(t, decimal.Zero.Equal(LineTotal(product("100", "80"), 0)))
}

func TestDiscountForItem(t *testing.T) {
	cases := []struct {
		name     string
		product  *models.Product
		quantity int
		want     string
	}{
		{name: "discount below list price", product: product("100", "80"), quantity: 2, want: "40"},
		{name: "no discount set", product: product("100", "0"), quantity: 2, want: "0"},
		{name: "discount equals list price", product: product("100", "100"), quantity: 2, want: "0"},
		{name: "zero quantity", product: product("100", "80"), quantity: 0, want: "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DiscountForItem(tc.product, tc.quantity)
			assert.True(t, decimal.RequireFromString(tc.want).Equal(got), "got %s", got)
		})
	}
}

func TestVendorSubtotal(t *testing.T) {
	items := []PricedItem{
		{Product: product("100", "80"), Quantity: 2},
		{Product: product("25.50", "0"), Quantity: 1},
	}
	assert.True(t, decimal.RequireFromString("185.50").Equal(VendorSubtotal(items)))
}

func TestOrderTotals(t *testing.T) {
	items := []PricedItem{{Product: product("100", "80"), Quantity: 2}}
	subtotals := []decimal.Decimal{VendorSubtotal(items)}

	totals := OrderTotals(subtotals, items, decimal.RequireFromString("10"))

	assert.True(t, decimal.RequireFromString("160").Equal(totals.TotalPrice), "total %s", totals.TotalPrice)
	assert.True(t, decimal.RequireFromString("40").Equal(totals.DiscountApplied), "discount %s", totals.DiscountApplied)
	assert.True(t, decimal.RequireFromString("170").Equal(totals.FinalPrice), "final %s", totals.FinalPrice)
}

func TestDeriveDiscountPrice(t *testing.T) {
	pct := func(v int) *int { return &v }

	got := DeriveDiscountPrice(decimal.RequireFromString("100"), pct(20))
	require.True(t, decimal.RequireFromString("80").Equal(got), "got %s", got)

	got = DeriveDiscountPrice(decimal.RequireFromString("19.99"), pct(15))
	require.True(t, decimal.RequireFromString("16.99").Equal(got), "got %s", got)

	assert.True(t, decimal.Zero.Equal(DeriveDiscountPrice(decimal.RequireFromString("100"), nil)))
	assert.True(t, decimal.Zero.Equal(DeriveDiscountPrice(decimal.RequireFromString("100"), pct(0))))
}
