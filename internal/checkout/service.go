package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vendorahq/vendora-backend/internal/orders"
	"github.com/vendorahq/vendora-backend/internal/pricing"
	"github.com/vendorahq/vendora-backend/pkg/db/models"
	"github.com/vendorahq/vendora-backend/pkg/enums"
	pkgerrors "github.com/vendorahq/vendora-backend/pkg/errors"
	"github.com/vendorahq/vendora-backend/pkg/types"
)

// maxOrderNotesLen matches the order_notes column size.
const maxOrderNotesLen = 500

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type vendorAccounts interface {
	CreditRevenue(ctx context.Context, tx *gorm.DB, vendorID uuid.UUID, amount decimal.Decimal) error
}

type inventoryDebiter interface {
	Debit(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error
}

// Service turns a validated cart into a persisted multi-vendor order.
type Service interface {
	CreateOrder(ctx context.Context, userID uuid.UUID, input CreateOrderInput) (*models.Order, error)
}

// CartItemInput is one requested line of the cart.
type CartItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	Variation *types.ItemVariation
}

// CreateOrderInput carries everything needed to place an order.
type CreateOrderInput struct {
	Items           []CartItemInput
	ShippingAddress types.ShippingAddress
	PaymentMethod   enums.PaymentMethod
	OrderNotes      *string
	ShippingCost    decimal.Decimal
}

type service struct {
	tx        txRunner
	orders    orders.Repository
	products  productLoader
	vendors   vendorAccounts
	inventory inventoryDebiter
}

// NewService builds the checkout service.
func NewService(tx txRunner, ordersRepo orders.Repository, products productLoader, vendors vendorAccounts, inventory inventoryDebiter) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if vendors == nil {
		return nil, fmt.Errorf("vendor accounts required")
	}
	if inventory == nil {
		return nil, fmt.Errorf("inventory debiter required")
	}
	return &service{
		tx:        tx,
		orders:    ordersRepo,
		products:  products,
		vendors:   vendors,
		inventory: inventory,
	}, nil
}

// CreateOrder validates every cart line before touching any state, then
// persists the order graph, credits vendor revenue, and debits stock inside
// one transaction. Any debit failure rolls the whole order back.
func (s *service) CreateOrder(ctx context.Context, userID uuid.UUID, input CreateOrderInput) (*models.Order, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart contains no items")
	}
	for _, item := range input.Items {
		if item.ProductID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
		}
		if item.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
		}
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	if err := input.ShippingAddress.Validate(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid shipping address")
	}
	if input.ShippingCost.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping cost cannot be negative")
	}
	if input.OrderNotes != nil && len(*input.OrderNotes) > maxOrderNotesLen {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order notes exceed maximum length").
			WithDetails(map[string]any{"max_length": maxOrderNotesLen})
	}

	var result *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		ordersRepo := s.orders.WithTx(tx)

		priced, err := s.loadAndValidate(ctx, input.Items)
		if err != nil {
			return err
		}

		order := buildOrder(userID, input, priced)
		created, err := ordersRepo.Create(ctx, order)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order")
		}

		for _, sub := range created.Vendors {
			if err := s.vendors.CreditRevenue(ctx, tx, sub.VendorID, sub.SubTotal); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "credit vendor revenue")
			}
		}

		for _, line := range priced {
			if err := s.inventory.Debit(ctx, tx, line.product.ID, line.quantity); err != nil {
				return err
			}
		}

		result, err = ordersRepo.FindByID(ctx, created.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

type pricedLine struct {
	product   *models.Product
	quantity  int
	variation *types.ItemVariation
}

// loadAndValidate resolves every cart line against current product state and
// checks stock up front, so no debit starts until all lines pass. Stock is
// checked against the summed quantity per product, so duplicate lines for the
// same product cannot together exceed what a single line could.
func (s *service) loadAndValidate(ctx context.Context, items []CartItemInput) ([]pricedLine, error) {
	cache := map[uuid.UUID]*models.Product{}
	requested := map[uuid.UUID]int{}
	priced := make([]pricedLine, 0, len(items))
	for _, item := range items {
		product, ok := cache[item.ProductID]
		if !ok {
			loaded, err := s.products.FindByID(ctx, item.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
						WithDetails(map[string]any{"product_id": item.ProductID})
				}
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
			}
			cache[item.ProductID] = loaded
			product = loaded
		}
		requested[item.ProductID] += item.Quantity
		if product.Stock < requested[item.ProductID] {
			return nil, pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock").
				WithDetails(map[string]any{
					"product_id": product.ID,
					"requested":  requested[item.ProductID],
					"available":  product.Stock,
				})
		}
		priced = append(priced, pricedLine{
			product:   product,
			quantity:  item.Quantity,
			variation: item.Variation,
		})
	}
	return priced, nil
}

// buildOrder assembles the order graph: denormalized line item snapshots,
// per-vendor sub-orders, and the pricing totals.
func buildOrder(userID uuid.UUID, input CreateOrderInput, priced []pricedLine) *models.Order {
	orderItems := make([]models.OrderItem, 0, len(priced))
	vendorOrder := make([]uuid.UUID, 0, len(priced))
	byVendor := map[uuid.UUID][]pricedLine{}
	pricedItems := make([]pricing.PricedItem, 0, len(priced))

	for _, line := range priced {
		vendorID := line.product.VendorID
		if _, seen := byVendor[vendorID]; !seen {
			vendorOrder = append(vendorOrder, vendorID)
		}
		byVendor[vendorID] = append(byVendor[vendorID], line)
		pricedItems = append(pricedItems, pricing.PricedItem{Product: line.product, Quantity: line.quantity})
		orderItems = append(orderItems, buildOrderItem(line))
	}

	subOrders := make([]models.VendorSubOrder, 0, len(vendorOrder))
	subtotals := make([]decimal.Decimal, 0, len(vendorOrder))
	for _, vendorID := range vendorOrder {
		lines := byVendor[vendorID]
		items := make([]models.SubOrderItem, 0, len(lines))
		vendorItems := make([]pricing.PricedItem, 0, len(lines))
		for _, line := range lines {
			items = append(items, models.SubOrderItem{ProductID: line.product.ID, Quantity: line.quantity})
			vendorItems = append(vendorItems, pricing.PricedItem{Product: line.product, Quantity: line.quantity})
		}
		subtotal := pricing.VendorSubtotal(vendorItems)
		subtotals = append(subtotals, subtotal)
		subOrders = append(subOrders, models.VendorSubOrder{
			VendorID:       vendorID,
			Items:          items,
			SubTotal:       subtotal,
			ShippingStatus: enums.OrderStatusProcessing,
		})
	}

	totals := pricing.OrderTotals(subtotals, pricedItems, input.ShippingCost)

	return &models.Order{
		UserID:          userID,
		ShippingAddress: input.ShippingAddress,
		PaymentMethod:   input.PaymentMethod,
		PaymentStatus:   enums.PaymentStatusPending,
		OrderStatus:     enums.OrderStatusProcessing,
		TotalPrice:      totals.TotalPrice,
		ShippingCost:    input.ShippingCost,
		DiscountApplied: totals.DiscountApplied,
		FinalPrice:      totals.FinalPrice,
		OrderNotes:      input.OrderNotes,
		Items:           orderItems,
		Vendors:         subOrders,
	}
}

func buildOrderItem(line pricedLine) models.OrderItem {
	item := models.OrderItem{
		ProductID:     line.product.ID,
		VendorID:      line.product.VendorID,
		Name:          line.product.Name,
		Quantity:      line.quantity,
		Price:         line.product.Price,
		DiscountPrice: line.product.DiscountPrice,
	}
	item.Image = line.product.Images.First()
	if line.variation != nil {
		item.Variation = *line.variation
	}
	return item
}
