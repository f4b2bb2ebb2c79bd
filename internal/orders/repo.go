package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vendorahq/vendora-backend/pkg/db/models"
	"github.com/vendorahq/vendora-backend/pkg/enums"
	pkgerrors "github.com/vendorahq/vendora-backend/pkg/errors"
	"github.com/vendorahq/vendora-backend/pkg/pagination"
)

// OrderPage is one page of orders plus the cursor for the next page.
type OrderPage struct {
	Orders     []models.Order
	NextCursor string
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// Create inserts the order graph: the order row plus its items and vendor
// sub-orders in one go.
func (r *repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// FindByID loads an order with its items and vendor sub-orders.
func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Vendors").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByUser returns the user's orders newest first.
func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderPage, error) {
	query := r.base(ctx).Where("user_id = ?", userID)
	return r.page(query, params)
}

// ListByVendor returns orders that carry a sub-order for the vendor, newest
// first. Narrowing to the vendor's own items happens at the policy layer.
func (r *repository) ListByVendor(ctx context.Context, vendorID uuid.UUID, params pagination.Params) (*OrderPage, error) {
	query := r.base(ctx).
		Joins("JOIN vendor_sub_orders vso ON vso.order_id = orders.id").
		Where("vso.vendor_id = ?", vendorID)
	return r.page(query, params)
}

// ListAll returns every order newest first.
func (r *repository) ListAll(ctx context.Context, params pagination.Params) (*OrderPage, error) {
	return r.page(r.base(ctx), params)
}

// UpdateStatus writes the order-level status and its timestamp stamps.
func (r *repository) UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus, deliveredAt, cancelledAt *time.Time) error {
	updates := map[string]any{"order_status": status}
	if deliveredAt != nil {
		updates["delivered_at"] = *deliveredAt
	}
	if cancelledAt != nil {
		updates["cancelled_at"] = *cancelledAt
	}
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(updates).Error
}

// UpdatePayment writes the payment status and optional transaction reference.
func (r *repository) UpdatePayment(ctx context.Context, orderID uuid.UUID, status enums.PaymentStatus, transactionID *string) error {
	updates := map[string]any{"payment_status": status}
	if transactionID != nil {
		updates["transaction_id"] = *transactionID
	}
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(updates).Error
}

// UpdateSubOrderShipping writes one vendor sub-order's shipping status.
func (r *repository) UpdateSubOrderShipping(ctx context.Context, subOrderID uuid.UUID, status enums.OrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.VendorSubOrder{}).
		Where("id = ?", subOrderID).
		UpdateColumn("shipping_status", status).Error
}

// CancelAllSubOrders marks every sub-order on the order cancelled. Used by
// the top-down owner cancellation path.
func (r *repository) CancelAllSubOrders(ctx context.Context, orderID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.VendorSubOrder{}).
		Where("order_id = ?", orderID).
		UpdateColumn("shipping_status", enums.OrderStatusCancelled).Error
}

func (r *repository) base(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Preload("Items").
		Preload("Vendors")
}

func (r *repository) page(query *gorm.DB, params pagination.Params) (*OrderPage, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	if cursor != nil {
		query = query.Where("(orders.created_at, orders.id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Order
	err = query.
		Order("orders.created_at DESC, orders.id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	page := &OrderPage{Orders: rows}
	if len(rows) > limit {
		next := rows[limit]
		page.Orders = rows[:limit]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: next.CreatedAt,
			ID:        next.ID,
		})
	}
	return page, nil
}
