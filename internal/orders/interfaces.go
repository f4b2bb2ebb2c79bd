package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vendorahq/vendora-backend/pkg/db/models"
	"github.com/vendorahq/vendora-backend/pkg/enums"
	"github.com/vendorahq/vendora-backend/pkg/pagination"
)

// Repository defines persistence operations for orders and their vendor
// sub-orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderPage, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID, params pagination.Params) (*OrderPage, error)
	ListAll(ctx context.Context, params pagination.Params) (*OrderPage, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus, deliveredAt, cancelledAt *time.Time) error
	UpdatePayment(ctx context.Context, orderID uuid.UUID, status enums.PaymentStatus, transactionID *string) error
	UpdateSubOrderShipping(ctx context.Context, subOrderID uuid.UUID, status enums.OrderStatus) error
	CancelAllSubOrders(ctx context.Context, orderID uuid.UUID) error
}
