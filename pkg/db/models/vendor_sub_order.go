package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vendorahq/vendora-backend/pkg/enums"
)

// SubOrderItem references one product/quantity pair inside a vendor sub-order.
type SubOrderItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// VendorSubOrder is the portion of a multi-vendor order belonging to one
// vendor, with its own shipping status and subtotal. Its item set must
// partition the parent order's line items by vendor.
type VendorSubOrder struct {
	ID             uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID         `gorm:"column:order_id;type:uuid;not null;index"`
	VendorID       uuid.UUID         `gorm:"column:vendor_id;type:uuid;not null;index"`
	Items          []SubOrderItem    `gorm:"column:items;type:jsonb;serializer:json"`
	SubTotal       decimal.Decimal   `gorm:"column:sub_total;type:numeric(14,2);not null"`
	ShippingStatus enums.OrderStatus `gorm:"column:shipping_status;type:text;not null;default:'processing'"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
