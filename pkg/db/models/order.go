package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vendorahq/vendora-backend/pkg/enums"
	"github.com/vendorahq/vendora-backend/pkg/types"
)

// Order is the buyer-facing aggregate created at checkout. Line items and
// vendor sub-orders are exclusively owned by the order.
type Order struct {
	ID              uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID             `gorm:"column:user_id;type:uuid;not null;index"`
	ShippingAddress types.ShippingAddress `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	PaymentMethod   enums.PaymentMethod   `gorm:"column:payment_method;type:text;not null"`
	PaymentStatus   enums.PaymentStatus   `gorm:"column:payment_status;type:text;not null;default:'pending'"`
	TransactionID   *string               `gorm:"column:transaction_id"`
	OrderStatus     enums.OrderStatus     `gorm:"column:order_status;type:text;not null;default:'processing'"`
	TotalPrice      decimal.Decimal       `gorm:"column:total_price;type:numeric(14,2);not null"`
	ShippingCost    decimal.Decimal       `gorm:"column:shipping_cost;type:numeric(12,2);not null;default:0"`
	DiscountApplied decimal.Decimal       `gorm:"column:discount_applied;type:numeric(14,2);not null;default:0"`
	FinalPrice      decimal.Decimal       `gorm:"column:final_price;type:numeric(14,2);not null"`
	OrderNotes      *string               `gorm:"column:order_notes;size:500"`
	DeliveredAt     *time.Time            `gorm:"column:delivered_at"`
	CancelledAt     *time.Time            `gorm:"column:cancelled_at"`
	Items           []OrderItem           `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Vendors         []VendorSubOrder      `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
