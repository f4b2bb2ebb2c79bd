package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vendorahq/vendora-backend/pkg/types"
)

// OrderItem is the denormalized snapshot of a product at order-creation time.
// It must not change even if the product later does.
type OrderItem struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID       uuid.UUID           `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID     uuid.UUID           `gorm:"column:product_id;type:uuid;not null"`
	VendorID      uuid.UUID           `gorm:"column:vendor_id;type:uuid;not null;index"`
	Name          string              `gorm:"column:name;not null"`
	Quantity      int                 `gorm:"column:quantity;not null"`
	Price         decimal.Decimal     `gorm:"column:price;type:numeric(12,2);not null"`
	DiscountPrice decimal.Decimal     `gorm:"column:discount_price;type:numeric(12,2);not null;default:0"`
	Image         types.ProductImage  `gorm:"column:image;type:jsonb;serializer:json"`
	Variation     types.ItemVariation `gorm:"column:variation;type:jsonb;serializer:json"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
