package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vendorahq/vendora-backend/pkg/types"
)

// Product is the canonical vendor listing. Stock and sold_out are the
// contended counters every order mutation goes through.
type Product struct {
	ID                uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VendorID          uuid.UUID               `gorm:"column:vendor_id;type:uuid;not null;index"`
	Name              string                  `gorm:"column:name;not null"`
	Description       string                  `gorm:"column:description;not null"`
	Category          string                  `gorm:"column:category;not null"`
	Brand             string                  `gorm:"column:brand"`
	Price             decimal.Decimal         `gorm:"column:price;type:numeric(12,2);not null"`
	DiscountInPercent *int                    `gorm:"column:discount_in_percent"`
	DiscountPrice     decimal.Decimal         `gorm:"column:discount_price;type:numeric(12,2);not null;default:0"`
	Stock             int                     `gorm:"column:stock;not null;default:0"`
	SoldOut           int                     `gorm:"column:sold_out;not null;default:0"`
	Images            types.ProductImages     `gorm:"column:images;type:jsonb;serializer:json"`
	Variations        types.ProductVariations `gorm:"column:variations;type:jsonb;serializer:json"`
	Vendor            *Vendor                 `gorm:"foreignKey:VendorID"`
	CreatedAt         time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
