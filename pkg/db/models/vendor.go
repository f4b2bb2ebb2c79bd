package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Vendor is a seller account. Identity and verification are managed upstream;
// this row carries what the order workflow needs.
type Vendor struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string          `gorm:"column:name;not null"`
	Email        string          `gorm:"column:email;not null"`
	Verified     bool            `gorm:"column:verified;not null;default:false"`
	TotalRevenue decimal.Decimal `gorm:"column:total_revenue;type:numeric(14,2);not null;default:0"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
