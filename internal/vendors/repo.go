package vendors

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vendorahq/vendora-backend/pkg/db/models"
)

// Repository exposes vendor persistence used by checkout and product flows.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads a vendor by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.db.WithContext(ctx).First(&vendor, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

// CreditRevenue adds a sub-order's subtotal to the vendor's running revenue
// total. When a transaction is supplied the credit joins it.
func (r *Repository) CreditRevenue(ctx context.Context, tx *gorm.DB, vendorID uuid.UUID, amount decimal.Decimal) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	return db.WithContext(ctx).
		Model(&models.Vendor{}).
		Where("id = ?", vendorID).
		UpdateColumn("total_revenue", gorm.Expr("total_revenue + ?", amount)).
		Error
}
