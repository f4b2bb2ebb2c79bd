package inventory

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/vendorahq/vendora-backend/pkg/errors"
)

// Ledger applies stock movements for order placement and cancellation.
// Both operations require the caller's transaction so the movement commits
// or rolls back together with the order mutation that caused it.
type Ledger interface {
	Debit(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error
	Restore(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error
}

type ledgerImpl struct{}

// NewLedger exposes the default inventory ledger implementation.
func NewLedger() Ledger {
	return ledgerImpl{}
}

// Debit moves qty units from stock to sold_out. The update is conditional on
// the remaining stock, so two concurrent debits that together exceed stock
// resolve to exactly one success.
func (ledgerImpl) Debit(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error {
	if qty <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for inventory debit")
	}

	res := tx.WithContext(ctx).Exec(`
		UPDATE products
		SET stock = stock - ?,
			sold_out = sold_out + ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND stock >= ?
	`, qty, qty, productID, qty)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "debit inventory")
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var rows []struct{ Stock int }
	if err := tx.WithContext(ctx).
		Table("products").
		Select("stock").
		Where("id = ?", productID).
		Find(&rows).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "debit inventory lookup")
	}
	if len(rows) == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
			WithDetails(map[string]any{"product_id": productID})
	}
	// The caller validated stock before debiting, so landing here means a
	// concurrent debit won the race.
	return pkgerrors.New(pkgerrors.CodeConflict, "stock changed concurrently").
		WithDetails(map[string]any{"product_id": productID, "requested": qty, "available": rows[0].Stock})
}

// Restore credits qty units back to stock after a cancellation or return.
// sold_out is floored at zero rather than allowed to go negative.
func (ledgerImpl) Restore(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error {
	if qty <= 0 {
		return nil
	}
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for inventory restore")
	}

	res := tx.WithContext(ctx).Exec(`
		UPDATE products
		SET stock = stock + ?,
			sold_out = CASE WHEN sold_out >= ? THEN sold_out - ? ELSE 0 END,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, qty, qty, qty, productID)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "restore inventory")
	}
	return nil
}
