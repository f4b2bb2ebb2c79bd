package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/vendorahq/vendora-backend/pkg/db/models"
	pkgerrors "github.com/vendorahq/vendora-backend/pkg/errors"
)

func TestLedgerDebit(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	ledger := NewLedger()

	productID := seedProduct(t, db, 5, 0)

	err := db.Transaction(func(tx *gorm.DB) error {
		return ledger.Debit(ctx, tx, productID, 3)
	})
	if err != nil {
		t.Fatalf("debit: %v", err)
	}
	assertCounts(t, db, productID, 2, 3)

	err = db.Transaction(func(tx *gorm.DB) error {
		return ledger.Debit(ctx, tx, productID, 4)
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got: %v", err)
	}
	assertCounts(t, db, productID, 2, 3)

	err = db.Transaction(func(tx *gorm.DB) error {
		return ledger.Debit(ctx, tx, uuid.New(), 1)
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got: %v", err)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		return ledger.Debit(ctx, tx, productID, 0)
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got: %v", err)
	}
}

func TestLedgerRestore(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	ledger := NewLedger()

	productID := seedProduct(t, db, 2, 3)

	err := db.Transaction(func(tx *gorm.DB) error {
		return ledger.Restore(ctx, tx, productID, 2)
	})
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	assertCounts(t, db, productID, 4, 1)

	err = db.Transaction(func(tx *gorm.DB) error {
		return ledger.Restore(ctx, tx, productID, 5)
	})
	if err != nil {
		t.Fatalf("restore beyond sold_out: %v", err)
	}
	assertCounts(t, db, productID, 9, 0)
}

func seedProduct(t *testing.T, db *gorm.DB, stock, soldOut int) uuid.UUID {
	t.Helper()
	product := models.Product{
		ID:          uuid.New(),
		VendorID:    uuid.New(),
		Name:        "test product",
		Description: "test",
		Category:    "misc",
		Price:       decimal.NewFromInt(10),
		Stock:       stock,
		SoldOut:     soldOut,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product.ID
}

func assertCounts(t *testing.T, db *gorm.DB, productID uuid.UUID, stock, soldOut int) {
	t.Helper()
	var product models.Product
	if err := db.First(&product, "id = ?", productID).Error; err != nil {
		t.Fatalf("load product: %v", err)
	}
	if product.Stock != stock || product.SoldOut != soldOut {
		t.Fatalf("unexpected counts: stock=%d sold_out=%d", product.Stock, product.SoldOut)
	}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:ledger_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	ddl := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  vendor_id TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT NOT NULL,
  category TEXT NOT NULL,
  brand TEXT,
  price NUMERIC NOT NULL,
  discount_in_percent INTEGER,
  discount_price NUMERIC NOT NULL DEFAULT 0,
  stock INTEGER NOT NULL DEFAULT 0,
  sold_out INTEGER NOT NULL DEFAULT 0,
  images TEXT,
  variations TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	if err := db.Exec(ddl).Error; err != nil {
		t.Fatalf("create products table: %v", err)
	}
	return db
}
