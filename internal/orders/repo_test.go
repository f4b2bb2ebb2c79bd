package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/vendorahq/vendora-backend/pkg/db/models"
	"github.com/vendorahq/vendora-backend/pkg/enums"
	"github.com/vendorahq/vendora-backend/pkg/pagination"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:orders_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  shipping_address TEXT,
  payment_method TEXT NOT NULL,
  payment_status TEXT NOT NULL DEFAULT 'pending',
  transaction_id TEXT,
  order_status TEXT NOT NULL DEFAULT 'processing',
  total_price NUMERIC NOT NULL,
  shipping_cost NUMERIC NOT NULL DEFAULT 0,
  discount_applied NUMERIC NOT NULL DEFAULT 0,
  final_price NUMERIC NOT NULL,
  order_notes TEXT,
  delivered_at DATETIME,
  cancelled_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	orderItems := `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  vendor_id TEXT NOT NULL,
  name TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  price NUMERIC NOT NULL,
  discount_price NUMERIC NOT NULL DEFAULT 0,
  image TEXT,
  variation TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	subOrders := `
CREATE TABLE IF NOT EXISTS vendor_sub_orders (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  vendor_id TEXT NOT NULL,
  items TEXT,
  sub_total NUMERIC NOT NULL,
  shipping_status TEXT NOT NULL DEFAULT 'processing',
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(orders).Error)
	require.NoError(t, db.Exec(orderItems).Error)
	require.NoError(t, db.Exec(subOrders).Error)
	return db
}

func createTestOrder(t *testing.T, db *gorm.DB, userID, vendorID uuid.UUID, created time.Time) *models.Order {
	t.Helper()

	order := &models.Order{
		ID:            uuid.New(),
		UserID:        userID,
		PaymentMethod: enums.PaymentMethodCreditCard,
		OrderStatus:   enums.OrderStatusProcessing,
		PaymentStatus: enums.PaymentStatusPending,
		TotalPrice:    decimal.NewFromInt(100),
		FinalPrice:    decimal.NewFromInt(100),
		CreatedAt:     created,
		UpdatedAt:     created,
	}
	require.NoError(t, db.Create(order).Error)

	item := &models.OrderItem{
		ID:        uuid.New(),
		OrderID:   order.ID,
		ProductID: uuid.New(),
		VendorID:  vendorID,
		Name:      "Test Item",
		Quantity:  1,
		Price:     decimal.NewFromInt(100),
		CreatedAt: created,
		UpdatedAt: created,
	}
	require.NoError(t, db.Create(item).Error)

	sub := &models.VendorSubOrder{
		ID:             uuid.New(),
		OrderID:        order.ID,
		VendorID:       vendorID,
		Items:          []models.SubOrderItem{{ProductID: item.ProductID, Quantity: 1}},
		SubTotal:       decimal.NewFromInt(100),
		ShippingStatus: enums.OrderStatusProcessing,
		CreatedAt:      created,
		UpdatedAt:      created,
	}
	require.NoError(t, db.Create(sub).Error)
	return order
}

func TestRepositoryListByUser_pagination(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	userID := uuid.New()
	now := time.Now().UTC()
	older := createTestOrder(t, db, userID, uuid.New(), now.Add(-time.Hour))
	newer := createTestOrder(t, db, userID, uuid.New(), now)
	createTestOrder(t, db, uuid.New(), uuid.New(), now)

	page, err := repo.ListByUser(context.Background(), userID, pagination.Params{Limit: 1})
	require.NoError(t, err)
	require.Len(t, page.Orders, 1)
	assert.Equal(t, newer.ID, page.Orders[0].ID)
	require.NotEmpty(t, page.NextCursor)

	second, err := repo.ListByUser(context.Background(), userID, pagination.Params{Limit: 1, Cursor: page.NextCursor})
	require.NoError(t, err)
	require.Len(t, second.Orders, 1)
	assert.Equal(t, older.ID, second.Orders[0].ID)
	assert.Empty(t, second.NextCursor)
}

func TestRepositoryListByVendor(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	vendorID := uuid.New()
	now := time.Now().UTC()
	mine := createTestOrder(t, db, uuid.New(), vendorID, now)
	createTestOrder(t, db, uuid.New(), uuid.New(), now.Add(-time.Minute))

	page, err := repo.ListByVendor(context.Background(), vendorID, pagination.Params{Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Orders, 1)
	assert.Equal(t, mine.ID, page.Orders[0].ID)
}

func TestRepositoryFindByIDPreloads(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	order := createTestOrder(t, db, uuid.New(), uuid.New(), time.Now().UTC())

	found, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Len(t, found.Items, 1)
	assert.Len(t, found.Vendors, 1)
}

func TestRepositoryStatusWrites(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	order := createTestOrder(t, db, uuid.New(), uuid.New(), time.Now().UTC())

	now := time.Now().UTC()
	require.NoError(t, repo.UpdateStatus(context.Background(), order.ID, enums.OrderStatusCancelled, nil, &now))
	require.NoError(t, repo.CancelAllSubOrders(context.Background(), order.ID))

	txn := "txn_42"
	require.NoError(t, repo.UpdatePayment(context.Background(), order.ID, enums.PaymentStatusCompleted, &txn))

	found, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCancelled, found.OrderStatus)
	require.NotNil(t, found.CancelledAt)
	assert.Equal(t, enums.PaymentStatusCompleted, found.PaymentStatus)
	require.NotNil(t, found.TransactionID)
	assert.Equal(t, txn, *found.TransactionID)
	require.Len(t, found.Vendors, 1)
	assert.Equal(t, enums.OrderStatusCancelled, found.Vendors[0].ShippingStatus)
}
