package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vendorahq/vendora-backend/internal/policy"
	"github.com/vendorahq/vendora-backend/pkg/db/models"
	"github.com/vendorahq/vendora-backend/pkg/enums"
	pkgerrors "github.com/vendorahq/vendora-backend/pkg/errors"
	"github.com/vendorahq/vendora-backend/pkg/pagination"
)

type statusWrite struct {
	orderID     uuid.UUID
	status      enums.OrderStatus
	deliveredAt *time.Time
	cancelledAt *time.Time
}

type subWrite struct {
	subOrderID uuid.UUID
	status     enums.OrderStatus
}

type stubRepo struct {
	order *models.Order

	statusWrites  []statusWrite
	subWrites     []subWrite
	cancelledAll  []uuid.UUID
	paymentStatus *enums.PaymentStatus
	transactionID *string
}

func (s *stubRepo) WithTx(*gorm.DB) Repository { return s }

func (s *stubRepo) Create(_ context.Context, order *models.Order) (*models.Order, error) {
	return order, nil
}

func (s *stubRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	if s.order == nil || s.order.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s.order
	return &copied, nil
}

func (s *stubRepo) ListByUser(context.Context, uuid.UUID, pagination.Params) (*OrderPage, error) {
	return &OrderPage{}, nil
}

func (s *stubRepo) ListByVendor(context.Context, uuid.UUID, pagination.Params) (*OrderPage, error) {
	return &OrderPage{}, nil
}

func (s *stubRepo) ListAll(context.Context, pagination.Params) (*OrderPage, error) {
	return &OrderPage{}, nil
}

func (s *stubRepo) UpdateStatus(_ context.Context, orderID uuid.UUID, status enums.OrderStatus, deliveredAt, cancelledAt *time.Time) error {
	s.statusWrites = append(s.statusWrites, statusWrite{orderID, status, deliveredAt, cancelledAt})
	return nil
}

func (s *stubRepo) UpdatePayment(_ context.Context, _ uuid.UUID, status enums.PaymentStatus, transactionID *string) error {
	s.paymentStatus = &status
	s.transactionID = transactionID
	return nil
}

func (s *stubRepo) UpdateSubOrderShipping(_ context.Context, subOrderID uuid.UUID, status enums.OrderStatus) error {
	s.subWrites = append(s.subWrites, subWrite{subOrderID, status})
	return nil
}

func (s *stubRepo) CancelAllSubOrders(_ context.Context, orderID uuid.UUID) error {
	s.cancelledAll = append(s.cancelledAll, orderID)
	return nil
}

type stubTx struct{}

func (stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type restoreCall struct {
	productID uuid.UUID
	qty       int
}

type stubRestorer struct {
	calls []restoreCall
}

func (s *stubRestorer) Restore(_ context.Context, _ *gorm.DB, productID uuid.UUID, qty int) error {
	s.calls = append(s.calls, restoreCall{productID, qty})
	return nil
}

func fixtureOrder(ownerID uuid.UUID, subStatuses map[uuid.UUID]enums.OrderStatus) *models.Order {
	order := &models.Order{
		ID:          uuid.New(),
		UserID:      ownerID,
		OrderStatus: enums.OrderStatusProcessing,
	}
	for vendorID, status := range subStatuses {
		order.Vendors = append(order.Vendors, models.VendorSubOrder{
			ID:             uuid.New(),
			OrderID:        order.ID,
			VendorID:       vendorID,
			ShippingStatus: status,
		})
		order.Items = append(order.Items, models.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: uuid.New(),
			VendorID:  vendorID,
			Quantity:  2,
		})
	}
	return order
}

func newTestService(t *testing.T, repo Repository, restorer InventoryRestorer) Service {
	t.Helper()
	svc, err := NewService(repo, stubTx{}, restorer)
	require.NoError(t, err)
	return svc
}

func admin() policy.Actor {
	return policy.Actor{UserID: uuid.New(), Role: enums.RoleAdmin}
}

func vendorActor(vendorID uuid.UUID) policy.Actor {
	return policy.Actor{UserID: uuid.New(), Role: enums.RoleVendor, VendorID: &vendorID}
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected coded error, got %v", err)
	assert.Equal(t, code, typed.Code())
}

func TestSetStatusRequiresAdmin(t *testing.T) {
	order := fixtureOrder(uuid.New(), map[uuid.UUID]enums.OrderStatus{uuid.New(): enums.OrderStatusProcessing})
	repo := &stubRepo{order: order}
	svc := newTestService(t, repo, &stubRestorer{})

	err := svc.SetStatus(context.Background(), policy.Actor{Role: enums.RoleUser}, order.ID, enums.OrderStatusShipped)
	requireCode(t, err, pkgerrors.CodeForbidden)
	assert.Empty(t, repo.statusWrites)
}

func TestSetStatusRejectsInvalidStatus(t *testing.T) {
	order := fixtureOrder(uuid.New(), map[uuid.UUID]enums.OrderStatus{uuid.New(): enums.OrderStatusProcessing})
	repo := &stubRepo{order: order}
	svc := newTestService(t, repo, &stubRestorer{})

	err := svc.SetStatus(context.Background(), admin(), order.ID, enums.OrderStatus("teleported"))
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestSetStatusDeliveredStampsTimestamp(t *testing.T) {
	order := fixtureOrder(uuid.New(), map[uuid.UUID]enums.OrderStatus{uuid.New(): enums.OrderStatusShipped})
	repo := &stubRepo{order: order}
	restorer := &stubRestorer{}
	svc := newTestService(t, repo, restorer)

	require.NoError(t, svc.SetStatus(context.Background(), admin(), order.ID, enums.OrderStatusDelivered))
	require.Len(t, repo.statusWrites, 1)
	write := repo.statusWrites[0]
	assert.Equal(t, enums.OrderStatusDelivered, write.status)
	assert.NotNil(t, write.deliveredAt)
	assert.Nil(t, write.cancelledAt)
	assert.Empty(t, restorer.calls)
}

func TestSetStatusCancelledRestoresStock(t *testing.T) {
	order := fixtureOrder(uuid.New(), map[uuid.UUID]enums.OrderStatus{
		uuid.New(): enums.OrderStatusProcessing,
		uuid.New(): enums.OrderStatusShipped,
	})
	repo := &stubRepo{order: order}
	restorer := &stubRestorer{}
	svc := newTestService(t, repo, restorer)

	require.NoError(t, svc.SetStatus(context.Background(), admin(), order.ID, enums.OrderStatusCancelled))
	require.Len(t, repo.statusWrites, 1)
	assert.NotNil(t, repo.statusWrites[0].cancelledAt)
	require.Len(t, restorer.calls, len(order.Items))
	for i, item := range order.Items {
		assert.Equal(t, item.ProductID, restorer.calls[i].productID)
		assert.Equal(t, item.Quantity, restorer.calls[i].qty)
	}
}

func TestSetStatusRecancelDoesNotRestoreTwice(t *testing.T) {
	// cancelled once, re-opened by an admin, cancelled again: the first
	// cancellation already credited the stock back
	order := fixtureOrder(uuid.New(), map[uuid.UUID]enums.OrderStatus{uuid.New(): enums.OrderStatusProcessing})
	past := time.Now().UTC().Add(-time.Hour)
	order.CancelledAt = &past
	order.OrderStatus = enums.OrderStatusConfirmed
	repo := &stubRepo{order: order}
	restorer := &stubRestorer{}
	svc := newTestService(t, repo, restorer)

	require.NoError(t, svc.SetStatus(context.Background(), admin(), order.ID, enums.OrderStatusCancelled))
	require.Len(t, repo.statusWrites, 1)
	assert.Equal(t, enums.OrderStatusCancelled, repo.statusWrites[0].status)
	assert.Empty(t, restorer.calls)
}

func TestSetStatusSameStatusIsNoop(t *testing.T) {
	order := fixtureOrder(uuid.New(), map[uuid.UUID]enums.OrderStatus{uuid.New(): enums.OrderStatusProcessing})
	repo := &stubRepo{order: order}
	svc := newTestService(t, repo, &stubRestorer{})

	require.NoError(t, svc.SetStatus(context.Background(), admin(), order.ID, enums.OrderStatusProcessing))
	assert.Empty(t, repo.statusWrites)
}

func TestSetVendorShippingStatusForbiddenForStranger(t *testing.T) {
	order := fixtureOrder(uuid.New(), map[uuid.UUID]enums.OrderStatus{uuid.New(): enums.OrderStatusProcessing})
	repo := &stubRepo{order: order}
	svc := newTestService(t, repo, &stubRestorer{})

	err := svc.SetVendorShippingStatus(context.Background(), vendorActor(uuid.New()), order.ID, enums.OrderStatusShipped)
	requireCode(t, err, pkgerrors.CodeForbidden)
	assert.Empty(t, repo.subWrites)
}

func TestSetVendorShippingStatusAllDelivered(t *testing.T) {
	vendorA := uuid.New()
	vendorB := uuid.New()
	order := fixtureOrder(uuid.New(), map[uuid.UUID]enums.OrderStatus{
		vendorA: enums.OrderStatusShipped,
		vendorB: enums.OrderStatusDelivered,
	})
	repo := &stubRepo{order: order}
	svc := newTestService(t, repo, &stubRestorer{})

	require.NoError(t, svc.SetVendorShippingStatus(context.Background(), vendorActor(vendorA), order.ID, enums.OrderStatusDelivered))
	require.Len(t, repo.subWrites, 1)
	assert.Equal(t, enums.OrderStatusDelivered, repo.subWrites[0].status)
	require.Len(t, repo.statusWrites, 1)
	assert.Equal(t, enums.OrderStatusDelivered, repo.statusWrites[0].status)
	assert.NotNil(t, repo.statusWrites[0].deliveredAt)
}

func TestSetVendorShippingStatusCancellationPrecedence(t *testing.T) {
	vendorA := uuid.New()
	vendorB := uuid.New()
	order := fixtureOrder(uuid.New(), map[uuid.UUID]enums.OrderStatus{
		vendorA: enums.OrderStatusReturned,
		vendorB: enums.OrderStatusDelivered,
	})
	repo := &stubRepo{order: order}
	svc := newTestService(t, repo, &stubRestorer{})

	require.NoError(t, svc.SetVendorShippingStatus(context.Background(), vendorActor(vendorA), order.ID, enums.OrderStatusCancelled))
	require.Len(t, repo.statusWrites, 1)
	assert.Equal(t, enums.OrderStatusCancelled, repo.statusWrites[0].status)
	assert.NotNil(t, repo.statusWrites[0].cancelledAt)
}

func TestSetVendorShippingStatusPartialLeavesOrderUntouched(t *testing.T) {
	vendorA := uuid.New()
	vendorB := uuid.New()
	order := fixtureOrder(uuid.New(), map[uuid.UUID]enums.OrderStatus{
		vendorA: enums.OrderStatusProcessing,
		vendorB: enums.OrderStatusProcessing,
	})
	repo := &stubRepo{order: order}
	svc := newTestService(t, repo, &stubRestorer{})

	require.NoError(t, svc.SetVendorShippingStatus(context.Background(), vendorActor(vendorA), order.ID, enums.OrderStatusDelivered))
	require.Len(t, repo.subWrites, 1)
	assert.Empty(t, repo.statusWrites)
}

func TestSetPaymentStatus(t *testing.T) {
	order := fixtureOrder(uuid.New(), map[uuid.UUID]enums.OrderStatus{uuid.New(): enums.OrderStatusProcessing})
	repo := &stubRepo{order: order}
	svc := newTestService(t, repo, &stubRestorer{})

	txn := "txn_123"
	require.NoError(t, svc.SetPaymentStatus(context.Background(), admin(), order.ID, enums.PaymentStatusCompleted, &txn))
	require.NotNil(t, repo.paymentStatus)
	assert.Equal(t, enums.PaymentStatusCompleted, *repo.paymentStatus)
	require.NotNil(t, repo.transactionID)
	assert.Equal(t, txn, *repo.transactionID)

	err := svc.SetPaymentStatus(context.Background(), vendorActor(uuid.New()), order.ID, enums.PaymentStatusCompleted, nil)
	requireCode(t, err, pkgerrors.CodeForbidden)
}

func TestCancelOwnerOnly(t *testing.T) {
	ownerID := uuid.New()
	order := fixtureOrder(ownerID, map[uuid.UUID]enums.OrderStatus{uuid.New(): enums.OrderStatusProcessing})
	repo := &stubRepo{order: order}
	svc := newTestService(t, repo, &stubRestorer{})

	err := svc.Cancel(context.Background(), policy.Actor{UserID: uuid.New(), Role: enums.RoleUser}, order.ID)
	requireCode(t, err, pkgerrors.CodeForbidden)
	assert.Empty(t, repo.statusWrites)
}

func TestCancelRejectsTerminalOrder(t *testing.T) {
	ownerID := uuid.New()
	order := fixtureOrder(ownerID, map[uuid.UUID]enums.OrderStatus{uuid.New(): enums.OrderStatusDelivered})
	order.OrderStatus = enums.OrderStatusDelivered
	repo := &stubRepo{order: order}
	svc := newTestService(t, repo, &stubRestorer{})

	err := svc.Cancel(context.Background(), policy.Actor{UserID: ownerID, Role: enums.RoleUser}, order.ID)
	requireCode(t, err, pkgerrors.CodeStateConflict)
	assert.Empty(t, repo.statusWrites)
	assert.Empty(t, repo.cancelledAll)
}

func TestCancelRestoresStockAndCascades(t *testing.T) {
	ownerID := uuid.New()
	order := fixtureOrder(ownerID, map[uuid.UUID]enums.OrderStatus{
		uuid.New(): enums.OrderStatusProcessing,
		uuid.New(): enums.OrderStatusShipped,
	})
	repo := &stubRepo{order: order}
	restorer := &stubRestorer{}
	svc := newTestService(t, repo, restorer)

	require.NoError(t, svc.Cancel(context.Background(), policy.Actor{UserID: ownerID, Role: enums.RoleUser}, order.ID))
	require.Len(t, repo.statusWrites, 1)
	assert.Equal(t, enums.OrderStatusCancelled, repo.statusWrites[0].status)
	assert.NotNil(t, repo.statusWrites[0].cancelledAt)
	assert.Equal(t, []uuid.UUID{order.ID}, repo.cancelledAll)
	assert.Len(t, restorer.calls, len(order.Items))
}

func TestCancelAfterEarlierCancellationSkipsRestore(t *testing.T) {
	ownerID := uuid.New()
	order := fixtureOrder(ownerID, map[uuid.UUID]enums.OrderStatus{uuid.New(): enums.OrderStatusProcessing})
	past := time.Now().UTC().Add(-time.Hour)
	order.CancelledAt = &past
	order.OrderStatus = enums.OrderStatusConfirmed
	repo := &stubRepo{order: order}
	restorer := &stubRestorer{}
	svc := newTestService(t, repo, restorer)

	require.NoError(t, svc.Cancel(context.Background(), policy.Actor{UserID: ownerID, Role: enums.RoleUser}, order.ID))
	require.Len(t, repo.statusWrites, 1)
	assert.Equal(t, []uuid.UUID{order.ID}, repo.cancelledAll)
	assert.Empty(t, restorer.calls)
}

func TestGetNarrowsForVendor(t *testing.T) {
	vendorID := uuid.New()
	order := fixtureOrder(uuid.New(), map[uuid.UUID]enums.OrderStatus{
		vendorID:   enums.OrderStatusProcessing,
		uuid.New(): enums.OrderStatusProcessing,
	})
	repo := &stubRepo{order: order}
	svc := newTestService(t, repo, &stubRestorer{})

	got, err := svc.Get(context.Background(), vendorActor(vendorID), order.ID)
	require.NoError(t, err)
	require.Len(t, got.Vendors, 1)
	assert.Equal(t, vendorID, got.Vendors[0].VendorID)
	require.Len(t, got.Items, 1)
	assert.Equal(t, vendorID, got.Items[0].VendorID)
}

func TestGetForbiddenForStranger(t *testing.T) {
	order := fixtureOrder(uuid.New(), map[uuid.UUID]enums.OrderStatus{uuid.New(): enums.OrderStatusProcessing})
	repo := &stubRepo{order: order}
	svc := newTestService(t, repo, &stubRestorer{})

	_, err := svc.Get(context.Background(), policy.Actor{UserID: uuid.New(), Role: enums.RoleUser}, order.ID)
	requireCode(t, err, pkgerrors.CodeForbidden)
}

func TestGetUnknownOrder(t *testing.T) {
	repo := &stubRepo{}
	svc := newTestService(t, repo, &stubRestorer{})

	_, err := svc.Get(context.Background(), admin(), uuid.New())
	requireCode(t, err, pkgerrors.CodeNotFound)
}
