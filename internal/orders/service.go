package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vendorahq/vendora-backend/internal/policy"
	"github.com/vendorahq/vendora-backend/pkg/db/models"
	"github.com/vendorahq/vendora-backend/pkg/enums"
	pkgerrors "github.com/vendorahq/vendora-backend/pkg/errors"
	"github.com/vendorahq/vendora-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// InventoryRestorer credits stock back when an order or sub-order is
// cancelled.
type InventoryRestorer interface {
	Restore(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error
}

// Service exposes order reads and the status state machine.
type Service interface {
	Get(ctx context.Context, actor policy.Actor, orderID uuid.UUID) (*models.Order, error)
	ListMine(ctx context.Context, actor policy.Actor, params pagination.Params) (*OrderPage, error)
	ListVendor(ctx context.Context, actor policy.Actor, params pagination.Params) (*OrderPage, error)
	ListAll(ctx context.Context, actor policy.Actor, params pagination.Params) (*OrderPage, error)
	SetStatus(ctx context.Context, actor policy.Actor, orderID uuid.UUID, status enums.OrderStatus) error
	SetVendorShippingStatus(ctx context.Context, actor policy.Actor, orderID uuid.UUID, status enums.OrderStatus) error
	SetPaymentStatus(ctx context.Context, actor policy.Actor, orderID uuid.UUID, status enums.PaymentStatus, transactionID *string) error
	Cancel(ctx context.Context, actor policy.Actor, orderID uuid.UUID) error
}

type service struct {
	repo      Repository
	tx        txRunner
	inventory InventoryRestorer
}

// NewService builds the orders service with the required dependencies.
func NewService(repo Repository, tx txRunner, inventory InventoryRestorer) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if inventory == nil {
		return nil, fmt.Errorf("inventory restorer required")
	}
	return &service{repo: repo, tx: tx, inventory: inventory}, nil
}

func (s *service) Get(ctx context.Context, actor policy.Actor, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.load(ctx, s.repo, orderID)
	if err != nil {
		return nil, err
	}
	if err := policy.AuthorizeOrderRead(actor, order); err != nil {
		return nil, err
	}
	if actor.Role == enums.RoleVendor && !actor.IsAdmin() && order.UserID != actor.UserID && actor.VendorID != nil {
		return policy.NarrowOrderForVendor(order, *actor.VendorID), nil
	}
	return order, nil
}

func (s *service) ListMine(ctx context.Context, actor policy.Actor, params pagination.Params) (*OrderPage, error) {
	if actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	page, err := s.repo.ListByUser(ctx, actor.UserID, params)
	if err != nil {
		return nil, wrapListErr(err)
	}
	return page, nil
}

func (s *service) ListVendor(ctx context.Context, actor policy.Actor, params pagination.Params) (*OrderPage, error) {
	if actor.Role != enums.RoleVendor || actor.VendorID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "vendor access required")
	}
	page, err := s.repo.ListByVendor(ctx, *actor.VendorID, params)
	if err != nil {
		return nil, wrapListErr(err)
	}
	for i := range page.Orders {
		page.Orders[i] = *policy.NarrowOrderForVendor(&page.Orders[i], *actor.VendorID)
	}
	return page, nil
}

func (s *service) ListAll(ctx context.Context, actor policy.Actor, params pagination.Params) (*OrderPage, error) {
	if err := policy.AuthorizeAdmin(actor); err != nil {
		return nil, err
	}
	page, err := s.repo.ListAll(ctx, params)
	if err != nil {
		return nil, wrapListErr(err)
	}
	return page, nil
}

// SetStatus is the admin-only order status write. A Delivered write stamps
// delivered_at; a Cancelled write stamps cancelled_at and restores stock for
// every line item, at most once over the order's lifetime.
func (s *service) SetStatus(ctx context.Context, actor policy.Actor, orderID uuid.UUID, status enums.OrderStatus) error {
	if err := policy.AuthorizeAdmin(actor); err != nil {
		return err
	}
	if !status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := s.load(ctx, repo, orderID)
		if err != nil {
			return err
		}
		if order.OrderStatus == status {
			return nil
		}

		now := time.Now().UTC()
		var deliveredAt, cancelledAt *time.Time
		switch status {
		case enums.OrderStatusDelivered:
			deliveredAt = &now
		case enums.OrderStatusCancelled:
			cancelledAt = &now
			// cancelled_at is never cleared, so a set stamp means an earlier
			// cancellation already restored this stock.
			if order.CancelledAt == nil {
				for _, item := range order.Items {
					if err := s.inventory.Restore(ctx, tx, item.ProductID, item.Quantity); err != nil {
						return err
					}
				}
			}
		}

		if err := repo.UpdateStatus(ctx, order.ID, status, deliveredAt, cancelledAt); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		return nil
	})
}

// SetVendorShippingStatus writes one vendor's sub-order status, then
// re-derives the order-level status from a fresh read of all sub-orders.
func (s *service) SetVendorShippingStatus(ctx context.Context, actor policy.Actor, orderID uuid.UUID, status enums.OrderStatus) error {
	if !status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid shipping status")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := s.load(ctx, repo, orderID)
		if err != nil {
			return err
		}
		if err := policy.AuthorizeVendorShippingUpdate(actor, order); err != nil {
			return err
		}

		var sub *models.VendorSubOrder
		for i := range order.Vendors {
			if order.Vendors[i].VendorID == *actor.VendorID {
				sub = &order.Vendors[i]
				break
			}
		}
		if sub == nil {
			return pkgerrors.New(pkgerrors.CodeForbidden, "vendor has no sub-order on this order")
		}

		if sub.ShippingStatus != status {
			if err := repo.UpdateSubOrderShipping(ctx, sub.ID, status); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update sub-order status")
			}
			sub.ShippingStatus = status
		}

		derived, ok := deriveAggregateStatus(order.Vendors)
		if !ok || derived == order.OrderStatus {
			return nil
		}

		now := time.Now().UTC()
		var deliveredAt, cancelledAt *time.Time
		switch derived {
		case enums.OrderStatusDelivered:
			deliveredAt = &now
		case enums.OrderStatusCancelled:
			cancelledAt = &now
		}
		if err := repo.UpdateStatus(ctx, order.ID, derived, deliveredAt, cancelledAt); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "derive order status")
		}
		return nil
	})
}

func (s *service) SetPaymentStatus(ctx context.Context, actor policy.Actor, orderID uuid.UUID, status enums.PaymentStatus, transactionID *string) error {
	if err := policy.AuthorizeAdmin(actor); err != nil {
		return err
	}
	if !status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := s.load(ctx, repo, orderID); err != nil {
			return err
		}
		if err := repo.UpdatePayment(ctx, orderID, status, transactionID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update payment status")
		}
		return nil
	})
}

// Cancel is the top-down owner cancellation: every sub-order is forced to
// Cancelled regardless of its current status, and all stock is restored.
func (s *service) Cancel(ctx context.Context, actor policy.Actor, orderID uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := s.load(ctx, repo, orderID)
		if err != nil {
			return err
		}
		if err := policy.AuthorizeOrderCancel(actor, order); err != nil {
			return err
		}
		if order.OrderStatus == enums.OrderStatusDelivered || order.OrderStatus == enums.OrderStatusCancelled {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order cannot be cancelled in its current status").
				WithDetails(map[string]any{"order_status": order.OrderStatus})
		}

		now := time.Now().UTC()
		if err := repo.UpdateStatus(ctx, order.ID, enums.OrderStatusCancelled, nil, &now); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel order")
		}
		if err := repo.CancelAllSubOrders(ctx, order.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel sub-orders")
		}
		if order.CancelledAt == nil {
			for _, item := range order.Items {
				if err := s.inventory.Restore(ctx, tx, item.ProductID, item.Quantity); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func (s *service) load(ctx context.Context, repo Repository, orderID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

// deriveAggregateStatus folds the vendor shipping statuses into an
// order-level status. It only fires once every sub-order is terminal:
// all delivered wins, then any cancellation, then any return.
func deriveAggregateStatus(subs []models.VendorSubOrder) (enums.OrderStatus, bool) {
	if len(subs) == 0 {
		return "", false
	}
	allDelivered := true
	anyCancelled := false
	anyReturned := false
	for _, sub := range subs {
		if !sub.ShippingStatus.IsTerminal() {
			return "", false
		}
		switch sub.ShippingStatus {
		case enums.OrderStatusCancelled:
			anyCancelled = true
			allDelivered = false
		case enums.OrderStatusReturned:
			anyReturned = true
			allDelivered = false
		}
	}
	switch {
	case allDelivered:
		return enums.OrderStatusDelivered, true
	case anyCancelled:
		return enums.OrderStatusCancelled, true
	case anyReturned:
		return enums.OrderStatusReturned, true
	}
	return "", false
}

func wrapListErr(err error) error {
	if typed := pkgerrors.As(err); typed != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
}
