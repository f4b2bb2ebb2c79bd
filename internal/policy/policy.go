package policy

import (
	"github.com/google/uuid"

	"github.com/vendorahq/vendora-backend/pkg/db/models"
	"github.com/vendorahq/vendora-backend/pkg/enums"
	pkgerrors "github.com/vendorahq/vendora-backend/pkg/errors"
)

// Actor is the authenticated principal attached to a request.
type Actor struct {
	UserID   uuid.UUID
	Role     enums.Role
	VendorID *uuid.UUID
}

// IsAdmin reports whether the actor carries the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == enums.RoleAdmin
}

// vendorOn reports whether the actor is a vendor holding a sub-order on the
// order.
func (a Actor) vendorOn(order *models.Order) bool {
	if a.Role != enums.RoleVendor || a.VendorID == nil {
		return false
	}
	for _, sub := range order.Vendors {
		if sub.VendorID == *a.VendorID {
			return true
		}
	}
	return false
}

// AuthorizeOrderRead grants access to the owning user, a vendor with a
// sub-order on the order, or an admin.
func AuthorizeOrderRead(actor Actor, order *models.Order) error {
	if order == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if actor.IsAdmin() || order.UserID == actor.UserID || actor.vendorOn(order) {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "not authorized to view this order")
}

// AuthorizeAdmin guards the admin-only mutations: order status and payment
// status updates.
func AuthorizeAdmin(actor Actor) error {
	if actor.IsAdmin() {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "admin access required")
}

// AuthorizeVendorShippingUpdate requires the actor to be a vendor holding a
// sub-order on the order.
func AuthorizeVendorShippingUpdate(actor Actor, order *models.Order) error {
	if order == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if actor.vendorOn(order) {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "vendor has no sub-order on this order")
}

// AuthorizeOrderCancel requires the actor to own the order.
func AuthorizeOrderCancel(actor Actor, order *models.Order) error {
	if order == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if order.UserID == actor.UserID {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "only the order owner can cancel")
}

// NarrowOrderForVendor strips the order down to the vendor's own sub-order
// and items so one vendor never sees another vendor's lines or pricing.
func NarrowOrderForVendor(order *models.Order, vendorID uuid.UUID) *models.Order {
	if order == nil {
		return nil
	}
	narrowed := *order
	narrowed.Items = nil
	narrowed.Vendors = nil
	for _, item := range order.Items {
		if item.VendorID == vendorID {
			narrowed.Items = append(narrowed.Items, item)
		}
	}
	for _, sub := range order.Vendors {
		if sub.VendorID == vendorID {
			narrowed.Vendors = append(narrowed.Vendors, sub)
		}
	}
	return &narrowed
}
