package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/vendorahq/vendora-backend/api/middleware"
	"github.com/vendorahq/vendora-backend/api/responses"
	"github.com/vendorahq/vendora-backend/api/validators"
	productsvc "github.com/vendorahq/vendora-backend/internal/products"
	pkgerrors "github.com/vendorahq/vendora-backend/pkg/errors"
	"github.com/vendorahq/vendora-backend/pkg/logger"
	"github.com/vendorahq/vendora-backend/pkg/types"
)

type createProductRequest struct {
	Name              string                  `json:"name" validate:"required"`
	Description       string                  `json:"description"`
	Category          string                  `json:"category" validate:"required"`
	Brand             string                  `json:"brand"`
	Price             decimal.Decimal         `json:"price"`
	DiscountInPercent *int                    `json:"discount_in_percent,omitempty" validate:"omitempty,gte=0,lte=100"`
	Stock             int                     `json:"stock" validate:"min=0"`
	Images            types.ProductImages     `json:"images,omitempty"`
	Variations        types.ProductVariations `json:"variations,omitempty"`
}

type updateProductRequest struct {
	Name              *string                  `json:"name,omitempty"`
	Description       *string                  `json:"description,omitempty"`
	Category          *string                  `json:"category,omitempty"`
	Brand             *string                  `json:"brand,omitempty"`
	Price             *decimal.Decimal         `json:"price,omitempty"`
	DiscountInPercent *int                     `json:"discount_in_percent,omitempty" validate:"omitempty,gte=0,lte=100"`
	ClearDiscount     bool                     `json:"clear_discount,omitempty"`
	Stock             *int                     `json:"stock,omitempty" validate:"omitempty,min=0"`
	Images            *types.ProductImages     `json:"images,omitempty"`
	Variations        *types.ProductVariations `json:"variations,omitempty"`
}

// VendorCreateProduct creates a listing for the caller's vendor account.
func VendorCreateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		actor := middleware.ActorFromContext(r.Context())
		if actor.VendorID == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "vendor context missing"))
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Create(r.Context(), *actor.VendorID, productsvc.CreateProductInput{
			Name:              payload.Name,
			Description:       payload.Description,
			Category:          payload.Category,
			Brand:             payload.Brand,
			Price:             payload.Price,
			DiscountInPercent: payload.DiscountInPercent,
			Stock:             payload.Stock,
			Images:            payload.Images,
			Variations:        payload.Variations,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// VendorUpdateProduct applies a partial update to an owned listing.
func VendorUpdateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		actor := middleware.ActorFromContext(r.Context())
		if actor.VendorID == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "vendor context missing"))
			return
		}

		productID, err := validators.ParseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Update(r.Context(), *actor.VendorID, productID, productsvc.UpdateProductInput{
			Name:              payload.Name,
			Description:       payload.Description,
			Category:          payload.Category,
			Brand:             payload.Brand,
			Price:             payload.Price,
			DiscountInPercent: payload.DiscountInPercent,
			ClearDiscount:     payload.ClearDiscount,
			Stock:             payload.Stock,
			Images:            payload.Images,
			Variations:        payload.Variations,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// VendorDeleteProduct removes an owned listing.
func VendorDeleteProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		actor := middleware.ActorFromContext(r.Context())
		if actor.VendorID == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "vendor context missing"))
			return
		}

		productID, err := validators.ParseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), *actor.VendorID, productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, nil)
	}
}

// VendorListProducts returns the caller's own catalog.
func VendorListProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		actor := middleware.ActorFromContext(r.Context())
		if actor.VendorID == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "vendor context missing"))
			return
		}

		products, err := svc.ListByVendor(r.Context(), *actor.VendorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, products)
	}
}

// GetProduct returns a single listing by id.
func GetProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := validators.ParseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Get(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}
