package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vendorahq/vendora-backend/internal/pricing"
	"github.com/vendorahq/vendora-backend/pkg/db/models"
	pkgerrors "github.com/vendorahq/vendora-backend/pkg/errors"
	"github.com/vendorahq/vendora-backend/pkg/types"
)

type productRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type vendorLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error)
}

// Service manages vendor product listings.
type Service interface {
	Create(ctx context.Context, vendorID uuid.UUID, input CreateProductInput) (*models.Product, error)
	Update(ctx context.Context, vendorID, productID uuid.UUID, input UpdateProductInput) (*models.Product, error)
	Delete(ctx context.Context, vendorID, productID uuid.UUID) error
	Get(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.Product, error)
}

// CreateProductInput carries a new listing.
type CreateProductInput struct {
	Name              string
	Description       string
	Category          string
	Brand             string
	Price             decimal.Decimal
	DiscountInPercent *int
	Stock             int
	Images            types.ProductImages
	Variations        types.ProductVariations
}

// UpdateProductInput carries a partial update; nil fields are left untouched.
type UpdateProductInput struct {
	Name              *string
	Description       *string
	Category          *string
	Brand             *string
	Price             *decimal.Decimal
	DiscountInPercent *int
	ClearDiscount     bool
	Stock             *int
	Images            *types.ProductImages
	Variations        *types.ProductVariations
}

type service struct {
	repo    productRepository
	vendors vendorLoader
}

// NewService builds the product service.
func NewService(repo productRepository, vendors vendorLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if vendors == nil {
		return nil, fmt.Errorf("vendor loader required")
	}
	return &service{repo: repo, vendors: vendors}, nil
}

func (s *service) Create(ctx context.Context, vendorID uuid.UUID, input CreateProductInput) (*models.Product, error) {
	if err := validatePrice(input.Price); err != nil {
		return nil, err
	}
	if err := validateDiscountPercent(input.DiscountInPercent); err != nil {
		return nil, err
	}
	if input.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}

	vendor, err := s.vendors.FindByID(ctx, vendorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor")
	}
	if !vendor.Verified {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "vendor is not verified")
	}

	product := &models.Product{
		VendorID:          vendorID,
		Name:              input.Name,
		Description:       input.Description,
		Category:          input.Category,
		Brand:             input.Brand,
		Price:             input.Price,
		DiscountInPercent: input.DiscountInPercent,
		DiscountPrice:     pricing.DeriveDiscountPrice(input.Price, input.DiscountInPercent),
		Stock:             input.Stock,
		Images:            input.Images,
		Variations:        input.Variations,
	}
	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, vendorID, productID uuid.UUID, input UpdateProductInput) (*models.Product, error) {
	product, err := s.loadOwned(ctx, vendorID, productID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.Brand != nil {
		product.Brand = *input.Brand
	}
	if input.Images != nil {
		product.Images = *input.Images
	}
	if input.Variations != nil {
		product.Variations = *input.Variations
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
		}
		product.Stock = *input.Stock
	}

	repriced := false
	if input.Price != nil {
		if err := validatePrice(*input.Price); err != nil {
			return nil, err
		}
		product.Price = *input.Price
		repriced = true
	}
	if input.ClearDiscount {
		product.DiscountInPercent = nil
		repriced = true
	} else if input.DiscountInPercent != nil {
		if err := validateDiscountPercent(input.DiscountInPercent); err != nil {
			return nil, err
		}
		product.DiscountInPercent = input.DiscountInPercent
		repriced = true
	}
	if repriced {
		product.DiscountPrice = pricing.DeriveDiscountPrice(product.Price, product.DiscountInPercent)
	}

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, vendorID, productID uuid.UUID) error {
	if _, err := s.loadOwned(ctx, vendorID, productID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

func (s *service) Get(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.Product, error) {
	list, err := s.repo.ListByVendor(ctx, vendorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return list, nil
}

func (s *service) loadOwned(ctx context.Context, vendorID, productID uuid.UUID) (*models.Product, error) {
	product, err := s.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.VendorID != vendorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "product belongs to another vendor")
	}
	return product, nil
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	return nil
}

func validateDiscountPercent(pct *int) error {
	if pct == nil {
		return nil
	}
	if *pct < 0 || *pct > 100 {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount percent must be between 0 and 100")
	}
	return nil
}
