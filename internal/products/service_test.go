package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vendorahq/vendora-backend/pkg/db/models"
	pkgerrors "github.com/vendorahq/vendora-backend/pkg/errors"
)

type stubProductRepo struct {
	byID    map[uuid.UUID]*models.Product
	created *models.Product
	updated *models.Product
	deleted []uuid.UUID
}

func (s *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	if p, ok := s.byID[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProductRepo) ListByVendor(_ context.Context, vendorID uuid.UUID) ([]models.Product, error) {
	var list []models.Product
	for _, p := range s.byID {
		if p.VendorID == vendorID {
			list = append(list, *p)
		}
	}
	return list, nil
}

func (s *stubProductRepo) Create(_ context.Context, product *models.Product) (*models.Product, error) {
	product.ID = uuid.New()
	s.created = product
	return product, nil
}

func (s *stubProductRepo) Update(_ context.Context, product *models.Product) (*models.Product, error) {
	s.updated = product
	return product, nil
}

func (s *stubProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	s.deleted = append(s.deleted, id)
	return nil
}

type stubVendorLoader struct {
	vendor *models.Vendor
	err    error
}

func (s *stubVendorLoader) FindByID(context.Context, uuid.UUID) (*models.Vendor, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.vendor, nil
}

func ptr[T any](v T) *T {
	return &v
}

func newService(t *testing.T, repo *stubProductRepo, vendors *stubVendorLoader) Service {
	t.Helper()
	svc, err := NewService(repo, vendors)
	require.NoError(t, err)
	return svc
}

func TestCreateDerivesDiscountPrice(t *testing.T) {
	repo := &stubProductRepo{byID: map[uuid.UUID]*models.Product{}}
	vendorID := uuid.New()
	svc := newService(t, repo, &stubVendorLoader{vendor: &models.Vendor{ID: vendorID, Verified: true}})

	created, err := svc.Create(context.Background(), vendorID, CreateProductInput{
		Name:              "Desk Lamp",
		Description:       "LED desk lamp",
		Category:          "home",
		Price:             decimal.RequireFromString("100"),
		DiscountInPercent: ptr(20),
		Stock:             5,
	})
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("80").Equal(created.DiscountPrice), "discount price %s", created.DiscountPrice)
	assert.Equal(t, vendorID, created.VendorID)
}

func TestCreateRejectsUnverifiedVendor(t *testing.T) {
	repo := &stubProductRepo{byID: map[uuid.UUID]*models.Product{}}
	vendorID := uuid.New()
	svc := newService(t, repo, &stubVendorLoader{vendor: &models.Vendor{ID: vendorID, Verified: false}})

	_, err := svc.Create(context.Background(), vendorID, CreateProductInput{
		Name:        "Desk Lamp",
		Description: "LED desk lamp",
		Category:    "home",
		Price:       decimal.RequireFromString("100"),
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeForbidden, typed.Code())
	assert.Nil(t, repo.created)
}

func TestCreateValidatesInput(t *testing.T) {
	repo := &stubProductRepo{byID: map[uuid.UUID]*models.Product{}}
	svc := newService(t, repo, &stubVendorLoader{vendor: &models.Vendor{Verified: true}})

	cases := []struct {
		name  string
		input CreateProductInput
	}{
		{name: "negative price", input: CreateProductInput{Price: decimal.RequireFromString("-1")}},
		{name: "discount above 100", input: CreateProductInput{Price: decimal.RequireFromString("10"), DiscountInPercent: ptr(101)}},
		{name: "negative stock", input: CreateProductInput{Price: decimal.RequireFromString("10"), Stock: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), uuid.New(), tc.input)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
		})
	}
}

func TestUpdateRecomputesDiscountOnPriceChange(t *testing.T) {
	vendorID := uuid.New()
	productID := uuid.New()
	repo := &stubProductRepo{byID: map[uuid.UUID]*models.Product{
		productID: {
			ID:                productID,
			VendorID:          vendorID,
			Price:             decimal.RequireFromString("100"),
			DiscountInPercent: ptr(20),
			DiscountPrice:     decimal.RequireFromString("80"),
		},
	}}
	svc := newService(t, repo, &stubVendorLoader{vendor: &models.Vendor{ID: vendorID, Verified: true}})

	updated, err := svc.Update(context.Background(), vendorID, productID, UpdateProductInput{
		Price: ptr(decimal.RequireFromString("50")),
	})
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("40").Equal(updated.DiscountPrice), "discount price %s", updated.DiscountPrice)
}

func TestUpdateClearDiscount(t *testing.T) {
	vendorID := uuid.New()
	productID := uuid.New()
	repo := &stubProductRepo{byID: map[uuid.UUID]*models.Product{
		productID: {
			ID:                productID,
			VendorID:          vendorID,
			Price:             decimal.RequireFromString("100"),
			DiscountInPercent: ptr(20),
			DiscountPrice:     decimal.RequireFromString("80"),
		},
	}}
	svc := newService(t, repo, &stubVendorLoader{vendor: &models.Vendor{ID: vendorID, Verified: true}})

	updated, err := svc.Update(context.Background(), vendorID, productID, UpdateProductInput{ClearDiscount: true})
	require.NoError(t, err)
	assert.Nil(t, updated.DiscountInPercent)
	assert.True(t, updated.DiscountPrice.IsZero(), "discount price %s", updated.DiscountPrice)
}

func TestUpdateForbiddenForOtherVendor(t *testing.T) {
	productID := uuid.New()
	repo := &stubProductRepo{byID: map[uuid.UUID]*models.Product{
		productID: {ID: productID, VendorID: uuid.New(), Price: decimal.RequireFromString("10")},
	}}
	svc := newService(t, repo, &stubVendorLoader{vendor: &models.Vendor{Verified: true}})

	_, err := svc.Update(context.Background(), uuid.New(), productID, UpdateProductInput{})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeForbidden, typed.Code())
}

func TestDeleteUnknownProduct(t *testing.T) {
	repo := &stubProductRepo{byID: map[uuid.UUID]*models.Product{}}
	svc := newService(t, repo, &stubVendorLoader{vendor: &models.Vendor{Verified: true}})

	err := svc.Delete(context.Background(), uuid.New(), uuid.New())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	assert.Empty(t, repo.deleted)
}
