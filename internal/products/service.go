package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/avilamfg/exhibit-backend/pkg/db/models"
	pkgerrors "github.com/avilamfg/exhibit-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes catalog read and management operations.
type Service interface {
	GetProduct(ctx context.Context, id int64) (*ProductDTO, error)
	ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, id int64, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, id int64) error
}

type productStore interface {
	Create(ctx context.Context, record *models.Product) (*models.Product, error)
	FindByID(ctx context.Context, id int64) (*models.Product, error)
	Update(ctx context.Context, record *models.Product) (*models.Product, error)
	Delete(ctx context.Context, id int64) error
	ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error)
}

// service implements the product service.
type service struct {
	repo productStore
}

// NewService constructs a product service instance.
func NewService(repo productStore) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

// GetProduct loads a single catalog entry.
func (s *service) GetProduct(ctx context.Context, id int64) (*ProductDTO, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load product")
	}
	return NewProductDTO(record), nil
}

// ListProducts returns one cursor page of catalog entries.
func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error) {
	result, err := s.repo.ListProducts(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list products")
	}
	return result, nil
}

// CreateProduct validates and persists a new catalog entry.
func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if err := validateListPrice(input.ListPrice); err != nil {
		return nil, err
	}

	record := &models.Product{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Category:    input.Category,
		ImageURL:    input.ImageURL,
		ListPrice:   input.ListPrice,
		IsActive:    true,
	}
	if input.IsActive != nil {
		record.IsActive = *input.IsActive
	}
	if input.SortOrder != nil {
		record.SortOrder = *input.SortOrder
	}

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to store product")
	}
	return NewProductDTO(created), nil
}

// UpdateProduct applies the provided fields to the catalog entry.
func (s *service) UpdateProduct(ctx context.Context, id int64, input UpdateProductInput) (*ProductDTO, error) {
	if err := validateListPrice(input.ListPrice); err != nil {
		return nil, err
	}

	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load product")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name cannot be empty")
		}
		record.Name = name
	}
	if input.Description != nil {
		record.Description = strings.TrimSpace(*input.Description)
	}
	if input.Category != nil {
		record.Category = input.Category
	}
	if input.ImageURL != nil {
		record.ImageURL = input.ImageURL
	}
	if input.ListPrice != nil {
		record.ListPrice = input.ListPrice
	}
	if input.IsActive != nil {
		record.IsActive = *input.IsActive
	}
	if input.SortOrder != nil {
		record.SortOrder = *input.SortOrder
	}

	updated, err := s.repo.Update(ctx, record)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to update product")
	}
	return NewProductDTO(updated), nil
}

// DeleteProduct removes the catalog entry. Inquiries referencing the product
// survive with their reference cleared by the store.
func (s *service) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to delete product")
	}
	return nil
}

func validateListPrice(price *decimal.Decimal) error {
	if price == nil {
		return nil
	}
	if price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "list_price cannot be negative")
	}
	return nil
}
