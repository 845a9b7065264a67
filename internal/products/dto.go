package product

import (
	"time"

	"github.com/avilamfg/exhibit-backend/pkg/db/models"
	"github.com/avilamfg/exhibit-backend/pkg/pagination"
	"github.com/shopspring/decimal"
)

// ProductDTO represents the catalog entry payload returned to clients.
type ProductDTO struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Category    *string          `json:"category,omitempty"`
	ImageURL    *string          `json:"image_url,omitempty"`
	ListPrice   *decimal.Decimal `json:"list_price,omitempty"`
	IsActive    bool             `json:"is_active"`
	SortOrder   int              `json:"sort_order"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// ProductListResult is one page of products plus the cursor for the next one.
type ProductListResult struct {
	Products   []ProductDTO `json:"products"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name        string           `json:"name" validate:"required,max=200"`
	Description string           `json:"description" validate:"max=5000"`
	Category    *string          `json:"category,omitempty" validate:"omitempty,max=100"`
	ImageURL    *string          `json:"image_url,omitempty" validate:"omitempty,max=2048"`
	ListPrice   *decimal.Decimal `json:"list_price,omitempty"`
	IsActive    *bool            `json:"is_active,omitempty"`
	SortOrder   *int             `json:"sort_order,omitempty"`
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name        *string          `json:"name,omitempty" validate:"omitempty,max=200"`
	Description *string          `json:"description,omitempty" validate:"omitempty,max=5000"`
	Category    *string          `json:"category,omitempty" validate:"omitempty,max=100"`
	ImageURL    *string          `json:"image_url,omitempty" validate:"omitempty,max=2048"`
	ListPrice   *decimal.Decimal `json:"list_price,omitempty"`
	IsActive    *bool            `json:"is_active,omitempty"`
	SortOrder   *int             `json:"sort_order,omitempty"`
}

// ListProductsInput captures the knobs for the listing endpoints. Public
// callers only ever see active products; the admin dashboard sets
// IncludeInactive.
type ListProductsInput struct {
	IncludeInactive bool
	Category        *string
	Pagination      pagination.Params
}

// NewProductDTO builds a DTO from the persisted model.
func NewProductDTO(record *models.Product) *ProductDTO {
	return &ProductDTO{
		ID:          record.ID,
		Name:        record.Name,
		Description: record.Description,
		Category:    record.Category,
		ImageURL:    record.ImageURL,
		ListPrice:   record.ListPrice,
		IsActive:    record.IsActive,
		SortOrder:   record.SortOrder,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
}
