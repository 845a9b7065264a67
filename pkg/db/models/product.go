package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry shown on the exhibition site.
type Product struct {
	ID          int64            `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string           `gorm:"column:name;not null"`
	Description string           `gorm:"column:description;not null"`
	Category    *string          `gorm:"column:category"`
	ImageURL    *string          `gorm:"column:image_url"`
	ListPrice   *decimal.Decimal `gorm:"column:list_price;type:numeric(12,2)"`
	IsActive    bool             `gorm:"column:is_active;not null;default:true"`
	SortOrder   int              `gorm:"column:sort_order;not null;default:0"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
