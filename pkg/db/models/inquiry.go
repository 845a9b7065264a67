package models

import (
	"time"

	"github.com/avilamfg/exhibit-backend/pkg/enums"
)

// Inquiry is a customer-submitted contact/quote request, optionally tied to a
// product. ProductID is a weak reference: the FK is ON DELETE SET NULL so a
// removed product never orphans the inquiry.
type Inquiry struct {
	ID        int64               `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID *int64              `gorm:"column:product_id"`
	Name      string              `gorm:"column:name;not null"`
	Email     string              `gorm:"column:email;not null"`
	Company   *string             `gorm:"column:company"`
	Phone     *string             `gorm:"column:phone"`
	Country   *string             `gorm:"column:country"`
	Message   string              `gorm:"column:message;not null"`
	Status    enums.InquiryStatus `gorm:"column:status;not null;default:pending"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
