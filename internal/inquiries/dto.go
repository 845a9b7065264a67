package inquiry

import (
	"time"

	"github.com/avilamfg/exhibit-backend/pkg/db/models"
	"github.com/avilamfg/exhibit-backend/pkg/pagination"
)

// InquiryDTO represents the inquiry payload returned to admin clients. The
// product name is denormalized at read time and stays null when the inquiry
// has no product or the product was since removed.
type InquiryDTO struct {
	ID          int64     `json:"id"`
	ProductID   *int64    `json:"product_id,omitempty"`
	ProductName *string   `json:"product_name,omitempty"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Company     *string   `json:"company,omitempty"`
	Phone       *string   `json:"phone,omitempty"`
	Country     *string   `json:"country,omitempty"`
	Message     string    `json:"message"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// InquiryListResult is one page of inquiries plus the cursor for the next one.
type InquiryListResult struct {
	Inquiries  []InquiryDTO `json:"inquiries"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// CreateInquiryInput holds the raw public intake payload before validation.
type CreateInquiryInput struct {
	ProductID *int64 `json:"product_id,omitempty"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Company   string `json:"company,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Country   string `json:"country,omitempty"`
	Message   string `json:"message"`
}

// ListInquiriesInput captures the knobs for the admin listing endpoint.
type ListInquiriesInput struct {
	Status     *string
	Pagination pagination.Params
}

// NewInquiryDTO builds a DTO from the persisted model.
func NewInquiryDTO(record *models.Inquiry, productName *string) *InquiryDTO {
	return &InquiryDTO{
		ID:          record.ID,
		ProductID:   record.ProductID,
		ProductName: productName,
		Name:        record.Name,
		Email:       record.Email,
		Company:     record.Company,
		Phone:       record.Phone,
		Country:     record.Country,
		Message:     record.Message,
		Status:      record.Status.String(),
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
}
