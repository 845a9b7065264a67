package inquiry

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/avilamfg/exhibit-backend/pkg/db/models"
	"github.com/avilamfg/exhibit-backend/pkg/enums"
	"github.com/avilamfg/exhibit-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository wires together inquiry persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts the inquiry and returns it with generated fields populated.
func (r *Repository) Create(ctx context.Context, record *models.Inquiry) (*models.Inquiry, error) {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// FindByID loads the inquiry together with its product name, when the product
// still exists.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Inquiry, *string, error) {
	var record models.Inquiry
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		return nil, nil, err
	}
	var productName *string
	if record.ProductID != nil {
		var name sql.NullString
		err := r.db.WithContext(ctx).
			Table("products").
			Where("id = ?", *record.ProductID).
			Pluck("name", &name).
			Error
		if err != nil {
			return nil, nil, err
		}
		if name.Valid {
			productName = &name.String
		}
	}
	return &record, productName, nil
}

// UpdateStatus sets the status and refreshes updated_at. It reports whether a
// row was actually touched so callers can distinguish a missing inquiry.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status enums.InquiryStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Inquiry{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     status,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Delete removes the inquiry. Deleting a missing id is not an error.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Inquiry{}).Error
}

// inquiryRecord is the scan target for the enriched listing query.
type inquiryRecord struct {
	ID          int64
	ProductID   *int64
	ProductName sql.NullString
	Name        string
	Email       string
	Company     *string
	Phone       *string
	Country     *string
	Message     string
	Status      enums.InquiryStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (rec inquiryRecord) toDTO() InquiryDTO {
	dto := InquiryDTO{
		ID:        rec.ID,
		ProductID: rec.ProductID,
		Name:      rec.Name,
		Email:     rec.Email,
		Company:   rec.Company,
		Phone:     rec.Phone,
		Country:   rec.Country,
		Message:   rec.Message,
		Status:    rec.Status.String(),
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
	if rec.ProductName.Valid {
		name := rec.ProductName.String
		dto.ProductName = &name
	}
	return dto
}

// ListInquiries returns one cursor page of inquiries, newest first, each
// enriched with the product name via LEFT JOIN.
func (r *Repository) ListInquiries(ctx context.Context, input ListInquiriesInput) (*InquiryListResult, error) {
	pageSize := pagination.NormalizeLimit(input.Pagination.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(input.Pagination.Limit)
	if limitWithBuffer <= pageSize {
		limitWithBuffer = pageSize + 1
	}

	cursor, err := pagination.ParseCursor(input.Pagination.Cursor)
	if err != nil {
		return nil, err
	}

	qb := r.db.WithContext(ctx).
		Table("inquiries i").
		Select(strings.Join([]string{
			"i.id",
			"i.product_id",
			"p.name AS product_name",
			"i.name",
			"i.email",
			"i.company",
			"i.phone",
			"i.country",
			"i.message",
			"i.status",
			"i.created_at",
			"i.updated_at",
		}, ", ")).
		Joins("LEFT JOIN products p ON p.id = i.product_id")

	if input.Status != nil {
		qb = qb.Where("i.status = ?", *input.Status)
	}

	if cursor != nil {
		qb = qb.Where("(i.created_at < ?) OR (i.created_at = ? AND i.id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	qb = qb.Order("i.created_at DESC").Order("i.id DESC").Limit(limitWithBuffer)

	var records []inquiryRecord
	if err := qb.Scan(&records).Error; err != nil {
		return nil, err
	}

	resultRows := records
	nextCursor := ""
	if len(records) > pageSize {
		resultRows = records[:pageSize]
		last := resultRows[len(resultRows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	inquiries := make([]InquiryDTO, 0, len(resultRows))
	for _, record := range resultRows {
		inquiries = append(inquiries, record.toDTO())
	}

	return &InquiryListResult{
		Inquiries:  inquiries,
		NextCursor: nextCursor,
	}, nil
}
