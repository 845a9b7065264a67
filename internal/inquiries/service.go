package inquiry

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/avilamfg/exhibit-backend/internal/events"
	"github.com/avilamfg/exhibit-backend/pkg/db/models"
	"github.com/avilamfg/exhibit-backend/pkg/enums"
	pkgerrors "github.com/avilamfg/exhibit-backend/pkg/errors"
	"github.com/avilamfg/exhibit-backend/pkg/logger"
	"gorm.io/gorm"
)

// emailPattern is intentionally loose: one @, no whitespace, a dotted domain.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	maxNameLen    = 200
	maxEmailLen   = 320
	maxCompanyLen = 200
	maxPhoneLen   = 50
	maxCountryLen = 100
	maxMessageLen = 5000
)

// Service exposes the inquiry intake and moderation operations.
type Service interface {
	CreateInquiry(ctx context.Context, input CreateInquiryInput) (*InquiryDTO, error)
	GetInquiry(ctx context.Context, id int64) (*InquiryDTO, error)
	ListInquiries(ctx context.Context, input ListInquiriesInput) (*InquiryListResult, error)
	UpdateInquiryStatus(ctx context.Context, id int64, status string) error
	DeleteInquiry(ctx context.Context, id int64) error
}

type inquiryStore interface {
	Create(ctx context.Context, record *models.Inquiry) (*models.Inquiry, error)
	FindByID(ctx context.Context, id int64) (*models.Inquiry, *string, error)
	UpdateStatus(ctx context.Context, id int64, status enums.InquiryStatus) (bool, error)
	Delete(ctx context.Context, id int64) error
	ListInquiries(ctx context.Context, input ListInquiriesInput) (*InquiryListResult, error)
}

type productChecker interface {
	ProductExists(ctx context.Context, id int64) (bool, error)
}

type eventPublisher interface {
	PublishInquiryCreated(ctx context.Context, event events.InquiryCreatedEvent) error
}

// service implements the inquiry service.
type service struct {
	repo     inquiryStore
	products productChecker
	events   eventPublisher
	logg     *logger.Logger
}

// NewService constructs an inquiry service instance. The event publisher is
// optional; pass nil when eventing is disabled.
func NewService(repo inquiryStore, products productChecker, publisher eventPublisher, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inquiry repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product checker required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     repo,
		products: products,
		events:   publisher,
		logg:     logg,
	}, nil
}

// CreateInquiry validates and persists a public inquiry submission. Missing
// required fields are reported back as per-field presence booleans so clients
// can see exactly which inputs arrived.
func (s *service) CreateInquiry(ctx context.Context, input CreateInquiryInput) (*InquiryDTO, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	message := strings.TrimSpace(input.Message)

	ctx = s.logg.WithFields(ctx, map[string]any{
		"has_product": input.ProductID != nil,
		"email":       email,
	})
	s.logg.Debug(ctx, "inquiry.received")

	if name == "" || email == "" || message == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name, email and message are required").
			WithDetails(map[string]bool{
				"name":    name != "",
				"email":   email != "",
				"message": message != "",
			})
	}
	if !emailPattern.MatchString(email) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid email address")
	}
	if err := validateLengths(name, email, input, message); err != nil {
		return nil, err
	}

	productID := input.ProductID
	if productID != nil {
		exists, err := s.products.ProductExists(ctx, *productID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to verify product")
		}
		if !exists {
			// The reference is advisory; a stale product id does not block
			// the submission.
			productID = nil
		}
	}

	record := &models.Inquiry{
		ProductID: productID,
		Name:      name,
		Email:     email,
		Company:   optionalField(input.Company, maxCompanyLen),
		Phone:     optionalField(input.Phone, maxPhoneLen),
		Country:   optionalField(input.Country, maxCountryLen),
		Message:   message,
		Status:    enums.InquiryStatusPending,
	}

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to store inquiry")
	}

	s.publishCreated(ctx, created)

	return NewInquiryDTO(created, nil), nil
}

// publishCreated emits the inquiry.created event. Failures are logged and
// swallowed; the submission already succeeded.
func (s *service) publishCreated(ctx context.Context, record *models.Inquiry) {
	if s.events == nil {
		return
	}
	event := events.InquiryCreatedEvent{
		InquiryID: record.ID,
		ProductID: record.ProductID,
		Name:      record.Name,
		Email:     record.Email,
		CreatedAt: record.CreatedAt,
	}
	if err := s.events.PublishInquiryCreated(ctx, event); err != nil {
		s.logg.Error(s.logg.WithField(ctx, "inquiry_id", record.ID), "inquiry.event_publish_failed", err)
	}
}

// GetInquiry loads a single inquiry for admin review.
func (s *service) GetInquiry(ctx context.Context, id int64) (*InquiryDTO, error) {
	record, productName, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inquiry not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load inquiry")
	}
	return NewInquiryDTO(record, productName), nil
}

// ListInquiries returns one cursor page of inquiries for the admin dashboard.
func (s *service) ListInquiries(ctx context.Context, input ListInquiriesInput) (*InquiryListResult, error) {
	if input.Status != nil {
		status, err := enums.ParseInquiryStatus(*input.Status)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
		}
		normalized := status.String()
		input.Status = &normalized
	}

	result, err := s.repo.ListInquiries(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list inquiries")
	}
	return result, nil
}

// UpdateInquiryStatus moves the inquiry to the requested status. Any of the
// known statuses is reachable from any other; there is no transition graph.
func (s *service) UpdateInquiryStatus(ctx context.Context, id int64, status string) error {
	parsed, err := enums.ParseInquiryStatus(status)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid inquiry status")
	}

	updated, err := s.repo.UpdateStatus(ctx, id, parsed)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to update inquiry status")
	}
	if !updated {
		return pkgerrors.New(pkgerrors.CodeNotFound, "inquiry not found")
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"inquiry_id": id,
		"status":     parsed.String(),
	}), "inquiry.status_updated")
	return nil
}

// DeleteInquiry removes the inquiry. Deleting an id that no longer exists
// still succeeds.
func (s *service) DeleteInquiry(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to delete inquiry")
	}
	s.logg.Info(s.logg.WithField(ctx, "inquiry_id", id), "inquiry.deleted")
	return nil
}

func validateLengths(name, email string, input CreateInquiryInput, message string) error {
	switch {
	case len(name) > maxNameLen:
		return pkgerrors.New(pkgerrors.CodeValidation, "name is too long")
	case len(email) > maxEmailLen:
		return pkgerrors.New(pkgerrors.CodeValidation, "email is too long")
	case len(message) > maxMessageLen:
		return pkgerrors.New(pkgerrors.CodeValidation, "message is too long")
	}
	return nil
}

func optionalField(value string, maxLen int) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	if len(trimmed) > maxLen {
		trimmed = trimmed[:maxLen]
	}
	return &trimmed
}
