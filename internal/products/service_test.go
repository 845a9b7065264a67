package product

import (
	"context"
	"testing"

	"github.com/avilamfg/exhibit-backend/pkg/db/models"
	pkgerrors "github.com/avilamfg/exhibit-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type stubProductRepo struct {
	created    *models.Product
	createErr  error
	found      *models.Product
	findErr    error
	updated    *models.Product
	updateErr  error
	deletedID  int64
	deleteErr  error
	listResult *ProductListResult
	listErr    error
	listInput  ListProductsInput
}

func (s *stubProductRepo) Create(ctx context.Context, record *models.Product) (*models.Product, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	record.ID = 11
	s.created = record
	return record, nil
}

func (s *stubProductRepo) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.found, nil
}

func (s *stubProductRepo) Update(ctx context.Context, record *models.Product) (*models.Product, error) {
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	s.updated = record
	return record, nil
}

func (s *stubProductRepo) Delete(ctx context.Context, id int64) error {
	s.deletedID = id
	return s.deleteErr
}

func (s *stubProductRepo) ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error) {
	s.listInput = input
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.listResult, nil
}

func TestCreateProduct(t *testing.T) {
	t.Parallel()

	repo := &stubProductRepo{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	price := decimal.NewFromFloat(12.50)
	dto, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Name:        "  Steel Bracket ",
		Description: "Cold-rolled bracket.",
		ListPrice:   &price,
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if dto.ID != 11 {
		t.Fatalf("expected assigned id, got %d", dto.ID)
	}
	if dto.Name != "Steel Bracket" {
		t.Fatalf("expected trimmed name, got %q", dto.Name)
	}
	if !dto.IsActive {
		t.Fatal("expected new products to default active")
	}
}

func TestCreateProductRequiresName(t *testing.T) {
	t.Parallel()

	svc, _ := NewService(&stubProductRepo{})
	_, err := svc.CreateProduct(context.Background(), CreateProductInput{Name: "   "})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateProductRejectsNegativePrice(t *testing.T) {
	t.Parallel()

	svc, _ := NewService(&stubProductRepo{})
	price := decimal.NewFromInt(-5)
	_, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Name:      "Bracket",
		ListPrice: &price,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetProductNotFound(t *testing.T) {
	t.Parallel()

	svc, _ := NewService(&stubProductRepo{findErr: gorm.ErrRecordNotFound})
	_, err := svc.GetProduct(context.Background(), 9)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestUpdateProductAppliesFields(t *testing.T) {
	t.Parallel()

	repo := &stubProductRepo{
		found: &models.Product{ID: 3, Name: "Old", Description: "old", IsActive: true},
	}
	svc, _ := NewService(repo)

	name := "New Name"
	active := false
	dto, err := svc.UpdateProduct(context.Background(), 3, UpdateProductInput{
		Name:     &name,
		IsActive: &active,
	})
	if err != nil {
		t.Fatalf("UpdateProduct: %v", err)
	}
	if dto.Name != "New Name" || dto.IsActive {
		t.Fatalf("unexpected dto after update: %+v", dto)
	}
	if repo.updated.Description != "old" {
		t.Fatal("expected untouched fields to survive")
	}
}

func TestUpdateProductEmptyNameRejected(t *testing.T) {
	t.Parallel()

	repo := &stubProductRepo{found: &models.Product{ID: 3, Name: "Old"}}
	svc, _ := NewService(repo)

	name := "  "
	_, err := svc.UpdateProduct(context.Background(), 3, UpdateProductInput{Name: &name})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if repo.updated != nil {
		t.Fatal("expected no update call")
	}
}

func TestDeleteProduct(t *testing.T) {
	t.Parallel()

	repo := &stubProductRepo{}
	svc, _ := NewService(repo)
	if err := svc.DeleteProduct(context.Background(), 8); err != nil {
		t.Fatalf("DeleteProduct: %v", err)
	}
	if repo.deletedID != 8 {
		t.Fatalf("expected delete for 8, got %d", repo.deletedID)
	}
}
