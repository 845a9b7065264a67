package product

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/avilamfg/exhibit-backend/pkg/db/models"
	"github.com/avilamfg/exhibit-backend/pkg/pagination"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Product{}))
	return conn
}

func seedProductAt(t *testing.T, conn *gorm.DB, name string, active bool, createdAt time.Time) *models.Product {
	t.Helper()
	record := &models.Product{
		Name:      name,
		IsActive:  active,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	require.NoError(t, conn.Create(record).Error)
	return record
}

func TestProductExists(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	record := seedProductAt(t, conn, "Bracket", true, time.Now().UTC())

	exists, err := repo.ProductExists(ctx, record.ID)
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = repo.ProductExists(ctx, record.ID+100)
	require.NoError(t, err)
	require.False(t, exists)
}

func TestUpdateImageURL(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	record := seedProductAt(t, conn, "Bracket", true, time.Now().UTC())
	require.NoError(t, repo.UpdateImageURL(ctx, record.ID, "https://cdn.example/bracket.png"))

	found, err := repo.FindByID(ctx, record.ID)
	require.NoError(t, err)
	require.NotNil(t, found.ImageURL)
	require.Equal(t, "https://cdn.example/bracket.png", *found.ImageURL)
}

func TestListProductsActiveOnly(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	active := seedProductAt(t, conn, "Active", true, time.Now().UTC().Add(-time.Minute))
	seedProductAt(t, conn, "Hidden", false, time.Now().UTC())

	result, err := repo.ListProducts(ctx, ListProductsInput{
		Pagination: pagination.Params{Limit: 10},
	})
	require.NoError(t, err)
	require.Len(t, result.Products, 1)
	require.Equal(t, active.ID, result.Products[0].ID)

	all, err := repo.ListProducts(ctx, ListProductsInput{
		IncludeInactive: true,
		Pagination:      pagination.Params{Limit: 10},
	})
	require.NoError(t, err)
	require.Len(t, all.Products, 2)
}

func TestListProductsCursor(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedProductAt(t, conn, fmt.Sprintf("P%d", i), true, base.Add(time.Duration(i)*time.Minute))
	}

	firstPage, err := repo.ListProducts(ctx, ListProductsInput{
		Pagination: pagination.Params{Limit: 2},
	})
	require.NoError(t, err)
	require.Len(t, firstPage.Products, 2)
	require.NotEmpty(t, firstPage.NextCursor)
	require.Equal(t, "P4", firstPage.Products[0].Name)

	secondPage, err := repo.ListProducts(ctx, ListProductsInput{
		Pagination: pagination.Params{Limit: 2, Cursor: firstPage.NextCursor},
	})
	require.NoError(t, err)
	require.Len(t, secondPage.Products, 2)
	require.Equal(t, "P2", secondPage.Products[0].Name)

	thirdPage, err := repo.ListProducts(ctx, ListProductsInput{
		Pagination: pagination.Params{Limit: 2, Cursor: secondPage.NextCursor},
	})
	require.NoError(t, err)
	require.Len(t, thirdPage.Products, 1)
	require.Empty(t, thirdPage.NextCursor)
}

func TestListProductsCategoryFilter(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	category := "fasteners"
	record := seedProductAt(t, conn, "Bolt", true, time.Now().UTC())
	require.NoError(t, conn.Model(record).Update("category", category).Error)
	seedProductAt(t, conn, "Sheet", true, time.Now().UTC())

	result, err := repo.ListProducts(ctx, ListProductsInput{
		Category:   &category,
		Pagination: pagination.Params{Limit: 10},
	})
	require.NoError(t, err)
	require.Len(t, result.Products, 1)
	require.Equal(t, "Bolt", result.Products[0].Name)
}
