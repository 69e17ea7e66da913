package catalog_test

import (
	"context"
	"testing"

	"github.com/eworkforce/malabro-cart/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *catalog.Repository {
	// Use in-memory database for tests
	repo, err := catalog.NewRepository(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	require.NoError(t, repo.RunMigrations("../../migrations"))
	return repo
}

func TestListProducts_ReturnsSeed(t *testing.T) {
	repo := setupTestDB(t)

	products, err := repo.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 5)

	assert.Equal(t, "Riz local", products[0].Name)
	assert.Equal(t, 1000.0, products[0].Price)
	assert.Equal(t, 50, products[0].StockQuantity)
	require.NotNil(t, products[0].UnitOfMeasure)
	assert.Equal(t, "Kg", products[0].UnitOfMeasure.Abbreviation)
}

func TestGetProduct_Found(t *testing.T) {
	repo := setupTestDB(t)

	p, err := repo.GetProduct(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "Charbon de bois", p.Name)
	assert.Equal(t, 3500.0, p.Price)
	require.NotNil(t, p.UnitOfMeasure)
	assert.Equal(t, "Sac", p.UnitOfMeasure.Name)
}

func TestGetProduct_NotFound(t *testing.T) {
	repo := setupTestDB(t)

	_, err := repo.GetProduct(context.Background(), 999)
	assert.ErrorIs(t, err, catalog.ErrProductNotFound)
}

func TestGetProduct_CancelledContext(t *testing.T) {
	repo := setupTestDB(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.GetProduct(ctx, 1)
	assert.Error(t, err)
}
