// internal/services/product_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoplane/shoplane-backend/internal/utils"
)

func TestCreateProductSlug(t *testing.T) {
	db := setupTestDB(t)
	svc := NewProductService(db)

	product, err := svc.CreateProduct(&CreateProductRequest{
		Name:        "Blue Denim Shirt",
		Description: "A comfortable everyday shirt",
		Category:    "clothing",
		Price:       19.99,
		Stock:       10,
	})
	require.NoError(t, err)
	assert.Equal(t, "blue-denim-shirt", product.Slug)

	// Same name means same slug: rejected.
	_, err = svc.CreateProduct(&CreateProductRequest{
		Name:        "Blue Denim Shirt",
		Description: "A different description entirely",
		Category:    "clothing",
		Price:       24.99,
		Stock:       5,
	})
	assert.ErrorIs(t, err, ErrSlugTaken)

	found, err := svc.GetProductBySlug("blue-denim-shirt")
	require.NoError(t, err)
	assert.Equal(t, product.ID, found.ID)
}

func TestSearchProducts(t *testing.T) {
	db := setupTestDB(t)
	svc := NewProductService(db)

	createTestProduct(t, db, "Blue Shirt", 19.99, 10)
	createTestProduct(t, db, "Red Shirt", 24.99, 0)
	createTestProduct(t, db, "Coffee Mug", 7.50, 3)

	products, total, err := svc.SearchProducts(ProductSearchParams{
		PaginationParams: utils.PaginationParams{Page: 1, Limit: 20, Search: "shirt"},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, products, 2)

	inStock := true
	products, total, err = svc.SearchProducts(ProductSearchParams{
		PaginationParams: utils.PaginationParams{Page: 1, Limit: 20, Search: "shirt"},
		InStock:          &inStock,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, products, 1)
	assert.Equal(t, "Blue Shirt", products[0].Name)

	maxPrice := 10.0
	_, total, err = svc.SearchProducts(ProductSearchParams{
		PaginationParams: utils.PaginationParams{Page: 1, Limit: 20},
		PriceMax:         &maxPrice,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestUpdateProductRenameChangesSlug(t *testing.T) {
	db := setupTestDB(t)
	svc := NewProductService(db)

	product, err := svc.CreateProduct(&CreateProductRequest{
		Name:        "Blue Denim Shirt",
		Description: "A comfortable everyday shirt",
		Category:    "clothing",
		Price:       19.99,
		Stock:       10,
	})
	require.NoError(t, err)

	updated, err := svc.UpdateProduct(product.ID, &UpdateProductRequest{Name: "Indigo Denim Shirt"})
	require.NoError(t, err)
	assert.Equal(t, "indigo-denim-shirt", updated.Slug)

	_, err = svc.GetProductBySlug("blue-denim-shirt")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestDeleteProduct(t *testing.T) {
	db := setupTestDB(t)
	svc := NewProductService(db)

	product := createTestProduct(t, db, "Blue Shirt", 19.99, 10)

	require.NoError(t, svc.DeleteProduct(product.ID))
	assert.ErrorIs(t, svc.DeleteProduct(product.ID), ErrProductNotFound)
}
