package catalog

import (
	"context"
	"testing"

	"github.com/angelmondragon/storefront-pricing/internal/testdb"
	"github.com/angelmondragon/storefront-pricing/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-pricing/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProduct(name string, price int64, variants ...models.ProductVariant) *models.Product {
	return &models.Product{
		Name:     name,
		Price:    decimal.NewFromInt(price),
		InStock:  true,
		Quantity: 10,
		Variants: variants,
	}
}

func variantAt(price int64, stock int) models.ProductVariant {
	p := decimal.NewFromInt(price)
	return models.ProductVariant{Price: &p, Stock: stock}
}

func TestRepositoryCreateAssignsVariantIdentity(t *testing.T) {
	db := testdb.Open(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := newProduct("phone", 1000, variantAt(500, 3), variantAt(700, 0))
	require.NoError(t, repo.Create(ctx, product))

	loaded, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Variants, 2)
	assert.NotEmpty(t, loaded.Variants[0].ID)
	assert.NotEqual(t, loaded.Variants[0].ID, loaded.Variants[1].ID)
	assert.Equal(t, 0, loaded.Variants[0].Position)
	assert.Equal(t, 1, loaded.Variants[1].Position)
	assert.True(t, loaded.Variants[0].Price.Equal(decimal.NewFromInt(500)))
}

func TestRepositoryFindByIDNotFound(t *testing.T) {
	db := testdb.Open(t)
	repo := NewRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestRepositoryFindByIDsBatches(t *testing.T) {
	db := testdb.Open(t)
	repo := NewRepository(db)
	ctx := context.Background()

	a := newProduct("a", 100)
	b := newProduct("b", 200, variantAt(250, 1))
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	missing := uuid.New()
	found, err := repo.FindByIDs(ctx, []uuid.UUID{a.ID, b.ID, a.ID, missing})
	require.NoError(t, err)
	assert.Len(t, found, 2)
	assert.Equal(t, "a", found[a.ID].Name)
	assert.Len(t, found[b.ID].Variants, 1)
	_, ok := found[missing]
	assert.False(t, ok)

	empty, err := repo.FindByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestAssignVariantIDsKeepsExisting(t *testing.T) {
	product := newProduct("p", 10,
		models.ProductVariant{ID: "keep-me"},
		models.ProductVariant{},
	)
	product.ID = uuid.New()

	AssignVariantIDs(product)

	assert.Equal(t, "keep-me", product.Variants[0].ID)
	assert.NotEmpty(t, product.Variants[1].ID)
	assert.Equal(t, product.ID, product.Variants[1].ProductID)
	assert.Equal(t, 1, product.Variants[1].Position)
}
