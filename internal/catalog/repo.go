package catalog

import (
	"context"
	"fmt"

	"github.com/angelmondragon/storefront-pricing/internal/repo"
	"github.com/angelmondragon/storefront-pricing/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-pricing/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository reads products and their variants for pricing.
type Repository struct {
	repo.Base
}

// NewRepository constructs a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: r.Bind(tx)}
}

func preloadVariants(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// FindByID loads one product with variants ordered by position.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.DB(ctx).
		Preload("Variants", preloadVariants).
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, repo.Translate(err, "product", "load product")
	}
	return &product, nil
}

// FindByIDs loads every requested product in one query. Missing ids are simply
// absent from the result; callers decide whether that is fatal.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Product, error) {
	out := make(map[uuid.UUID]*models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var rows []models.Product
	err := r.DB(ctx).
		Preload("Variants", preloadVariants).
		Where("id IN ?", dedupe(ids)).
		Find(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load products")
	}
	for i := range rows {
		out[rows[i].ID] = &rows[i]
	}
	return out, nil
}

// Create persists a product and its variants, minting variant ids first.
func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	if product == nil {
		return fmt.Errorf("product required")
	}
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	AssignVariantIDs(product)
	return r.DB(ctx).Create(product).Error
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
