package cart

import (
	"context"

	"github.com/angelmondragon/storefront-pricing/internal/coupons"
	"github.com/angelmondragon/storefront-pricing/internal/totals"
	"github.com/angelmondragon/storefront-pricing/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CartRepository defines the persistence surface required by the cart service.
type CartRepository interface {
	WithTx(tx *gorm.DB) CartRepository
	FindActiveByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	Create(ctx context.Context, cart *models.Cart) error
	Update(ctx context.Context, cart *models.Cart) error
	ReplaceItems(ctx context.Context, cartID uuid.UUID, items []models.CartItem) error
	Delete(ctx context.Context, cartID uuid.UUID) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type couponManager interface {
	Lookup(ctx context.Context, code string) (*models.Coupon, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Coupon, error)
	Redeem(ctx context.Context, couponID, userID uuid.UUID) error
	Release(ctx context.Context, couponID, userID uuid.UUID) error
}

type totalsComputer interface {
	Compute(ctx context.Context, req totals.Request) (*totals.Breakdown, error)
}

var (
	_ couponManager  = (*coupons.Service)(nil)
	_ totalsComputer = (*totals.Orchestrator)(nil)
)
