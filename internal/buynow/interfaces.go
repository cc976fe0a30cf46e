package buynow

import (
	"context"

	"github.com/angelmondragon/storefront-pricing/internal/totals"
	"github.com/angelmondragon/storefront-pricing/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SessionRepository defines the persistence surface required by the buy-now service.
type SessionRepository interface {
	WithTx(tx *gorm.DB) SessionRepository
	FindByUser(ctx context.Context, userID uuid.UUID) (*models.BuyNow, error)
	Create(ctx context.Context, session *models.BuyNow) error
	Update(ctx context.Context, session *models.BuyNow) error
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
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
