package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-pricing/pkg/enums"
)

// Coupon is a shopper-entered discount code. UsedCount is the global
// redemption counter; per-user counts live in CouponUsage.
type Coupon struct {
	ID            uuid.UUID                `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code          string                   `gorm:"column:code;not null;uniqueIndex"`
	DiscountType  enums.CouponDiscountType `gorm:"column:discount_type;not null"`
	DiscountValue decimal.Decimal          `gorm:"column:discount_value;type:numeric(12,2);not null"`
	MinCartValue  *decimal.Decimal         `gorm:"column:min_cart_value;type:numeric(12,2)"`
	MaxDiscount   *decimal.Decimal         `gorm:"column:max_discount;type:numeric(12,2)"`
	UsageLimit    *int                     `gorm:"column:usage_limit"`
	PerUserLimit  *int                     `gorm:"column:per_user_limit"`
	UsedCount     int                      `gorm:"column:used_count;not null;default:0"`
	StartDate     *time.Time               `gorm:"column:start_date"`
	ExpiryDate    *time.Time               `gorm:"column:expiry_date"`
	CreatedAt     time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}

// CouponUsage counts redemptions of one coupon by one user.
type CouponUsage struct {
	CouponID  uuid.UUID `gorm:"column:coupon_id;type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey"`
	Count     int       `gorm:"column:count;not null;default:0"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
