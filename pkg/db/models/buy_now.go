package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-pricing/pkg/enums"
)

// BuyNow is the single-line express checkout; one row per user.
type BuyNow struct {
	ID             uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID         uuid.UUID            `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	ProductID      uuid.UUID            `gorm:"column:product_id;type:uuid;not null"`
	Quantity       int                  `gorm:"column:quantity;not null"`
	VariantID      *string              `gorm:"column:variant_id"`
	CouponID       *uuid.UUID           `gorm:"column:coupon_id;type:uuid"`
	ShippingMethod enums.ShippingMethod `gorm:"column:shipping_method;not null;default:'standard'"`
	PaymentMethod  enums.PaymentMethod  `gorm:"column:payment_method;not null;default:'card'"`
	Region         string               `gorm:"column:region;not null;default:''"`
	Totals         TotalsSnapshot       `gorm:"embedded"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

func (BuyNow) TableName() string {
	return "buy_now_sessions"
}
