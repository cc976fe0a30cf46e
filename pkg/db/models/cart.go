package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-pricing/pkg/enums"
)

// Cart is a shopper's multi-line checkout. The money columns are the last
// computed breakdown and are rewritten on every mutation.
type Cart struct {
	ID             uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID         uuid.UUID            `gorm:"column:user_id;type:uuid;not null"`
	Status         enums.CartStatus     `gorm:"column:status;not null;default:'active'"`
	CouponID       *uuid.UUID           `gorm:"column:coupon_id;type:uuid"`
	ShippingMethod enums.ShippingMethod `gorm:"column:shipping_method;not null;default:'standard'"`
	PaymentMethod  enums.PaymentMethod  `gorm:"column:payment_method;not null;default:'card'"`
	Region         string               `gorm:"column:region;not null;default:''"`
	Totals         TotalsSnapshot       `gorm:"embedded"`
	Items          []CartItem           `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

// TotalsSnapshot caches the last breakdown written onto a cart or buy-now row.
type TotalsSnapshot struct {
	Subtotal    decimal.Decimal `gorm:"column:subtotal;type:numeric(12,2);not null;default:0"`
	Discount    decimal.Decimal `gorm:"column:discount;type:numeric(12,2);not null;default:0"`
	ShippingFee decimal.Decimal `gorm:"column:shipping_fee;type:numeric(12,2);not null;default:0"`
	CODFee      decimal.Decimal `gorm:"column:cod_fee;type:numeric(12,2);not null;default:0"`
	FinalTotal  decimal.Decimal `gorm:"column:final_total;type:numeric(12,2);not null;default:0"`
}
