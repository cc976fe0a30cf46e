package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShippingZone prices delivery for one region. A nil FreeShippingThreshold
// means the zone never ships free.
type ShippingZone struct {
	ID                    uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Region                string           `gorm:"column:region;not null;uniqueIndex"`
	BaseRate              decimal.Decimal  `gorm:"column:base_rate;type:numeric(12,2);not null"`
	ExpressMultiplier     decimal.Decimal  `gorm:"column:express_multiplier;type:numeric(6,3);not null;default:1"`
	RegionMultiplier      decimal.Decimal  `gorm:"column:region_multiplier;type:numeric(6,3);not null;default:1"`
	FreeShippingThreshold *decimal.Decimal `gorm:"column:free_shipping_threshold;type:numeric(12,2)"`
	CreatedAt             time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
