package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductVariant is a purchasable configuration of a product. ID is an opaque
// string minted when the product is saved.
type ProductVariant struct {
	ID        string           `gorm:"column:id;primaryKey"`
	ProductID uuid.UUID        `gorm:"column:product_id;type:uuid;not null"`
	Position  int              `gorm:"column:position;not null;default:0"`
	SKU       string           `gorm:"column:sku;not null;default:''"`
	Price     *decimal.Decimal `gorm:"column:price;type:numeric(12,2)"`
	Stock     int              `gorm:"column:stock;not null;default:0"`
	Image     *string          `gorm:"column:image"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
