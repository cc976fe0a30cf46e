package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the catalog listing read by the pricing pipeline.
type Product struct {
	ID                  uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name                string           `gorm:"column:name;not null"`
	CategoryID          *uuid.UUID       `gorm:"column:category_id;type:uuid"`
	SubCategoryID       *uuid.UUID       `gorm:"column:sub_category_id;type:uuid"`
	Price               decimal.Decimal  `gorm:"column:price;type:numeric(12,2);not null"`
	SalePrice           *decimal.Decimal `gorm:"column:sale_price;type:numeric(12,2)"`
	LegacyDiscountPrice *decimal.Decimal `gorm:"column:discount_price;type:numeric(12,2)"`
	OnSale              bool             `gorm:"column:on_sale;not null;default:false"`
	SaleStart           *time.Time       `gorm:"column:sale_start"`
	SaleEnd             *time.Time       `gorm:"column:sale_end"`
	InStock             bool             `gorm:"column:in_stock;not null;default:true"`
	Quantity            int              `gorm:"column:quantity;not null;default:0"`
	MainImage           *string          `gorm:"column:main_image"`
	MediaOriginal       *string          `gorm:"column:media_original_url"`
	MediaThumbnail      *string          `gorm:"column:media_thumbnail_url"`
	Variants            []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt           time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// OwnSalePrice returns the product's own sale price, preferring the current
// column over the legacy discount_price alias.
func (p *Product) OwnSalePrice() *decimal.Decimal {
	if p.SalePrice != nil {
		return p.SalePrice
	}
	return p.LegacyDiscountPrice
}
