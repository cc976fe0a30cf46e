package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-pricing/pkg/enums"
)

// Deal is a time-boxed promotional campaign. Scope is IsGlobal or any id listed
// in the product, category or sub-category arrays.
type Deal struct {
	ID             uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name           string                 `gorm:"column:name;not null"`
	DiscountType   enums.DealDiscountType `gorm:"column:discount_type;not null"`
	DiscountValue  decimal.Decimal        `gorm:"column:discount_value;type:numeric(12,2);not null"`
	StartDate      time.Time              `gorm:"column:start_date;not null"`
	EndDate        time.Time              `gorm:"column:end_date;not null"`
	Priority       int                    `gorm:"column:priority;not null;default:0"`
	IsActive       bool                   `gorm:"column:is_active;not null;default:false"`
	IsGlobal       bool                   `gorm:"column:is_global;not null;default:false"`
	ProductIDs     pq.StringArray         `gorm:"column:product_ids;type:text[]"`
	CategoryIDs    pq.StringArray         `gorm:"column:category_ids;type:text[]"`
	SubCategoryIDs pq.StringArray         `gorm:"column:sub_category_ids;type:text[]"`
	CreatedAt      time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
