// Package pricing turns a (product, variant) pair into one chargeable unit price.
package pricing

import (
	"strings"
	"time"

	"github.com/angelmondragon/storefront-pricing/internal/deals"
	"github.com/angelmondragon/storefront-pricing/internal/variants"
	"github.com/angelmondragon/storefront-pricing/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Resolution is the per-unit price of one line plus what produced it. When a
// priced variant is selected, OriginalPrice and DealPrice describe the variant.
type Resolution struct {
	UnitPrice     decimal.Decimal
	OriginalPrice decimal.Decimal
	DealPrice     *decimal.Decimal
	AppliedDealID *uuid.UUID
	Variant       *models.ProductVariant
	Image         *string
}

// Resolve prices the product, applying the best live deal and, when variantID
// is set, the variant's own price discounted at the product-level deal rate.
// An unresolvable variantID returns a not-found error.
func Resolve(product *models.Product, variantID string, activeDeals []models.Deal, now time.Time) (Resolution, error) {
	eval := deals.Evaluate(product, activeDeals, now)

	var variant *models.ProductVariant
	if id := strings.TrimSpace(variantID); id != "" {
		variant = variants.Resolve(product.Variants, id)
		if variant == nil {
			return Resolution{}, variants.NotFound()
		}
	}

	res := Resolution{
		UnitPrice:     eval.EffectivePrice(),
		OriginalPrice: eval.OriginalPrice,
		DealPrice:     eval.DealPrice,
		AppliedDealID: eval.AppliedDealID,
		Variant:       variant,
		Image:         variants.ResolveImage(product, variant),
	}

	if variant != nil && variant.Price != nil {
		res.OriginalPrice = *variant.Price
		res.UnitPrice = *variant.Price
		res.DealPrice = nil
		if eval.DealPrice != nil {
			discounted := variant.Price.Mul(decimal.NewFromInt(1).Sub(eval.DiscountRate())).Round(deals.MoneyPlaces)
			res.UnitPrice = discounted
			res.DealPrice = &discounted
		}
	}
	return res, nil
}
