// Package shipping prices delivery and the cash-on-delivery surcharge.
package shipping

import (
	"github.com/angelmondragon/storefront-pricing/pkg/db/models"
	"github.com/angelmondragon/storefront-pricing/pkg/enums"
	"github.com/shopspring/decimal"
)

// Fees is the delivery portion of a breakdown.
type Fees struct {
	ShippingFee decimal.Decimal
	CODFee      decimal.Decimal
}

// Calculator applies zone rates and the configured COD surcharge.
type Calculator struct {
	codFee decimal.Decimal
}

// NewCalculator builds a calculator charging codFee on cash-on-delivery orders.
func NewCalculator(codFee decimal.Decimal) *Calculator {
	if codFee.IsNegative() {
		codFee = decimal.Zero
	}
	return &Calculator{codFee: codFee}
}

// Compute returns baseRate x (express multiplier for express) x region
// multiplier, waived once subtotalAfterDiscount reaches the zone's free
// shipping threshold. COD adds the flat surcharge.
func (c *Calculator) Compute(method enums.ShippingMethod, zone *models.ShippingZone, subtotalAfterDiscount decimal.Decimal, payment enums.PaymentMethod) Fees {
	fees := Fees{ShippingFee: decimal.Zero, CODFee: decimal.Zero}
	if payment.CollectsOnDelivery() {
		fees.CODFee = c.codFee
	}
	if zone == nil {
		return fees
	}
	if zone.FreeShippingThreshold != nil && subtotalAfterDiscount.GreaterThanOrEqual(*zone.FreeShippingThreshold) {
		return fees
	}

	fee := zone.BaseRate
	if method.Expedited() {
		fee = fee.Mul(zone.ExpressMultiplier)
	}
	fee = fee.Mul(zone.RegionMultiplier).Round(2)
	if fee.IsNegative() {
		fee = decimal.Zero
	}
	fees.ShippingFee = fee
	return fees
}
