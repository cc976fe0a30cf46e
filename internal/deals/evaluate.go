// Package deals selects the best time-boxed campaign discount for a product.
package deals

import (
	"strings"
	"time"

	"github.com/angelmondragon/storefront-pricing/pkg/db/models"
	"github.com/angelmondragon/storefront-pricing/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MoneyPlaces is the scale every computed price is rounded to.
const MoneyPlaces = 2

var hundred = decimal.NewFromInt(100)

// Evaluation is the product-level pricing outcome before variants are considered.
// DealPrice and AppliedDealID are nil when no deal beats OriginalPrice.
type Evaluation struct {
	OriginalPrice decimal.Decimal
	DealPrice     *decimal.Decimal
	AppliedDealID *uuid.UUID
}

// EffectivePrice is the deal price when one applies, else the original price.
func (e Evaluation) EffectivePrice() decimal.Decimal {
	if e.DealPrice != nil {
		return *e.DealPrice
	}
	return e.OriginalPrice
}

// DiscountRate is the fraction taken off OriginalPrice by the applied deal, in [0, 1].
func (e Evaluation) DiscountRate() decimal.Decimal {
	if e.DealPrice == nil || !e.OriginalPrice.IsPositive() {
		return decimal.Zero
	}
	return e.OriginalPrice.Sub(*e.DealPrice).Div(e.OriginalPrice)
}

// Evaluate picks the applicable deal yielding the lowest price. Deal discounts
// are taken off the list price and must undercut OriginalPrice, so a deal
// only wins when it beats the product's own sale. activeDeals must already be
// ordered by priority, highest first; on a price tie the earlier deal is kept.
// Evaluate performs no I/O.
func Evaluate(product *models.Product, activeDeals []models.Deal, now time.Time) Evaluation {
	result := Evaluation{OriginalPrice: OriginalPrice(product, now)}
	if product == nil {
		return result
	}

	var (
		bestPrice decimal.Decimal
		bestID    uuid.UUID
		found     bool
	)
	for i := range activeDeals {
		deal := &activeDeals[i]
		if !IsLive(deal, now) || !Applies(deal, product) {
			continue
		}
		candidate, ok := candidatePrice(deal, product.Price)
		if !ok || !candidate.LessThan(result.OriginalPrice) {
			continue
		}
		if !found || candidate.LessThan(bestPrice) {
			bestPrice = candidate
			bestID = deal.ID
			found = true
		}
	}

	if found {
		result.DealPrice = &bestPrice
		result.AppliedDealID = &bestID
	}
	return result
}

// OriginalPrice is the product's own sale price while on sale and inside the
// sale window, else its base price.
func OriginalPrice(product *models.Product, now time.Time) decimal.Decimal {
	if product == nil {
		return decimal.Zero
	}
	sale := product.OwnSalePrice()
	if !product.OnSale || sale == nil || product.SaleStart == nil || product.SaleEnd == nil {
		return product.Price
	}
	if now.Before(*product.SaleStart) || now.After(*product.SaleEnd) {
		return product.Price
	}
	if !sale.LessThan(product.Price) {
		return product.Price
	}
	return *sale
}

// IsLive reports whether now falls inside the deal's [StartDate, EndDate] window.
func IsLive(deal *models.Deal, now time.Time) bool {
	return !now.Before(deal.StartDate) && !now.After(deal.EndDate)
}

// Applies reports whether the deal's scope covers the product.
func Applies(deal *models.Deal, product *models.Product) bool {
	if deal.IsGlobal {
		return true
	}
	if contains(deal.ProductIDs, product.ID.String()) {
		return true
	}
	if product.CategoryID != nil && contains(deal.CategoryIDs, product.CategoryID.String()) {
		return true
	}
	if product.SubCategoryID != nil && contains(deal.SubCategoryIDs, product.SubCategoryID.String()) {
		return true
	}
	return false
}

func candidatePrice(deal *models.Deal, list decimal.Decimal) (decimal.Decimal, bool) {
	value := deal.DiscountValue
	if value.IsNegative() {
		return decimal.Zero, false
	}
	var price decimal.Decimal
	switch {
	case deal.DiscountType == enums.DealDiscountPercentage:
		price = list.Mul(decimal.NewFromInt(1).Sub(value.Div(hundred)))
	case deal.DiscountType.IsAmount():
		price = list.Sub(value)
	default:
		return decimal.Zero, false
	}
	if price.IsNegative() {
		price = decimal.Zero
	}
	return price.Round(MoneyPlaces), true
}

func contains(values []string, needle string) bool {
	for _, v := range values {
		if strings.EqualFold(strings.TrimSpace(v), needle) {
			return true
		}
	}
	return false
}
