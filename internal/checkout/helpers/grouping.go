package helpers

import (
	"github.com/angelmondragon/storefront-pricing/internal/totals"
	"github.com/angelmondragon/storefront-pricing/pkg/db/models"
	"github.com/google/uuid"
)

// LinesFromCartItems converts persisted cart items into totals line references.
func LinesFromCartItems(items []models.CartItem) []totals.Line {
	lines := make([]totals.Line, 0, len(items))
	for _, item := range items {
		lines = append(lines, totals.Line{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			VariantID: item.VariantID,
		})
	}
	return lines
}

// FindCartItem returns the index of the line for (productID, variantID), or -1.
func FindCartItem(items []models.CartItem, productID uuid.UUID, variantID *string) int {
	for i := range items {
		if items[i].ProductID == productID && SameVariant(items[i].VariantID, variantID) {
			return i
		}
	}
	return -1
}

// FindFirstCartItem returns the index of the first line for productID, or -1.
func FindFirstCartItem(items []models.CartItem, productID uuid.UUID) int {
	for i := range items {
		if items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// QuantityFor sums the quantity already held for (productID, variantID).
func QuantityFor(items []models.CartItem, productID uuid.UUID, variantID *string) int {
	total := 0
	for _, item := range items {
		if item.ProductID == productID && SameVariant(item.VariantID, variantID) {
			total += item.Quantity
		}
	}
	return total
}
