package pricing

import (
	"strings"

	"github.com/angelmondragon/storefront-pricing/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-pricing/pkg/errors"
)

const (
	ReasonInsufficientStock = "insufficient_stock"
	ReasonVariantRequired   = "variant_required"
)

// CheckStock verifies qty units can be committed: against the variant's stock
// when one is selected, else against the product's own stock.
func CheckStock(product *models.Product, variant *models.ProductVariant, qty int) error {
	if qty < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if variant != nil {
		if variant.Stock < qty {
			return pkgerrors.Domainf(ReasonInsufficientStock, "only %d left in stock for this variant", variant.Stock)
		}
		return nil
	}
	if !product.InStock || product.Quantity < qty {
		available := product.Quantity
		if !product.InStock || available < 0 {
			available = 0
		}
		return pkgerrors.Domainf(ReasonInsufficientStock, "only %d left in stock", available)
	}
	return nil
}

// RequireVariant rejects a line for a product sold in variants when no
// variant was chosen.
func RequireVariant(product *models.Product, variantID string) error {
	if len(product.Variants) > 0 && strings.TrimSpace(variantID) == "" {
		return pkgerrors.Domainf(ReasonVariantRequired, "please select a variant for %s", product.Name)
	}
	return nil
}
