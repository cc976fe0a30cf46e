package helpers

import (
	"strings"

	"github.com/angelmondragon/storefront-pricing/internal/pricing"
	"github.com/angelmondragon/storefront-pricing/internal/variants"
	"github.com/angelmondragon/storefront-pricing/pkg/db/models"
	"github.com/angelmondragon/storefront-pricing/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-pricing/pkg/errors"
)

// LineSelection is a validated (variant, quantity) choice for one product.
type LineSelection struct {
	VariantID *string
	Variant   *models.ProductVariant
	Quantity  int
}

// ValidateLine canonicalizes rawVariantID against the product's variants and
// verifies qty units are in stock. Products sold in variants require one.
func ValidateLine(product *models.Product, rawVariantID *string, qty int) (LineSelection, error) {
	if product == nil {
		return LineSelection{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if qty < 1 {
		return LineSelection{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	raw := ""
	if rawVariantID != nil {
		raw = strings.TrimSpace(*rawVariantID)
	}
	if err := pricing.RequireVariant(product, raw); err != nil {
		return LineSelection{}, err
	}

	sel := LineSelection{Quantity: qty}
	if raw != "" {
		canonical, err := variants.Canonicalize(product.Variants, raw)
		if err != nil {
			return LineSelection{}, err
		}
		sel.VariantID = &canonical
		sel.Variant = variants.Resolve(product.Variants, canonical)
	}

	if err := pricing.CheckStock(product, sel.Variant, qty); err != nil {
		return LineSelection{}, err
	}
	return sel, nil
}

// ParseShippingMethod maps raw input to a ShippingMethod or a validation error.
func ParseShippingMethod(value string) (enums.ShippingMethod, error) {
	method, err := enums.ParseShippingMethod(value)
	if err != nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "shipping method must be standard or express")
	}
	return method, nil
}

// ParsePaymentMethod maps raw input to a PaymentMethod or a validation error.
func ParsePaymentMethod(value string) (enums.PaymentMethod, error) {
	method, err := enums.ParsePaymentMethod(value)
	if err != nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "payment method must be card or cod")
	}
	return method, nil
}

// NormalizeRegion lower-cases region, falling back when it is blank.
func NormalizeRegion(region, fallback string) string {
	normalized := strings.ToLower(strings.TrimSpace(region))
	if normalized == "" {
		return strings.ToLower(strings.TrimSpace(fallback))
	}
	return normalized
}

// SameVariant reports whether two optional canonical variant ids are equal.
func SameVariant(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
