package buynow

import (
	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-pricing/api/validators"
	buynowsvc "github.com/angelmondragon/storefront-pricing/internal/buynow"
	"github.com/angelmondragon/storefront-pricing/internal/checkout/helpers"
)

const (
	maxVariantIDLen  = 128
	maxCouponCodeLen = 64
	maxRegionLen     = 64
)

type startRequest struct {
	ProductID      uuid.UUID `json:"productId" validate:"required"`
	Quantity       int       `json:"quantity" validate:"min=1"`
	VariantID      *string   `json:"variantId"`
	ShippingMethod *string   `json:"shippingMethod"`
	PaymentMethod  *string   `json:"paymentMethod"`
	Region         *string   `json:"region"`
}

// toInput leaves absent methods empty so the service applies its defaults.
func (p startRequest) toInput(tokenRegion string) (buynowsvc.StartInput, error) {
	input := buynowsvc.StartInput{
		ProductID: p.ProductID,
		Quantity:  p.Quantity,
		VariantID: validators.SanitizeOptional(p.VariantID, maxVariantIDLen),
		Region:    tokenRegion,
	}
	if p.ShippingMethod != nil {
		method, err := helpers.ParseShippingMethod(*p.ShippingMethod)
		if err != nil {
			return buynowsvc.StartInput{}, err
		}
		input.ShippingMethod = method
	}
	if p.PaymentMethod != nil {
		method, err := helpers.ParsePaymentMethod(*p.PaymentMethod)
		if err != nil {
			return buynowsvc.StartInput{}, err
		}
		input.PaymentMethod = method
	}
	if region := validators.SanitizeOptional(p.Region, maxRegionLen); region != nil {
		input.Region = *region
	}
	return input, nil
}

type applyCouponRequest struct {
	Code string `json:"code" validate:"required,coupon_code"`
}

type shippingMethodRequest struct {
	Method string  `json:"method" validate:"required"`
	Region *string `json:"region"`
}

type paymentMethodRequest struct {
	Method string `json:"method" validate:"required"`
}
