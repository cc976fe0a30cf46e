package cart

import (
	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-pricing/api/validators"
	cartsvc "github.com/angelmondragon/storefront-pricing/internal/cart"
	"github.com/angelmondragon/storefront-pricing/internal/checkout/helpers"
	"github.com/angelmondragon/storefront-pricing/pkg/enums"
)

const (
	maxVariantIDLen  = 128
	maxCouponCodeLen = 64
	maxRegionLen     = 64
)

type addItemRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity" validate:"min=1"`
	VariantID *string   `json:"variantId"`
}

func (p addItemRequest) toInput(region string) cartsvc.AddItemInput {
	return cartsvc.AddItemInput{
		ProductID: p.ProductID,
		Quantity:  p.Quantity,
		VariantID: validators.SanitizeOptional(p.VariantID, maxVariantIDLen),
		Region:    region,
	}
}

type updateItemRequest struct {
	Quantity  int     `json:"quantity" validate:"min=1"`
	VariantID *string `json:"variantId"`
}

func (p updateItemRequest) toInput() cartsvc.UpdateItemInput {
	return cartsvc.UpdateItemInput{
		Quantity:  p.Quantity,
		VariantID: validators.SanitizeOptional(p.VariantID, maxVariantIDLen),
	}
}

type applyCouponRequest struct {
	Code string `json:"code" validate:"required,coupon_code"`
}

type shippingMethodRequest struct {
	Method string  `json:"method" validate:"required"`
	Region *string `json:"region"`
}

func (p shippingMethodRequest) toInput() (cartsvc.ShippingInput, error) {
	method, err := helpers.ParseShippingMethod(p.Method)
	if err != nil {
		return cartsvc.ShippingInput{}, err
	}
	input := cartsvc.ShippingInput{Method: method}
	if region := validators.SanitizeOptional(p.Region, maxRegionLen); region != nil {
		input.Region = *region
	}
	return input, nil
}

type paymentMethodRequest struct {
	Method string `json:"method" validate:"required"`
}

func (p paymentMethodRequest) toMethod() (enums.PaymentMethod, error) {
	return helpers.ParsePaymentMethod(p.Method)
}
