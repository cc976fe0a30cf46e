package enums

import (
	"fmt"
	"strings"
)

// DealDiscountType controls how a deal reduces the original price.
type DealDiscountType string

const (
	DealDiscountPercentage DealDiscountType = "percentage"
	DealDiscountFixed      DealDiscountType = "fixed"
	DealDiscountFlat       DealDiscountType = "flat"
)

var validDealDiscountTypes = []DealDiscountType{
	DealDiscountPercentage,
	DealDiscountFixed,
	DealDiscountFlat,
}

// String implements fmt.Stringer.
func (d DealDiscountType) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DealDiscountType.
func (d DealDiscountType) IsValid() bool {
	for _, candidate := range validDealDiscountTypes {
		if candidate == d {
			return true
		}
	}
	return false
}

// IsAmount reports whether the deal subtracts an absolute amount.
func (d DealDiscountType) IsAmount() bool {
	return d == DealDiscountFixed || d == DealDiscountFlat
}

// ParseDealDiscountType converts raw input into a DealDiscountType.
func ParseDealDiscountType(value string) (DealDiscountType, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validDealDiscountTypes {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid deal discount type %q", value)
}

// CouponDiscountType controls how a coupon reduces the cart subtotal.
type CouponDiscountType string

const (
	CouponDiscountPercentage CouponDiscountType = "percentage"
	CouponDiscountFixed      CouponDiscountType = "fixed"
)

var validCouponDiscountTypes = []CouponDiscountType{
	CouponDiscountPercentage,
	CouponDiscountFixed,
}

// String implements fmt.Stringer.
func (c CouponDiscountType) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CouponDiscountType.
func (c CouponDiscountType) IsValid() bool {
	for _, candidate := range validCouponDiscountTypes {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCouponDiscountType converts raw input into a CouponDiscountType.
// "flat" is accepted as a legacy spelling of fixed.
func ParseCouponDiscountType(value string) (CouponDiscountType, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "flat" {
		return CouponDiscountFixed, nil
	}
	for _, candidate := range validCouponDiscountTypes {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid coupon discount type %q", value)
}
