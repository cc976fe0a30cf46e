package enums

import "fmt"

// CouponRejection names the validation step a coupon failed.
type CouponRejection string

const (
	CouponRejectionExpired           CouponRejection = "coupon_expired"
	CouponRejectionNotStarted        CouponRejection = "coupon_not_started"
	CouponRejectionBelowMinimum      CouponRejection = "coupon_below_minimum"
	CouponRejectionUsageLimitReached CouponRejection = "coupon_usage_limit_reached"
	CouponRejectionPerUserLimit      CouponRejection = "coupon_per_user_limit_reached"
)

var validCouponRejections = []CouponRejection{
	CouponRejectionExpired,
	CouponRejectionNotStarted,
	CouponRejectionBelowMinimum,
	CouponRejectionUsageLimitReached,
	CouponRejectionPerUserLimit,
}

var couponRejectionMessages = map[CouponRejection]string{
	CouponRejectionExpired:           "coupon has expired",
	CouponRejectionNotStarted:        "coupon is not active yet",
	CouponRejectionBelowMinimum:      "cart value is below the coupon minimum",
	CouponRejectionUsageLimitReached: "coupon usage limit reached",
	CouponRejectionPerUserLimit:      "coupon already used the maximum number of times",
}

// String implements fmt.Stringer.
func (c CouponRejection) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CouponRejection.
func (c CouponRejection) IsValid() bool {
	for _, candidate := range validCouponRejections {
		if candidate == c {
			return true
		}
	}
	return false
}

// Message returns the shopper-facing explanation for the rejection.
func (c CouponRejection) Message() string {
	if msg, ok := couponRejectionMessages[c]; ok {
		return msg
	}
	return "coupon is not applicable"
}

// ParseCouponRejection converts raw input into a CouponRejection.
func ParseCouponRejection(value string) (CouponRejection, error) {
	for _, candidate := range validCouponRejections {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid coupon rejection %q", value)
}
