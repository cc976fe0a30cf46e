package enums

import "fmt"

// CartStatus is the lifecycle state of a cart row. Only active carts are
// priced and mutated; converted carts are kept for order history.
type CartStatus string

const (
	CartStatusActive    CartStatus = "active"
	CartStatusConverted CartStatus = "converted"
)

func (c CartStatus) String() string {
	return string(c)
}

func (c CartStatus) IsValid() bool {
	return c == CartStatusActive || c == CartStatusConverted
}

// Editable reports whether lines, coupon and selections may still change.
func (c CartStatus) Editable() bool {
	return c == CartStatusActive
}

// MarshalText refuses to serialise an unknown status. The empty status of a
// not yet persisted cart encodes as "".
func (c CartStatus) MarshalText() ([]byte, error) {
	if c != "" && !c.IsValid() {
		return nil, fmt.Errorf("invalid cart status %q", string(c))
	}
	return []byte(c), nil
}

func (c *CartStatus) UnmarshalText(text []byte) error {
	parsed, err := ParseCartStatus(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCartStatus converts raw input into a CartStatus.
func ParseCartStatus(value string) (CartStatus, error) {
	if status := CartStatus(value); status.IsValid() {
		return status, nil
	}
	return "", fmt.Errorf("invalid cart status %q", value)
}
