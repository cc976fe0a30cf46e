package checkoutdto

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Money renders an amount as a decimal string with two places.
type Money decimal.Decimal

func (m Money) Decimal() decimal.Decimal { return decimal.Decimal(m) }

func (m Money) String() string { return decimal.Decimal(m).StringFixed(2) }

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	*m = Money(d)
	return nil
}

func moneyPtr(d *decimal.Decimal) *Money {
	if d == nil {
		return nil
	}
	m := Money(*d)
	return &m
}
