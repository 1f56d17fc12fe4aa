package models

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits money carries.
const MoneyScale = 2

// Money is a derived amount that always renders with MoneyScale digits, so
// "120" goes out as "120.00".
type Money struct {
	decimal.Decimal
}

// NewMoney wraps value for a response field.
func NewMoney(value decimal.Decimal) *Money {
	return &Money{Decimal: value}
}

// MarshalJSON renders the amount as a fixed-point string.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(m.StringFixed(MoneyScale))), nil
}
