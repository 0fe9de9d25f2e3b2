// Package money implements fixed-point currency arithmetic in integer minor
// units. Amounts cross the package boundary as decimal strings (the on-disk
// and API representation) and are held internally as int64 cents so that
// repeated deposits and withdrawals never accumulate binary rounding drift.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Cents is a currency amount in minor units.
type Cents int64

// Parse converts a decimal string such as "2.50" into cents. The conversion
// is exact: anything that does not land on a whole cent is rejected.
func Parse(s string) (Cents, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	scaled := d.Mul(decimal.New(100, 0))
	if !scaled.IsInteger() {
		return 0, fmt.Errorf("parse amount %q: fractions of a cent are not representable", s)
	}
	if !scaled.BigInt().IsInt64() {
		return 0, fmt.Errorf("parse amount %q: out of range", s)
	}
	return Cents(scaled.IntPart()), nil
}

// String renders the amount as decimal text with two fraction digits,
// e.g. Cents(250).String() == "2.50".
func (c Cents) String() string {
	return decimal.New(int64(c), -2).StringFixed(2)
}
