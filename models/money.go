package models

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Amount is a fixed-point monetary value. It is persisted as its canonical
// decimal string so binary floating point never touches the database and
// aggregation never accumulates rounding drift.
type Amount struct {
	decimal.Decimal
}

// minorUnits maps ISO currency codes to their minor-unit precision. Unlisted
// currencies fall back to two places.
var minorUnits = map[string]int32{
	"GHS": 2,
	"NGN": 2,
	"KES": 2,
	"USD": 2,
	"EUR": 2,
	"XOF": 0,
}

// MinorUnitPlaces returns the number of decimal places for a currency.
func MinorUnitPlaces(currency string) int32 {
	if places, ok := minorUnits[currency]; ok {
		return places
	}
	return 2
}

// NewAmount wraps a decimal as an Amount.
func NewAmount(d decimal.Decimal) Amount {
	return Amount{Decimal: d}
}

// AmountFromString parses a decimal string such as "95.00".
func AmountFromString(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Amount{Decimal: d}, nil
}

// MustAmount parses a decimal string and panics on failure. Intended for
// constants and test fixtures only.
func MustAmount(s string) Amount {
	a, err := AmountFromString(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Add returns a + b.
func (a Amount) Add(b Amount) Amount {
	return Amount{Decimal: a.Decimal.Add(b.Decimal)}
}

// Sub returns a - b.
func (a Amount) Sub(b Amount) Amount {
	return Amount{Decimal: a.Decimal.Sub(b.Decimal)}
}

// IsZero reports whether the amount equals zero.
func (a Amount) IsZero() bool {
	return a.Decimal.IsZero()
}

// Equal reports value equality regardless of exponent representation.
func (a Amount) Equal(b Amount) bool {
	return a.Decimal.Equal(b.Decimal)
}

// MarshalBSONValue stores the amount as a decimal string.
func (a Amount) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(a.Decimal.String())
}

// UnmarshalBSONValue reads the amount back from its stored string form.
func (a *Amount) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	var raw string
	if err := bson.UnmarshalValue(t, data, &raw); err != nil {
		return fmt.Errorf("amount: cannot decode bson value: %w", err)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("amount: invalid stored value %q: %w", raw, err)
	}
	a.Decimal = d
	return nil
}
