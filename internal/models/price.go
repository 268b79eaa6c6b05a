package models

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

// PriceScale is the number of ticks in one unit of price. Prices carry four
// decimal places, so 1.0 is 10000 ticks.
const PriceScale = 10000

// MaxPrice is the highest price a contract on a binary outcome can trade at.
const MaxPrice Price = PriceScale

var (
	scaleFactor = decimal.NewFromInt(PriceScale)
	maxTicks    = decimal.NewFromInt(math.MaxInt64)
	minTicks    = decimal.NewFromInt(math.MinInt64)
)

// Price is a contract price in integer ticks.
type Price int64

// ParsePrice converts a decimal string such as "0.55" into ticks.
func ParsePrice(s string) (Price, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	return PriceFromDecimal(d)
}

// PriceFromDecimal converts a decimal price into ticks. Values with more than
// four decimal places are rejected rather than rounded.
func PriceFromDecimal(d decimal.Decimal) (Price, error) {
	scaled := d.Mul(scaleFactor)
	if !scaled.IsInteger() {
		return 0, errors.New("price has more than 4 decimal places")
	}
	if scaled.GreaterThan(maxTicks) || scaled.LessThan(minTicks) {
		return 0, errors.New("price out of range")
	}
	return Price(scaled.IntPart()), nil
}

// Decimal returns the price as a decimal in units.
func (p Price) Decimal() decimal.Decimal {
	return decimal.New(int64(p), -4)
}

// InRange reports whether p is a valid limit price, 0 < p <= 1.
func (p Price) InRange() bool {
	return p > 0 && p <= MaxPrice
}

func (p Price) String() string {
	return p.Decimal().String()
}

func (p Price) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Price) UnmarshalText(b []byte) error {
	v, err := ParsePrice(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
