package models

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"
)

// AmountPrecision is the maximum number of fractional digits an amount may carry.
const AmountPrecision = 4

var (
	ErrInvalidNumber    = errors.New("invalid number")
	ErrInvalidPrecision = errors.New("invalid decimal precision")
)

// plain decimal literals only: no exponent, no thousands separators
var decimalLiteral = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)

// ParseAmount parses a decimal literal into an exact amount, rejecting
// anything with more than AmountPrecision fractional digits.
func ParseAmount(s string) (decimal.Decimal, error) {
	if !decimalLiteral.MatchString(s) {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q: %v", ErrInvalidNumber, s, err)
	}

	if -amount.Exponent() > AmountPrecision {
		return decimal.Zero, fmt.Errorf("%w: %q has more than %d fractional digits", ErrInvalidPrecision, s, AmountPrecision)
	}
	return amount, nil
}
