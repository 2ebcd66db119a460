package types

import (
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidAmount is returned for raw amounts that are not non-negative integers
	ErrInvalidAmount = errors.New("invalid amount")

	decimalPattern = regexp.MustCompile(`^(\d+\.?\d*|\.\d+)$`)
)

// CurrencyAmount is a raw integer amount of a currency in its smallest unit
type CurrencyAmount struct {
	Currency Currency
	Raw      *big.Int
}

// NewAmount wraps raw in a CurrencyAmount. raw is copied.
func NewAmount(c Currency, raw *big.Int) CurrencyAmount {
	return CurrencyAmount{Currency: c, Raw: new(big.Int).Set(raw)}
}

// FromRawAmount parses a base-10 integer amount in the currency's smallest unit
func FromRawAmount(c Currency, raw string) (CurrencyAmount, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return CurrencyAmount{}, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	v, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return CurrencyAmount{}, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	if v.Sign() < 0 {
		return CurrencyAmount{}, fmt.Errorf("%w: negative %q", ErrInvalidAmount, raw)
	}
	return CurrencyAmount{Currency: c, Raw: v}, nil
}

// ParseUnits converts a human decimal string into the smallest unit.
// It fails when value carries more fractional digits than decimals.
func ParseUnits(value string, decimals uint8) (*big.Int, error) {
	value = strings.TrimSpace(value)
	if !decimalPattern.MatchString(value) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, value)
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	shifted := d.Shift(int32(decimals))
	if !shifted.IsInteger() {
		return nil, fmt.Errorf("%w: too many decimal places in %q", ErrInvalidAmount, value)
	}
	return shifted.BigInt(), nil
}

// IsZero reports whether the amount is nil or zero
func (a CurrencyAmount) IsZero() bool {
	return a.Raw == nil || a.Raw.Sign() == 0
}

// Decimal returns the amount in whole units
func (a CurrencyAmount) Decimal() decimal.Decimal {
	if a.Raw == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(a.Raw, -int32(a.Currency.Decimals))
}

// ToExact renders the amount in whole units without rounding
func (a CurrencyAmount) ToExact() string {
	return a.Decimal().String()
}

// ToFixed renders the amount rounded to places fractional digits
func (a CurrencyAmount) ToFixed(places int32) string {
	return a.Decimal().StringFixed(places)
}

func (a CurrencyAmount) String() string {
	return a.ToExact() + " " + a.Currency.String()
}
