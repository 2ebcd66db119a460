package types

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// Percent is a rational fraction, e.g. 50/10_000 for 0.5%
type Percent struct {
	Numerator   *big.Int
	Denominator *big.Int
}

func NewPercent(numerator, denominator int64) Percent {
	return Percent{Numerator: big.NewInt(numerator), Denominator: big.NewInt(denominator)}
}

// BasisPoints returns bps/10_000
func BasisPoints(bps int64) Percent {
	return NewPercent(bps, 10_000)
}

// Decimal returns the fraction value, e.g. 0.005 for 0.5%
func (p Percent) Decimal() decimal.Decimal {
	if p.Denominator == nil || p.Denominator.Sign() == 0 {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(p.Numerator, 0).
		DivRound(decimal.NewFromBigInt(p.Denominator, 0), 18)
}

// Significant renders the fraction rounded to digits significant digits
func (p Percent) Significant(digits int32) string {
	d := p.Decimal()
	if d.IsZero() {
		return "0"
	}
	var places int32
	if d.Abs().LessThan(decimal.NewFromInt(1)) {
		places = digits + leadingFractionZeros(d)
	} else {
		places = digits - int32(len(d.Abs().Truncate(0).String()))
	}
	return d.Round(places).String()
}

func leadingFractionZeros(d decimal.Decimal) int32 {
	var n int32
	v := d.Abs()
	ten := decimal.NewFromInt(10)
	for v.LessThan(decimal.NewFromFloat(0.1)) && n < 36 {
		v = v.Mul(ten)
		n++
	}
	return n
}

// Add returns p + o
func (p Percent) Add(o Percent) Percent {
	num := new(big.Int).Add(
		new(big.Int).Mul(p.Numerator, o.Denominator),
		new(big.Int).Mul(o.Numerator, p.Denominator),
	)
	return Percent{Numerator: num, Denominator: new(big.Int).Mul(p.Denominator, o.Denominator)}
}

// Sub returns p - o
func (p Percent) Sub(o Percent) Percent {
	num := new(big.Int).Sub(
		new(big.Int).Mul(p.Numerator, o.Denominator),
		new(big.Int).Mul(o.Numerator, p.Denominator),
	)
	return Percent{Numerator: num, Denominator: new(big.Int).Mul(p.Denominator, o.Denominator)}
}

// Apply returns floor(v * p)
func (p Percent) Apply(v *big.Int) *big.Int {
	out := new(big.Int).Mul(v, p.Numerator)
	return out.Quo(out, p.Denominator)
}

// ToFixed renders the value in percent with places fractional digits
func (p Percent) ToFixed(places int32) string {
	return p.Decimal().Mul(decimal.NewFromInt(100)).StringFixed(places) + "%"
}

func (p Percent) String() string {
	return p.ToFixed(2)
}
