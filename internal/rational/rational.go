// Package rational provides exact probability arithmetic. Every probability
// carried through the runtime is a big.Rat so that the conservation property
// (probabilities of a stream sum to exactly 1) holds bit-for-bit rather than
// approximately.
package rational

import "math/big"

// Rational wraps a big.Rat behind a value type so callers never alias the
// underlying numerator/denominator by accident.
type Rational struct {
	v *big.Rat
}

// Zero is the additive identity.
func Zero() Rational { return Rational{v: new(big.Rat)} }

// One is the multiplicative identity.
func One() Rational { return FromInt(1) }

// FromInt lifts an integer into Rational.
func FromInt(n int64) Rational { return Rational{v: new(big.Rat).SetInt64(n)} }

// New builds num/den, reduced to lowest terms.
func New(num, den int64) Rational { return Rational{v: big.NewRat(num, den)} }

func (r Rational) rat() *big.Rat {
	if r.v == nil {
		return new(big.Rat)
	}
	return r.v
}

// Add returns r + o.
func (r Rational) Add(o Rational) Rational {
	return Rational{v: new(big.Rat).Add(r.rat(), o.rat())}
}

// Mul returns r * o.
func (r Rational) Mul(o Rational) Rational {
	return Rational{v: new(big.Rat).Mul(r.rat(), o.rat())}
}

// Sub returns r - o.
func (r Rational) Sub(o Rational) Rational {
	return Rational{v: new(big.Rat).Sub(r.rat(), o.rat())}
}

// Cmp returns -1, 0, or 1 as r is less than, equal to, or greater than o.
func (r Rational) Cmp(o Rational) int { return r.rat().Cmp(o.rat()) }

// IsZero reports whether r is exactly zero.
func (r Rational) IsZero() bool { return r.rat().Sign() == 0 }

// Decimal renders r as a fixed-point decimal string with the given number of
// fractional digits, rounding to nearest (ties away from zero) at the
// requested precision.
func (r Rational) Decimal(digits int) string {
	return r.rat().FloatString(digits)
}

// String renders r in reduced num/den form, for diagnostics and tests.
func (r Rational) String() string { return r.rat().RatString() }
