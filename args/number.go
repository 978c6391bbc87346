package args

import (
	"context"
	"math/big"
	"strconv"
	"strings"
)

// Decimal is an arbitrary-precision decimal number: Unscaled × 10^-Scale.
//
// Decimal keeps the scale it was written with, so "1.50" has scale 2 and
// prints back as "1.50".
type Decimal struct {
	unscaled *big.Int
	scale    int32
}

// MaxScale bounds the magnitude of the scale [ParseDecimal] accepts. A
// [Decimal] whose scale exceeds it prints in scientific notation.
const MaxScale = 1 << 12

// NewDecimal returns unscaled × 10^-scale.
func NewDecimal(unscaled *big.Int, scale int32) Decimal {
	return Decimal{unscaled: new(big.Int).Set(unscaled), scale: scale}
}

// ParseDecimal parses s in the form [sign]digits[.digits][(e|E)[sign]digits].
// A leading or trailing decimal point is allowed as long as at least one digit
// is present.
func ParseDecimal(s string) (Decimal, error) {
	mant, exp, hasExp := s, "", false
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		mant, exp, hasExp = s[:i], s[i+1:], true
	}

	var sign string
	if mant != "" && (mant[0] == '+' || mant[0] == '-') {
		sign, mant = mant[:1], mant[1:]
	}

	intPart, fracPart := mant, ""
	if i := strings.IndexByte(mant, '.'); i >= 0 {
		intPart, fracPart = mant[:i], mant[i+1:]
	}

	if intPart == "" && fracPart == "" || !isDigits(intPart) ||
		!isDigits(fracPart) {
		return Decimal{}, strconv.ErrSyntax
	}

	unscaled, ok := new(big.Int).SetString(sign+intPart+fracPart, 10)
	if !ok {
		return Decimal{}, strconv.ErrSyntax
	}

	scale := int64(len(fracPart))

	if hasExp {
		e, err := strconv.ParseInt(exp, 10, 32)
		if err != nil {
			return Decimal{}, strconv.ErrSyntax
		}

		scale -= e
	}

	if scale < -MaxScale || scale > MaxScale {
		return Decimal{}, strconv.ErrRange
	}

	return Decimal{unscaled: unscaled, scale: int32(scale)}, nil
}

func isDigits(s string) bool {
	for i := range len(s) {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}

// Unscaled returns a copy of the unscaled integer value.
func (d Decimal) Unscaled() *big.Int {
	if d.unscaled == nil {
		return new(big.Int)
	}

	return new(big.Int).Set(d.unscaled)
}

// Scale returns the number of digits to the right of the decimal point. A
// negative scale multiplies the unscaled value by a power of ten.
func (d Decimal) Scale() int32 { return d.scale }

// Rat returns the exact value of d as a rational number.
func (d Decimal) Rat() *big.Rat {
	r := new(big.Rat).SetInt(d.Unscaled())

	pow := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(abs(d.scale))), nil)
	if d.scale >= 0 {
		return r.Quo(r, new(big.Rat).SetInt(pow))
	}

	return r.Mul(r, new(big.Rat).SetInt(pow))
}

// Float64 returns the nearest float64 to d.
func (d Decimal) Float64() float64 {
	f, _ := d.Rat().Float64()

	return f
}

// Cmp compares the numeric values of d and o, ignoring scale.
func (d Decimal) Cmp(o Decimal) int { return d.Rat().Cmp(o.Rat()) }

// String returns d in plain notation with exactly Scale fractional digits,
// or in scientific notation ("1.5E+9000") when the scale exceeds [MaxScale].
func (d Decimal) String() string {
	u := d.Unscaled()

	neg := u.Sign() < 0
	digits := u.Abs(u).String()

	switch {
	case d.scale < -MaxScale || d.scale > MaxScale:
		exp := int64(len(digits)-1) - int64(d.scale)
		if len(digits) > 1 {
			digits = digits[:1] + "." + digits[1:]
		}

		sign := "+"
		if exp < 0 {
			sign = ""
		}

		digits += "E" + sign + strconv.FormatInt(exp, 10)

	case d.scale < 0:
		digits += strings.Repeat("0", int(-d.scale))

	case d.scale > 0:
		n := int(d.scale)
		if len(digits) <= n {
			digits = strings.Repeat("0", n-len(digits)+1) + digits
		}

		digits = digits[:len(digits)-n] + "." + digits[len(digits)-n:]
	}

	if neg {
		return "-" + digits
	}

	return digits
}

// MarshalText implements encoding.TextMarshaler.
func (d Decimal) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Decimal) UnmarshalText(text []byte) error {
	v, err := ParseDecimal(string(text))
	if err != nil {
		return err
	}

	*d = v

	return nil
}

func abs(n int32) int32 {
	if n < 0 {
		return -n
	}

	return n
}

type integerElement struct{ Base }

// Integer returns an element that parses one token as an arbitrary-precision
// base-10 integer.
func Integer(key string) Element[*big.Int] {
	return integerElement{NewBase(key)}
}

func (integerElement) Parse(
	_ context.Context,
	_ Source,
	s *Stream,
) (*big.Int, error) {
	tok, err := s.Next()
	if err != nil {
		return nil, err
	}

	n, ok := new(big.Int).SetString(tok, 10)
	if !ok {
		return nil, s.Errorf(MalformedInput, tok,
			"Expected an integer, but input '%s' was not", tok)
	}

	return n, nil
}

type decimalElement struct{ Base }

// DecimalNumber returns an element that parses one token as an
// arbitrary-precision [Decimal].
func DecimalNumber(key string) Element[Decimal] {
	return decimalElement{NewBase(key)}
}

func (decimalElement) Parse(
	_ context.Context,
	_ Source,
	s *Stream,
) (Decimal, error) {
	tok, err := s.Next()
	if err != nil {
		return Decimal{}, err
	}

	d, perr := ParseDecimal(tok)
	if perr != nil {
		return Decimal{}, s.Errorf(MalformedInput, tok,
			"Expected a decimal, but input '%s' was not", tok)
	}

	return d, nil
}
