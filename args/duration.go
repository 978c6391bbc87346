package args

import (
	"context"
	"math"
	"math/big"
	"strings"
	"time"

	"github.com/ardnew/argot/pkg"
)

type durationElement struct{ Base }

// Duration returns an element that parses one token as an ISO-8601 duration.
//
// Input is case-insensitive and the leading "P" designator is optional, as is
// the "T" separating days from hours, minutes, and seconds. So "1d" reads as
// "P1D", and "1h30m" as "PT1H30M". Weeks are accepted; years and months are
// not, because they have no fixed length.
func Duration(key string) Element[time.Duration] {
	return durationElement{NewBase(key)}
}

func (durationElement) Parse(
	_ context.Context,
	_ Source,
	s *Stream,
) (time.Duration, error) {
	tok, err := s.Next()
	if err != nil {
		return 0, err
	}

	d, perr := ParseISODuration(NormalizeDuration(tok))
	if perr != nil {
		return 0, s.NewError(MalformedInput, "Invalid duration!").Wrap(perr)
	}

	return d, nil
}

// NormalizeDuration upper-cases s, prepends the "P" designator if it is
// missing, and inserts the "T" separator before the first hour, minute, or
// second component if s has none.
func NormalizeDuration(s string) string {
	s = strings.ToUpper(s)

	sign := ""
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		sign, s = s[:1], s[1:]
	}

	if !strings.HasPrefix(s, "P") {
		s = "P" + s
	}

	if !strings.Contains(s, "T") {
		if i := strings.IndexAny(s, "HMS"); i >= 0 {
			// Back up over the number belonging to the designator at i.
			j := i
			for j > 1 && (isDigit(s[j-1]) || s[j-1] == '.' || s[j-1] == ',' ||
				s[j-1] == '-' || s[j-1] == '+') {
				j--
			}

			s = s[:j] + "T" + s[j:]
		}
	}

	return sign + s
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

var (
	errDurationSyntax = pkg.MakeErrorf("invalid ISO-8601 duration")
	errDurationRange  = pkg.MakeErrorf("duration out of range")
)

// unit values of each designator, in the order they must appear.
var (
	dateUnits = []struct {
		des  byte
		size time.Duration
	}{
		{'W', 7 * 24 * time.Hour},
		{'D', 24 * time.Hour},
	}
	timeUnits = []struct {
		des  byte
		size time.Duration
	}{
		{'H', time.Hour},
		{'M', time.Minute},
		{'S', time.Second},
	}
)

// ParseISODuration parses s in the form [sign]P[nW][nD][T[nH][nM][n[.f]S]].
// Each number may carry its own sign. Only the seconds component may have a
// fraction, written with a '.' or ','. At least one component is required.
func ParseISODuration(s string) (time.Duration, error) {
	orig := s

	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg, s = s[0] == '-', s[1:]
	}

	if s == "" || (s[0] != 'P' && s[0] != 'p') {
		return 0, errDurationSyntax.Wrapf("%q", orig)
	}

	s = strings.ToUpper(s[1:])

	datePart, timePart, hasTime := strings.Cut(s, "T")
	if hasTime && timePart == "" {
		return 0, errDurationSyntax.Wrapf("%q", orig)
	}

	total := new(big.Int)
	seen := 0

	consume := func(part string, units []struct {
		des  byte
		size time.Duration
	}, fraction byte) error {
		next := 0

		for part != "" {
			i := 0
			if part[0] == '-' || part[0] == '+' {
				i++
			}

			for i < len(part) && (isDigit(part[i]) || part[i] == '.' ||
				part[i] == ',') {
				i++
			}

			if i == len(part) {
				return errDurationSyntax.Wrapf("%q", orig)
			}

			num, des := part[:i], part[i]
			part = part[i+1:]

			u := next
			for u < len(units) && units[u].des != des {
				u++
			}

			if u == len(units) {
				return errDurationSyntax.Wrapf("%q", orig)
			}

			next = u + 1

			v, err := scaledValue(num, units[u].size, des == fraction)
			if err != nil {
				return errDurationSyntax.Wrap(err).Wrapf("%q", orig)
			}

			total.Add(total, v)
			seen++
		}

		return nil
	}

	if err := consume(datePart, dateUnits, 0); err != nil {
		return 0, err
	}

	if err := consume(timePart, timeUnits, 'S'); err != nil {
		return 0, err
	}

	if seen == 0 {
		return 0, errDurationSyntax.Wrapf("%q", orig)
	}

	if neg {
		total.Neg(total)
	}

	if !total.IsInt64() || total.Int64() == math.MinInt64 {
		return 0, errDurationRange.Wrapf("%q", orig)
	}

	return time.Duration(total.Int64()), nil
}

// scaledValue returns num × size in nanoseconds. num may have a fractional
// part only if fraction is true; digits beyond nanosecond precision are
// truncated.
func scaledValue(
	num string,
	size time.Duration,
	fraction bool,
) (*big.Int, error) {
	num = strings.ReplaceAll(num, ",", ".")

	whole, frac, hasFrac := strings.Cut(num, ".")
	if hasFrac && (!fraction || frac == "" || !isDigits(frac)) {
		return nil, errDurationSyntax
	}

	sign := ""
	if whole != "" && (whole[0] == '-' || whole[0] == '+') {
		sign, whole = whole[:1], whole[1:]
	}

	if whole == "" || !isDigits(whole) {
		return nil, errDurationSyntax
	}

	v, _ := new(big.Int).SetString(whole, 10)
	v.Mul(v, big.NewInt(int64(size)))

	if hasFrac {
		if len(frac) > 9 {
			frac = frac[:9]
		}

		frac += strings.Repeat("0", 9-len(frac))

		f, _ := new(big.Int).SetString(frac, 10)
		v.Add(v, f)
	}

	if sign == "-" {
		v.Neg(v)
	}

	return v, nil
}
