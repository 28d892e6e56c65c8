package calculator

import (
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

// guardDigits is the number of significant digits carried past the last
// returned place while compounding. Exact products grow by a few digits per
// day, so long runs are carried at bounded precision and only settled exactly
// when the error bound cannot decide the rounding.
const guardDigits = 60

// sigDigits returns the working precision for values with intDigits digits
// before the decimal point.
func sigDigits(intDigits int) int {
	if intDigits < 0 {
		intDigits = 0
	}
	return intDigits + PricePlaces + guardDigits
}

// intDigits estimates the digits before the point of prev*m^n.
func intDigits(prev, m decimal.Decimal, n int) int {
	log10 := (lnDecimal(prev) + float64(n)*lnDecimal(m)) / math.Ln10
	return int(math.Ceil(log10)) + 1
}

// roundSig rounds d to sig significant digits.
func roundSig(d decimal.Decimal, sig int) decimal.Decimal {
	if d.NumDigits() <= sig {
		return d
	}
	whole := d.NumDigits() + int(d.Exponent())
	return d.Round(int32(sig - whole))
}

// approxPow is powInt with every intermediate product rounded to sig digits.
func approxPow(base decimal.Decimal, n, sig int) decimal.Decimal {
	result := decimal.NewFromInt(1)
	for n > 0 {
		if n&1 == 1 {
			result = roundSig(result.Mul(base), sig)
		}
		base = roundSig(base.Mul(base), sig)
		n >>= 1
	}
	return result
}

// errorBound returns an upper bound on |approx - exact| after steps roundings
// to sig digits compounded over n multiplications.
func errorBound(approx decimal.Decimal, n, steps, sig int) decimal.Decimal {
	factor := decimal.NewFromInt(int64(2*n + 2*steps + 8))
	return approx.Abs().Mul(factor).Mul(decimal.New(1, int32(1-sig)))
}

// settle rounds approx to PricePlaces when the whole error interval rounds
// the same way, and reports false otherwise.
func settle(approx, bound decimal.Decimal) (decimal.Decimal, bool) {
	lo := approx.Sub(bound).Round(PricePlaces)
	hi := approx.Add(bound).Round(PricePlaces)
	if !lo.Equal(hi) {
		return decimal.Zero, false
	}
	return lo, true
}

// compare reports approx against target as -1, 0 or +1 when the error
// interval lies on one side; ok is false when the interval straddles target.
func compare(approx, bound, target decimal.Decimal) (cmp int, ok bool) {
	switch {
	case approx.Sub(bound).GreaterThanOrEqual(target):
		return 1, true
	case approx.Add(bound).LessThan(target):
		return -1, true
	default:
		return 0, false
	}
}

// lnDecimal returns the natural log of a positive decimal as float64,
// without converting d itself to a float (which would underflow for 1e-500).
func lnDecimal(d decimal.Decimal) float64 {
	mant := new(big.Float)
	exp2 := new(big.Float).SetInt(d.Coefficient()).MantExp(mant)
	m, _ := mant.Float64()
	return math.Log(m) + float64(exp2)*math.Ln2 + float64(d.Exponent())*math.Ln10
}

func bitLen(n int) int {
	steps := 0
	for n > 0 {
		steps++
		n >>= 1
	}
	return steps
}
