// Package quote converts human token amounts to base units and derives the
// initial price and liquidity for a constant-product pool with a price range.
//
// Prices are Q64.64 square roots: sqrt(tokenB per tokenA) scaled by 2^64.
package quote

import (
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/ninja0404/token-launcher/pkg/types"
)

var (
	errNegativeAmount = errors.New("amount must not be negative")
	errNotIntegral    = errors.New("amount is not a whole number of base units")
)

// ToBaseUnits scales a human amount by 10^decimals, rounding toward zero.
func ToBaseUnits(human decimal.Decimal, decimals uint8) (uint64, error) {
	if human.IsNegative() {
		return 0, errNegativeAmount
	}
	scaled := human.Shift(int32(decimals)).Truncate(0)
	return toUint64(scaled)
}

// ToBaseUnitsExact scales like ToBaseUnits but rejects amounts with a fractional remainder.
func ToBaseUnitsExact(human decimal.Decimal, decimals uint8) (uint64, error) {
	if human.IsNegative() {
		return 0, errNegativeAmount
	}
	scaled := human.Shift(int32(decimals))
	if !scaled.Equal(scaled.Truncate(0)) {
		return 0, fmt.Errorf("%s at %d decimals: %w", human, decimals, errNotIntegral)
	}
	return toUint64(scaled)
}

func toUint64(d decimal.Decimal) (uint64, error) {
	bi := d.BigInt()
	if !bi.IsUint64() {
		return 0, fmt.Errorf("%s: %w", d, types.ErrAmountOverflow)
	}
	return bi.Uint64(), nil
}

// PoolCreationParams are the on-chain arguments derived from the two deposit amounts.
type PoolCreationParams struct {
	InitSqrtPrice  *big.Int
	LiquidityDelta *big.Int
}

var (
	q64  = new(big.Int).Lsh(big.NewInt(1), 64)
	q128 = new(big.Int).Lsh(big.NewInt(1), 128)
)

// floatPrec is wide enough that flooring a Q64.64 value below 2^128 is exact to the unit.
const floatPrec = 256

// PreparePoolCreation computes the starting sqrt price and the liquidity that both
// deposits can support. The smaller of the two per-side liquidities wins so neither
// deposit is exceeded.
func PreparePoolCreation(amountA, amountB, minSqrtPrice, maxSqrtPrice *big.Int) (PoolCreationParams, error) {
	if amountA == nil || amountB == nil || amountA.Sign() <= 0 || amountB.Sign() <= 0 {
		return PoolCreationParams{}, types.ErrZeroAmount
	}
	if minSqrtPrice == nil || maxSqrtPrice == nil || minSqrtPrice.Sign() <= 0 || minSqrtPrice.Cmp(maxSqrtPrice) >= 0 {
		return PoolCreationParams{}, errors.New("invalid sqrt price range")
	}

	initSqrt := CalculateInitSqrtPrice(amountA, amountB, minSqrtPrice, maxSqrtPrice)
	if initSqrt.Cmp(minSqrtPrice) <= 0 || initSqrt.Cmp(maxSqrtPrice) >= 0 {
		return PoolCreationParams{}, fmt.Errorf("initial sqrt price %s outside range", initSqrt)
	}

	liqA := LiquidityDeltaFromAmountA(amountA, initSqrt, maxSqrtPrice)
	liqB := LiquidityDeltaFromAmountB(amountB, minSqrtPrice, initSqrt)

	liquidity := liqA
	if liqB.Cmp(liqA) < 0 {
		liquidity = liqB
	}
	if liquidity.Sign() == 0 {
		return PoolCreationParams{}, errors.New("liquidity rounds to zero")
	}

	return PoolCreationParams{InitSqrtPrice: initSqrt, LiquidityDelta: liquidity}, nil
}

// CalculateInitSqrtPrice finds the sqrt price at which depositing amountA and amountB
// across [minSqrt, maxSqrt] uses both sides fully. It solves
//
//	s^2 + (x*y - sMin)*s - y = 0, with x = 1/sMax and y = B/A
//
// in real terms and returns s scaled back to Q64.64, floored.
func CalculateInitSqrtPrice(amountA, amountB, minSqrt, maxSqrt *big.Int) *big.Int {
	newFloat := func() *big.Float { return new(big.Float).SetPrec(floatPrec) }
	fromInt := func(v *big.Int) *big.Float { return newFloat().SetInt(v) }

	scale := fromInt(q64)
	sMin := newFloat().Quo(fromInt(minSqrt), scale)
	sMax := newFloat().Quo(fromInt(maxSqrt), scale)

	x := newFloat().Quo(newFloat().SetInt64(1), sMax)
	y := newFloat().Quo(fromInt(amountB), fromInt(amountA))
	xy := newFloat().Mul(x, y)

	diff := newFloat().Sub(xy, sMin)
	disc := newFloat().Mul(diff, diff)
	disc.Add(disc, newFloat().Mul(big.NewFloat(4), y))

	s := newFloat().Sub(sMin, xy)
	s.Add(s, newFloat().Sqrt(disc))
	s.Quo(s, big.NewFloat(2))
	s.Mul(s, scale)

	out, _ := s.Int(nil)
	return out
}

// LiquidityDeltaFromAmountA is amountA * sqrtLower * sqrtUpper / (sqrtUpper - sqrtLower), floored.
// The Q64.64 scales cancel so the result is liquidity in Q64 units.
func LiquidityDeltaFromAmountA(amountA, sqrtLower, sqrtUpper *big.Int) *big.Int {
	den := new(big.Int).Sub(sqrtUpper, sqrtLower)
	if den.Sign() <= 0 {
		return new(big.Int)
	}
	num := new(big.Int).Mul(amountA, sqrtLower)
	num.Mul(num, sqrtUpper)
	return num.Quo(num, den)
}

// LiquidityDeltaFromAmountB is (amountB << 128) / (sqrtUpper - sqrtLower), floored.
func LiquidityDeltaFromAmountB(amountB, sqrtLower, sqrtUpper *big.Int) *big.Int {
	den := new(big.Int).Sub(sqrtUpper, sqrtLower)
	if den.Sign() <= 0 {
		return new(big.Int)
	}
	num := new(big.Int).Mul(amountB, q128)
	return num.Quo(num, den)
}

// SqrtPriceToPrice converts a Q64.64 sqrt price to a tokenB-per-tokenA price in
// base units. It is meant for logs, not for math.
func SqrtPriceToPrice(sqrtPrice *big.Int) float64 {
	f := new(big.Float).SetPrec(floatPrec).SetInt(sqrtPrice)
	f.Quo(f, new(big.Float).SetInt(q64))
	v, _ := f.Float64()
	if math.IsInf(v, 0) {
		return v
	}
	return v * v
}
