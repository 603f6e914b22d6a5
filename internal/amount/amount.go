// =================================
// File: internal/amount/amount.go
// =================================
package amount

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// SecondsPerMinute converts a payment duration in minutes to seconds.
	SecondsPerMinute = 60
	// DisplayPlaces is the number of fractional digits used for console output.
	DisplayPlaces = 6
)

var (
	ErrEmptyFeeRate    = errors.New("fee rate is empty")
	ErrInvalidFeeRate  = errors.New("fee rate is not a base-10 integer")
	ErrNegativeFeeRate = errors.New("fee rate is negative")
)

// Cost holds every intermediate value of a fee calculation.
// TotalCostRaw and Divisor are exact; Formatted is for display only.
type Cost struct {
	FeeRate         *big.Int
	DurationSeconds *big.Int
	TotalCostRaw    *big.Int
	Divisor         *big.Int
	Decimals        uint8
	Formatted       float64
}

// ComputeFormattedCost multiplies a per-second fee rate by a duration in
// minutes and scales the result down by 10^tokenDecimals for display.
func ComputeFormattedCost(feeRate *big.Int, durationMinutes uint64, tokenDecimals uint8) Cost {
	rate := new(big.Int)
	if feeRate != nil {
		rate.Set(feeRate)
	}

	seconds := DurationSeconds(durationMinutes)
	raw := TotalCost(rate, seconds)
	divisor := Divisor(tokenDecimals)

	return Cost{
		FeeRate:         rate,
		DurationSeconds: seconds,
		TotalCostRaw:    raw,
		Divisor:         divisor,
		Decimals:        tokenDecimals,
		Formatted:       ToDisplay(raw, divisor),
	}
}

// DurationSeconds returns minutes*60 without overflow.
func DurationSeconds(minutes uint64) *big.Int {
	seconds := new(big.Int).SetUint64(minutes)
	return seconds.Mul(seconds, big.NewInt(SecondsPerMinute))
}

// TotalCost returns feeRate*seconds. Neither argument is modified.
func TotalCost(feeRate, seconds *big.Int) *big.Int {
	return new(big.Int).Mul(feeRate, seconds)
}

// Divisor returns 10^decimals.
func Divisor(decimals uint8) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
}

// ToDisplay converts both operands to float64 before dividing. Values past
// 2^53 lose precision here and only here.
func ToDisplay(raw, divisor *big.Int) float64 {
	num, _ := new(big.Float).SetInt(raw).Float64()
	den, _ := new(big.Float).SetInt(divisor).Float64()
	return num / den
}

// FormattedFixed renders the display value with the given number of places.
// The exact binary value of Formatted is rounded half away from zero, so a
// tie such as 0.0703125 becomes 0.070313 at six places.
func (c Cost) FormattedFixed(places int) string {
	exact := new(big.Rat).SetFloat64(c.Formatted)
	if exact == nil {
		// Inf or NaN.
		return strconv.FormatFloat(c.Formatted, 'f', places, 64)
	}
	return decimal.NewFromBigRat(exact, int32(places)).StringFixed(int32(places))
}

// String renders the display value with DisplayPlaces places.
func (c Cost) String() string {
	return c.FormattedFixed(DisplayPlaces)
}

// Exact returns TotalCostRaw / 10^Decimals without rounding.
func (c Cost) Exact() decimal.Decimal {
	if c.TotalCostRaw == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(c.TotalCostRaw, -int32(c.Decimals))
}

// RelativeError reports how far Formatted is from the exact value.
func (c Cost) RelativeError() float64 {
	exact := c.Exact()
	if exact.IsZero() {
		if c.Formatted == 0 {
			return 0
		}
		return 1
	}
	diff := decimal.NewFromFloat(c.Formatted).Sub(exact).Abs()
	rel, _ := diff.Div(exact.Abs()).Float64()
	return rel
}

// Matches compares the display value with expected using strict equality.
func (c Cost) Matches(expected float64) bool {
	return c.Formatted == expected
}

// MatchesFixed compares the DisplayPlaces rendering with expected.
func (c Cost) MatchesFixed(expected string) bool {
	return c.String() == strings.TrimSpace(expected)
}

// ParseFeeRate parses a base-10 integer fee rate in base units per second.
func ParseFeeRate(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrEmptyFeeRate
	}
	rate, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFeeRate, s)
	}
	if rate.Sign() < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNegativeFeeRate, s)
	}
	return rate, nil
}
