package valueobjects

import (
	"errors"
	"math"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// MicrounitExponent is the number of decimal places between a display unit and a microunit.
const MicrounitExponent = 6

var (
	ErrNegativeAmount  = errors.New("amount must not be negative")
	ErrAmountTooLarge  = errors.New("amount exceeds the maximum representable microunits")
	ErrMalformedAmount = errors.New("amount is not a decimal number")
	ErrAmountOverflow  = errors.New("microunit addition overflow")
)

var maxMicrounits = decimal.NewFromInt(math.MaxInt64)

// Microunits is the integer amount the ledger network deals in. One display unit is 1,000,000 microunits.
type Microunits uint64

// ToMicrounits scales a display amount by 10^6 and rounds half away from zero, which
// for the non-negative domain accepted here is the same as round half up.
func ToMicrounits(display decimal.Decimal) (Microunits, error) {
	if display.Sign() < 0 {
		return 0, ErrNegativeAmount
	}

	scaled := display.Shift(MicrounitExponent).Round(0)
	if scaled.GreaterThan(maxMicrounits) {
		return 0, ErrAmountTooLarge
	}

	return Microunits(scaled.IntPart()), nil
}

// ParseDisplayAmount parses a decimal string such as "12.5" into microunits.
func ParseDisplayAmount(s string) (Microunits, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, ErrMalformedAmount
	}
	return ToMicrounits(d)
}

// ToDisplayUnits is exact: the result carries six decimal places of scale.
func ToDisplayUnits(m Microunits) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(uint64(m)), -MicrounitExponent)
}

func (m Microunits) Uint64() uint64 {
	return uint64(m)
}

func (m Microunits) IsZero() bool {
	return m == 0
}

// Add returns m+o, failing instead of wrapping around.
func (m Microunits) Add(o Microunits) (Microunits, error) {
	if uint64(m) > math.MaxUint64-uint64(o) {
		return 0, ErrAmountOverflow
	}
	return m + o, nil
}

// Sub saturates at zero.
func (m Microunits) Sub(o Microunits) Microunits {
	if o >= m {
		return 0
	}
	return m - o
}

// Display renders the amount in display units with all six decimals.
func (m Microunits) Display() string {
	return ToDisplayUnits(m).StringFixed(MicrounitExponent)
}
