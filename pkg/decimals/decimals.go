package decimals

import (
	"math/big"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ton20-indexer/common/errs"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

const (
	DefaultDivPrecision = 36
)

var hundred = decimal.NewFromInt(100)

func init() {
	decimal.DivisionPrecision = DefaultDivPrecision
}

// MustFromString convert string to decimal.Decimal. Panic if error
// string must be a valid number, not NaN, Inf or empty string.
func MustFromString(s string) decimal.Decimal {
	return utils.Must(decimal.NewFromString(s))
}

// FromUint256 convert *uint256.Int to decimal.Decimal without losing precision.
func FromUint256(v *uint256.Int) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(v.ToBig(), 0)
}

// ToUint256 convert a non-negative integral decimal to *uint256.Int.
func ToUint256(d decimal.Decimal) (*uint256.Int, error) {
	if d.IsNegative() {
		return nil, errors.Wrapf(errs.InvalidArgument, "negative value %s", d.String())
	}
	if !d.Equal(d.Truncate(0)) {
		return nil, errors.Wrapf(errs.InvalidArgument, "non-integral value %s", d.String())
	}
	return FromBigInt(d.BigInt())
}

// FromBigInt convert a non-negative *big.Int to *uint256.Int.
func FromBigInt(v *big.Int) (*uint256.Int, error) {
	if v.Sign() < 0 {
		return nil, errors.Wrapf(errs.InvalidArgument, "negative value %s", v.String())
	}
	result, overflow := uint256.FromBig(v)
	if overflow {
		return nil, errors.Wrapf(errs.Overflow, "value %s exceeds 256 bits", v.String())
	}
	return result, nil
}

// Percent returns part/whole*100 rounded to places. Zero whole returns zero.
func Percent(part, whole *uint256.Int, places int32) decimal.Decimal {
	if whole == nil || whole.IsZero() {
		return decimal.Zero
	}
	return FromUint256(part).Mul(hundred).Div(FromUint256(whole)).Round(places)
}
