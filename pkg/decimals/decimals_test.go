package decimals

import (
	"math/big"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ton20-indexer/common/errs"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const maxUint256 = "115792089237316195423570985008687907853269984665640564039457584007913129639935"

func TestFromUint256(t *testing.T) {
	assert.Equal(t, "0", FromUint256(nil).String())
	assert.Equal(t, "42", FromUint256(uint256.NewInt(42)).String())
	assert.Equal(t, maxUint256, FromUint256(new(uint256.Int).SetAllOne()).String())
}

func TestToUint256(t *testing.T) {
	testcases := []struct {
		name     string
		input    string
		expected string
		err      error
	}{
		{"zero", "0", "0", nil},
		{"small", "1000", "1000", nil},
		{"max", maxUint256, maxUint256, nil},
		{"trailing zero fraction", "5.000", "5", nil},
		{"negative", "-1", "", errs.InvalidArgument},
		{"fraction", "1.5", "", errs.InvalidArgument},
		{"overflow", maxUint256 + "0", "", errs.Overflow},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			actual, err := ToUint256(MustFromString(tc.input))
			if tc.err != nil {
				assert.True(t, errors.Is(err, tc.err), "unexpected error: %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, actual.Dec())
		})
	}
}

func TestFromBigInt(t *testing.T) {
	_, err := FromBigInt(big.NewInt(-3))
	assert.True(t, errors.Is(err, errs.InvalidArgument))

	v, err := FromBigInt(big.NewInt(7))
	require.NoError(t, err)
	assert.Equal(t, uint64(7), v.Uint64())
}

func TestPercent(t *testing.T) {
	testcases := []struct {
		name     string
		part     uint64
		whole    uint64
		places   int32
		expected string
	}{
		{"zero whole", 5, 0, 2, "0"},
		{"half", 50, 100, 2, "50"},
		{"third", 1, 3, 4, "33.3333"},
		{"full", 21, 21, 2, "100"},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			actual := Percent(uint256.NewInt(tc.part), uint256.NewInt(tc.whole), tc.places)
			assert.Equal(t, tc.expected, actual.String())
		})
	}
}
