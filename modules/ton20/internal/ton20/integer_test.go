package ton20

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
)

func TestParseInteger(t *testing.T) {
	type testCase struct {
		input    string
		expected string
		ok       bool
	}
	testCases := []testCase{
		{input: "0", expected: "0", ok: true},
		{input: "42", expected: "42", ok: true},
		{input: "  42\n", expected: "42", ok: true},
		{input: "+7", expected: "7", ok: true},
		{input: "-7", expected: "-7", ok: true},
		{input: "007", expected: "7", ok: true},
		{input: "1_000_000", expected: "1000000", ok: true},
		{input: "５０", expected: "50", ok: true},
		{input: "٤٢", expected: "42", ok: true},
		{input: "१_०००", expected: "1000", ok: true},
		{input: "𝟗𝟗", expected: "99", ok: true},
		{input: "4５", expected: "45", ok: true},
		{input: "½", ok: false},
		{input: "²", ok: false},
		{input: "Ⅻ", ok: false},
		{input: "", ok: false},
		{input: "+", ok: false},
		{input: "1__0", ok: false},
		{input: "_1", ok: false},
		{input: "1_", ok: false},
		{input: "1.5", ok: false},
		{input: "0x10", ok: false},
		{input: "1e3", ok: false},
		{input: "--1", ok: false},
		{input: "1 2", ok: false},
	}
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			n, ok := ParseInteger(tc.input)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.expected, n.String())
			}
		})
	}
}

func TestParseAmount(t *testing.T) {
	maxUint256 := "115792089237316195423570985008687907853269984665640564039457584007913129639935"
	twoPow256 := "115792089237316195423570985008687907853269984665640564039457584007913129639936"

	type testCase struct {
		name     string
		input    string
		expected string
		ok       bool
	}
	testCases := []testCase{
		{name: "positive", input: "100", ok: true},
		{name: "max uint256", input: maxUint256, ok: true},
		{name: "2^256", input: twoPow256, ok: false},
		{name: "zero", input: "0", ok: false},
		{name: "negative", input: "-1", ok: false},
		{name: "garbage", input: "abc", ok: false},
		{name: "fullwidth", input: "５０", expected: "50", ok: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v, ok := ParseAmount(tc.input)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				expected := tc.expected
				if expected == "" {
					expected = strings.TrimLeft(tc.input, "0")
				}
				assert.Equal(t, expected, v.Dec())
			}
		})
	}
}

func TestTryInteger(t *testing.T) {
	type testCase struct {
		name     string
		input    any
		expected uint64
	}
	testCases := []testCase{
		{name: "string", input: "12", expected: 12},
		{name: "bad string", input: "x", expected: 0},
		{name: "negative string", input: "-3", expected: 0},
		{name: "integer number", input: json.Number("15"), expected: 15},
		{name: "float number truncates", input: json.Number("15.9"), expected: 15},
		{name: "exponent number", input: json.Number("1e3"), expected: 1000},
		{name: "true", input: true, expected: 1},
		{name: "false", input: false, expected: 0},
		{name: "nil", input: nil, expected: 0},
		{name: "list", input: []any{"1"}, expected: 0},
		{name: "too large", input: json.Number("1e100"), expected: 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := TryInteger(tc.input)
			assert.Equal(t, uint256.NewInt(tc.expected), &v)
		})
	}
}
