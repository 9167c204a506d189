package ton20

import (
	"encoding/json"
	"math/big"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/holiman/uint256"
)

// ParseInteger parses integer text the way the protocol's reference parser
// accepts it: surrounding whitespace, one optional sign, decimal digits of any
// script with single underscores between digit groups, leading zeros allowed.
func ParseInteger(s string) (*big.Int, bool) {
	s = strings.TrimFunc(s, unicode.IsSpace)
	negative := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		negative = s[0] == '-'
		s = s[1:]
	}
	if s == "" {
		return nil, false
	}

	runes := []rune(s)
	digits := make([]byte, 0, len(runes))
	prevDigit := false
	for i, r := range runes {
		if d, ok := decimalDigit(r); ok {
			digits = append(digits, d)
			prevDigit = true
			continue
		}
		if r == '_' && prevDigit && i+1 < len(runes) {
			prevDigit = false
			continue
		}
		return nil, false
	}
	if !prevDigit {
		return nil, false
	}

	n, ok := new(big.Int).SetString(string(digits), 10)
	if !ok {
		return nil, false
	}
	if negative {
		n.Neg(n)
	}
	return n, true
}

// decimalDigit maps a decimal digit of any script to its ASCII form. Unicode
// encodes every set of decimal digits as a contiguous run from zero to nine,
// and the ranges of unicode.Nd are made of whole runs.
func decimalDigit(r rune) (byte, bool) {
	if r >= '0' && r <= '9' {
		return byte(r), true
	}
	if r < utf8.RuneSelf || !unicode.Is(unicode.Nd, r) {
		return 0, false
	}
	for _, rg := range unicode.Nd.R16 {
		if lo, hi := rune(rg.Lo), rune(rg.Hi); r >= lo && r <= hi && rg.Stride == 1 {
			return '0' + byte((r-lo)%10), true
		}
	}
	for _, rg := range unicode.Nd.R32 {
		if lo, hi := rune(rg.Lo), rune(rg.Hi); r >= lo && r <= hi && rg.Stride == 1 {
			return '0' + byte((r-lo)%10), true
		}
	}
	return 0, false
}

// ParseAmount parses a strictly positive integer below 2^256.
func ParseAmount(s string) (uint256.Int, bool) {
	n, ok := ParseInteger(s)
	if !ok || n.Sign() <= 0 {
		return uint256.Int{}, false
	}
	v, overflow := uint256.FromBig(n)
	if overflow {
		return uint256.Int{}, false
	}
	return *v, true
}

// TryInteger converts an arbitrary decoded JSON value into a non-negative
// integer below 2^256, returning zero whenever that is not possible.
// Floats are truncated toward zero and booleans count as 0 or 1.
func TryInteger(v any) uint256.Int {
	var n *big.Int
	switch v := v.(type) {
	case string:
		parsed, ok := ParseInteger(v)
		if !ok {
			return uint256.Int{}
		}
		n = parsed
	case json.Number:
		if parsed, ok := new(big.Int).SetString(string(v), 10); ok {
			n = parsed
			break
		}
		f, err := strconv.ParseFloat(string(v), 64)
		if err != nil {
			return uint256.Int{}
		}
		n, _ = big.NewFloat(f).Int(nil)
	case bool:
		if v {
			return *uint256.NewInt(1)
		}
		return uint256.Int{}
	default:
		return uint256.Int{}
	}
	if n.Sign() < 0 {
		return uint256.Int{}
	}
	u, overflow := uint256.FromBig(n)
	if overflow {
		return uint256.Int{}
	}
	return *u
}
