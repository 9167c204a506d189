// Package tonaddr normalizes TON account addresses into their raw "wc:HEX" form.
package tonaddr

import (
	"encoding/hex"
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ton20-indexer/common/errs"
	"github.com/gaze-network/ton20-indexer/core/types"
	"github.com/xssnick/tonutils-go/address"
)

const accountHexLen = 64

// Normalize parses either a raw address ("wc:hex", the hex part may be shorter
// than 64 characters and is left-padded with zeros) or a user-friendly base64
// address.
func Normalize(s string) (types.Address, error) {
	if strings.Contains(s, ":") {
		return parseRaw(s)
	}
	return parseFriendly(s)
}

func parseRaw(s string) (types.Address, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return types.Address{}, errors.Wrapf(errs.InvalidArgument, "malformed raw address %q", s)
	}
	wc, err := strconv.ParseInt(parts[0], 10, 8)
	if err != nil {
		return types.Address{}, errors.Wrapf(errs.InvalidArgument, "invalid workchain %q", parts[0])
	}
	account := parts[1]
	if len(account) > accountHexLen {
		return types.Address{}, errors.Wrapf(errs.InvalidArgument, "account id too long: %d hex characters", len(account))
	}
	account = strings.Repeat("0", accountHexLen-len(account)) + account

	var addr types.Address
	addr.Workchain = int8(wc)
	if _, err := hex.Decode(addr.Account[:], []byte(account)); err != nil {
		return types.Address{}, errors.Wrap(errs.InvalidArgument, err.Error())
	}
	return addr, nil
}

func parseFriendly(s string) (types.Address, error) {
	a, err := address.ParseAddr(s)
	if err != nil {
		return types.Address{}, errors.Wrap(errs.InvalidArgument, err.Error())
	}
	wc := a.Workchain()
	if wc < math.MinInt8 || wc > math.MaxInt8 {
		return types.Address{}, errors.Wrapf(errs.InvalidArgument, "workchain %d out of range", wc)
	}
	data := a.Data()
	if len(data) != 32 {
		return types.Address{}, errors.Wrapf(errs.InvalidArgument, "unexpected account id length %d", len(data))
	}

	var addr types.Address
	addr.Workchain = int8(wc)
	copy(addr.Account[:], data)
	return addr, nil
}

// MustNormalize is like Normalize but panics on error. Intended for tests and constants.
func MustNormalize(s string) types.Address {
	addr, err := Normalize(s)
	if err != nil {
		panic(err)
	}
	return addr
}
