package httphandler

import (
	"net/url"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ton20-indexer/core/types"
	"github.com/gaze-network/ton20-indexer/pkg/tonaddr"
)

const (
	defaultLimit = 100
	maxLimit     = 1000
)

// validatePagination applies the default limit when none is given.
func validatePagination(limit, offset *int32) []error {
	var errList []error
	if *limit < 0 || *limit > maxLimit {
		errList = append(errList, errors.Errorf("limit must be between 1 and %d", maxLimit))
	}
	if *offset < 0 {
		errList = append(errList, errors.New("offset must be non-negative"))
	}
	if *limit == 0 {
		*limit = defaultLimit
	}
	return errList
}

func parseAddress(s string) (types.Address, error) {
	addr, err := tonaddr.Normalize(s)
	if err != nil {
		return types.Address{}, errors.Errorf("invalid address %q", s)
	}
	return addr, nil
}

// parseTick undoes the percent-encoding of non-ASCII ticks in paths.
func parseTick(s string) (string, error) {
	tick, err := url.PathUnescape(s)
	if err != nil || tick == "" {
		return "", errors.Errorf("invalid tick %q", s)
	}
	return tick, nil
}

func parseOptionalBool(name, s string) (*bool, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return nil, errors.Errorf("%s must be true or false", name)
	}
	return &v, nil
}
