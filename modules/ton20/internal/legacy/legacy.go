// Package legacy provides the allow-list of transactions sent to the zero
// address before the cutover by senders that were not wallet contracts.
package legacy

import (
	"bufio"
	"encoding/hex"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ton20-indexer/core/types"
	"github.com/klauspost/compress/gzip"
)

type AllowList struct {
	hashes map[types.Hash]struct{}
}

func NewAllowList(hashes ...types.Hash) *AllowList {
	a := &AllowList{hashes: make(map[types.Hash]struct{}, len(hashes))}
	for _, h := range hashes {
		a.hashes[h] = struct{}{}
	}
	return a
}

// Load reads a gzip file holding transaction hashes as 64-character hex
// tokens in any surrounding syntax (typically a set literal). An empty path
// yields an empty list.
func Load(path string) (*AllowList, error) {
	if path == "" {
		return NewAllowList(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open allow-list")
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open gzip stream")
	}
	defer zr.Close()

	list, err := Read(zr)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read allow-list %s", path)
	}
	return list, nil
}

// Read collects every run of exactly 64 hex characters from r.
func Read(r io.Reader) (*AllowList, error) {
	list := NewAllowList()
	br := bufio.NewReaderSize(r, 1<<16)
	run := make([]byte, 0, 64)
	tooLong := false
	flush := func() {
		if len(run) == 64 && !tooLong {
			var h types.Hash
			if _, err := hex.Decode(h[:], run); err == nil {
				list.hashes[h] = struct{}{}
			}
		}
		run = run[:0]
		tooLong = false
	}
	for {
		c, err := br.ReadByte()
		if err == io.EOF {
			flush()
			return list, nil
		}
		if err != nil {
			return nil, errors.WithStack(err)
		}
		if !isHex(c) {
			flush()
			continue
		}
		if len(run) == 64 {
			tooLong = true
			continue
		}
		run = append(run, c)
	}
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// IsEligible implements engine.LegacyOracle.
func (a *AllowList) IsEligible(txHash types.Hash) bool {
	_, ok := a.hashes[txHash]
	return ok
}

func (a *AllowList) Len() int {
	return len(a.hashes)
}
