package engine

import (
	"bytes"
	"encoding/binary"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ton20-indexer/common/errs"
	"github.com/gaze-network/ton20-indexer/core/types"
)

const (
	windowVersion = 1

	windowHeaderLen = 1 + 8 + 4
	// sender workchain, sender account, bucket, legacy tx hash, count
	windowEntryLen = 1 + 32 + 8 + 32 + 4
)

// SinceReset is the number of transactions evaluated since the spam counters were last cleared.
func (e *Engine) SinceReset() int {
	return e.sinceReset
}

// ResetWindow clears the spam counters. It is only called on the periodic
// commit boundary, so the boundaries depend on the stream alone.
func (e *Engine) ResetWindow() {
	clear(e.spam)
	e.sinceReset = 0
}

// WindowState encodes the spam counters and the position inside the current
// window. Entries are sorted, so equal windows encode to equal bytes.
func (e *Engine) WindowState() []byte {
	entries := make([][]byte, 0, len(e.spam))
	for key, count := range e.spam {
		entry := make([]byte, 0, windowEntryLen)
		entry = append(entry, byte(key.sender.Workchain))
		entry = append(entry, key.sender.Account[:]...)
		entry = binary.BigEndian.AppendUint64(entry, key.bucket)
		entry = append(entry, key.txHash[:]...)
		entry = binary.BigEndian.AppendUint32(entry, uint32(count))
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return bytes.Compare(entries[i], entries[j]) < 0
	})

	buf := make([]byte, 0, windowHeaderLen+len(entries)*windowEntryLen)
	buf = append(buf, windowVersion)
	buf = binary.BigEndian.AppendUint64(buf, uint64(e.sinceReset))
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(entries)))
	for _, entry := range entries {
		buf = append(buf, entry...)
	}
	return buf
}

// RestoreWindow replaces the spam counters with an encoded window. Empty data
// is an empty window.
func (e *Engine) RestoreWindow(data []byte) error {
	spam := make(map[spamKey]int)
	if len(data) == 0 {
		e.spam, e.sinceReset = spam, 0
		return nil
	}
	if len(data) < windowHeaderLen {
		return errors.Wrapf(errs.CodecError, "window state too short: %d bytes", len(data))
	}
	if data[0] != windowVersion {
		return errors.Wrapf(errs.CodecError, "unsupported window state version %d", data[0])
	}
	sinceReset := binary.BigEndian.Uint64(data[1:9])
	n := binary.BigEndian.Uint32(data[9:13])
	body := data[windowHeaderLen:]
	if uint64(len(body)) != uint64(n)*windowEntryLen {
		return errors.Wrapf(errs.CodecError, "window state holds %d bytes for %d entries", len(body), n)
	}
	for i := 0; i < int(n); i++ {
		entry := body[i*windowEntryLen : (i+1)*windowEntryLen]
		var key spamKey
		key.sender = types.Address{Workchain: int8(entry[0])}
		copy(key.sender.Account[:], entry[1:33])
		key.bucket = binary.BigEndian.Uint64(entry[33:41])
		copy(key.txHash[:], entry[41:73])
		count := binary.BigEndian.Uint32(entry[73:77])
		if count == 0 {
			return errors.Wrapf(errs.CodecError, "window entry %d has no transactions", i)
		}
		if _, ok := spam[key]; ok {
			return errors.Wrapf(errs.CodecError, "duplicate window entry %d", i)
		}
		spam[key] = int(count)
	}
	e.spam, e.sinceReset = spam, int(sinceReset)
	return nil
}
