// Package dict encodes fixed-width-key dictionaries into a canonical byte form.
//
// Layout: entry count (uint32), then each entry in ascending key order as
// key bytes, value length (uint32) and value bytes. All integers are big-endian.
package dict

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"math"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ton20-indexer/common/errs"
)

// Entry is one key/value pair of a dictionary.
type Entry struct {
	Key   []byte
	Value []byte
}

// Encode appends the canonical form of entries to dst. Entries may be in any
// order; every key must be keyLen bytes and keys must be unique.
func Encode(dst []byte, keyLen int, entries []Entry) ([]byte, error) {
	sorted, err := sortEntries(keyLen, entries)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	dst = binary.BigEndian.AppendUint32(dst, uint32(len(sorted)))
	for _, e := range sorted {
		if uint64(len(e.Value)) > math.MaxUint32 {
			return nil, errors.Wrapf(errs.CodecError, "value of key %x too large", e.Key)
		}
		dst = append(dst, e.Key...)
		dst = binary.BigEndian.AppendUint32(dst, uint32(len(e.Value)))
		dst = append(dst, e.Value...)
	}
	return dst, nil
}

// Decode reads one dictionary from the start of data and returns its entries
// in key order together with the number of bytes consumed. Unsorted or
// duplicate keys are rejected. Returned slices alias data.
func Decode(data []byte, keyLen int) ([]Entry, int, error) {
	if keyLen <= 0 {
		return nil, 0, errors.Wrapf(errs.CodecError, "invalid key length %d", keyLen)
	}
	if len(data) < 4 {
		return nil, 0, errors.Wrap(errs.CodecError, "truncated dictionary header")
	}
	count := binary.BigEndian.Uint32(data)
	off := 4

	// every entry takes at least keyLen+4 bytes
	if uint64(count)*uint64(keyLen+4) > uint64(len(data)-off) {
		return nil, 0, errors.Wrapf(errs.CodecError, "truncated dictionary: %d entries declared", count)
	}
	entries := make([]Entry, 0, count)
	for i := uint32(0); i < count; i++ {
		if len(data)-off < keyLen+4 {
			return nil, 0, errors.Wrapf(errs.CodecError, "truncated dictionary entry %d", i)
		}
		key := data[off : off+keyLen]
		off += keyLen
		valueLen := binary.BigEndian.Uint32(data[off:])
		off += 4
		if uint64(valueLen) > uint64(len(data)-off) {
			return nil, 0, errors.Wrapf(errs.CodecError, "truncated value of dictionary entry %d", i)
		}
		value := data[off : off+int(valueLen)]
		off += int(valueLen)

		if n := len(entries); n > 0 && bytes.Compare(entries[n-1].Key, key) >= 0 {
			return nil, 0, errors.Wrapf(errs.CodecError, "dictionary key %x is out of order or duplicated", key)
		}
		entries = append(entries, Entry{Key: key, Value: value})
	}
	return entries, off, nil
}

// Hash commits to every key and the SHA-256 of its value.
func Hash(keyLen int, entries []Entry) ([32]byte, error) {
	hashed := make([]HashedEntry, len(entries))
	for i, e := range entries {
		hashed[i] = HashedEntry{Key: e.Key, ValueHash: sha256.Sum256(e.Value)}
	}
	return HashEntries(keyLen, hashed)
}

// HashedEntry is a key with the hash of its value, for values whose hash is
// not simply the SHA-256 of their bytes.
type HashedEntry struct {
	Key       []byte
	ValueHash [32]byte
}

// HashEntries commits to the key length and every key/value-hash pair in key order.
func HashEntries(keyLen int, entries []HashedEntry) ([32]byte, error) {
	sorted := make([]HashedEntry, len(entries))
	copy(sorted, entries)
	for _, e := range sorted {
		if len(e.Key) != keyLen {
			return [32]byte{}, errors.Wrapf(errs.CodecError, "key %x has %d bytes, want %d", e.Key, len(e.Key), keyLen)
		}
	}
	sort.Slice(sorted, func(i, j int) bool { return bytes.Compare(sorted[i].Key, sorted[j].Key) < 0 })
	for i := 1; i < len(sorted); i++ {
		if bytes.Equal(sorted[i-1].Key, sorted[i].Key) {
			return [32]byte{}, errors.Wrapf(errs.CodecError, "duplicate key %x", sorted[i].Key)
		}
	}

	h := sha256.New()
	var buf [8]byte
	binary.BigEndian.PutUint32(buf[:4], uint32(keyLen))
	binary.BigEndian.PutUint32(buf[4:], uint32(len(sorted)))
	h.Write(buf[:])
	for _, e := range sorted {
		h.Write(e.Key)
		h.Write(e.ValueHash[:])
	}
	var sum [32]byte
	copy(sum[:], h.Sum(nil))
	return sum, nil
}

func sortEntries(keyLen int, entries []Entry) ([]Entry, error) {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	for _, e := range sorted {
		if len(e.Key) != keyLen {
			return nil, errors.Wrapf(errs.CodecError, "key %x has %d bytes, want %d", e.Key, len(e.Key), keyLen)
		}
	}
	sort.Slice(sorted, func(i, j int) bool { return bytes.Compare(sorted[i].Key, sorted[j].Key) < 0 })
	for i := 1; i < len(sorted); i++ {
		if bytes.Equal(sorted[i-1].Key, sorted[i].Key) {
			return nil, errors.Wrapf(errs.CodecError, "duplicate key %x", sorted[i].Key)
		}
	}
	if uint64(len(sorted)) > math.MaxUint32 {
		return nil, errors.Wrap(errs.CodecError, "too many entries")
	}
	return sorted, nil
}
