// Package snapshot implements the canonical binary form of the whole TON-20
// ledger and its content hash.
package snapshot

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"sort"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ton20-indexer/common/errs"
	"github.com/gaze-network/ton20-indexer/core/types"
	"github.com/gaze-network/ton20-indexer/modules/ton20/internal/entity"
	"github.com/gaze-network/ton20-indexer/modules/ton20/internal/ledger"
	"github.com/gaze-network/ton20-indexer/modules/ton20/internal/snapshot/dict"
)

const (
	FormatTag     uint32 = 0x64746f6e // "dton"
	FormatVersion        = 1

	tickVariant = 0

	tickKeyLen   = 32
	walletKeyLen = 33
	// deployer workchain, deployer account, deploy tx hash
	deployRecordLen = 1 + 32 + 32
	walletValueLen  = 32 + 32
)

// Header is the watermark the snapshot was taken at.
type Header struct {
	LastTxHash types.Hash
	LastTxLt   uint64
	BlockSeqno uint32
}

// TickState is a tick with all of its non-empty wallets.
type TickState struct {
	Tick    *entity.Tick
	Wallets []*entity.Wallet
}

// State is a full ledger at a watermark. Ticks are sorted by symbol and
// wallets by address, the order ledger.Store reports them in.
type State struct {
	Header
	Ticks []TickState
}

// FromLedger captures the current content of the store.
func FromLedger(store *ledger.Store, header Header) *State {
	state := &State{Header: header}
	for _, t := range store.Ticks() {
		state.Ticks = append(state.Ticks, TickState{
			Tick:    t.Clone(),
			Wallets: cloneWallets(store.Wallets(t.Tick)),
		})
	}
	return state
}

// Load replaces the content of store with the state.
func (s *State) Load(store *ledger.Store) error {
	ticks := make([]*entity.Tick, 0, len(s.Ticks))
	var wallets []*entity.Wallet
	for _, ts := range s.Ticks {
		ticks = append(ticks, ts.Tick)
		wallets = append(wallets, ts.Wallets...)
	}
	return errors.WithStack(store.Import(ticks, wallets))
}

func (s *State) Watermark() types.Watermark {
	h := s.LastTxHash
	return types.Watermark{Lt: s.LastTxLt, Hash: &h, BlockSeqno: s.BlockSeqno}
}

func (s *State) WalletCount() int {
	n := 0
	for _, ts := range s.Ticks {
		n += len(ts.Wallets)
	}
	return n
}

// Encode serializes the state and returns its content hash.
func Encode(s *State) ([]byte, types.Hash, error) {
	tickEntries := make([]dict.Entry, 0, len(s.Ticks))
	tickHashes := make([]dict.HashedEntry, 0, len(s.Ticks))
	for _, ts := range s.Ticks {
		key, err := TickKey(ts.Tick.Tick)
		if err != nil {
			return nil, types.Hash{}, errors.WithStack(err)
		}
		value, valueHash, err := encodeTick(ts)
		if err != nil {
			return nil, types.Hash{}, errors.Wrapf(err, "failed to encode tick %q", ts.Tick.Tick)
		}
		tickEntries = append(tickEntries, dict.Entry{Key: key[:], Value: value})
		tickHashes = append(tickHashes, dict.HashedEntry{Key: key[:], ValueHash: valueHash})
	}

	buf := make([]byte, 0, 64+len(s.Ticks)*256)
	buf = appendHeader(buf, s.Header)
	hash := sha256.New()
	hash.Write(buf)
	if len(tickEntries) == 0 {
		buf = append(buf, 0)
		hash.Write([]byte{0})
	} else {
		buf = append(buf, 1)
		var err error
		if buf, err = dict.Encode(buf, tickKeyLen, tickEntries); err != nil {
			return nil, types.Hash{}, errors.WithStack(err)
		}
		dictHash, err := dict.HashEntries(tickKeyLen, tickHashes)
		if err != nil {
			return nil, types.Hash{}, errors.WithStack(err)
		}
		hash.Write([]byte{1})
		hash.Write(dictHash[:])
	}

	var stateHash types.Hash
	copy(stateHash[:], hash.Sum(nil))
	return buf, stateHash, nil
}

func appendHeader(buf []byte, h Header) []byte {
	buf = binary.BigEndian.AppendUint32(buf, FormatTag)
	buf = append(buf, FormatVersion)
	buf = append(buf, h.LastTxHash[:]...)
	buf = binary.BigEndian.AppendUint64(buf, h.LastTxLt)
	buf = binary.BigEndian.AppendUint32(buf, h.BlockSeqno)
	return buf
}

func encodeTick(ts TickState) ([]byte, [32]byte, error) {
	t := ts.Tick
	if t.Rest.Gt(&t.Max) {
		return nil, [32]byte{}, errors.Wrap(errs.CodecError, "remaining supply exceeds max")
	}

	buf := make([]byte, 0, 1+3*32+2+deployRecordLen+1)
	buf = append(buf, tickVariant)
	buf = appendUint256(buf, t.Max.Bytes32())
	buf = appendUint256(buf, t.Lim.Bytes32())
	buf = appendUint256(buf, t.Rest.Bytes32())

	record := make([]byte, 0, deployRecordLen)
	record = append(record, byte(t.DeployBy.Workchain))
	record = append(record, t.DeployBy.Account[:]...)
	record = append(record, t.DeployTxHash[:]...)
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(record)))
	buf = append(buf, record...)
	recordHash := sha256.Sum256(record)

	hash := sha256.New()
	hash.Write(buf[:1+3*32])
	hash.Write(recordHash[:])

	if len(ts.Wallets) == 0 {
		buf = append(buf, 0)
		hash.Write([]byte{0})
	} else {
		entries := make([]dict.Entry, 0, len(ts.Wallets))
		for _, w := range ts.Wallets {
			if w.Tick != t.Tick {
				return nil, [32]byte{}, errors.Wrapf(errs.CodecError, "wallet %s belongs to %q", w.Address, w.Tick)
			}
			if w.Amount.IsZero() {
				return nil, [32]byte{}, errors.Wrapf(errs.CodecError, "wallet %s has zero balance", w.Address)
			}
			key := WalletKey(w.Address)
			value := make([]byte, 0, walletValueLen)
			value = appendUint256(value, w.Amount.Bytes32())
			value = append(value, w.LastTxHash[:]...)
			entries = append(entries, dict.Entry{Key: key[:], Value: value})
		}
		buf = append(buf, 1)
		var err error
		if buf, err = dict.Encode(buf, walletKeyLen, entries); err != nil {
			return nil, [32]byte{}, errors.WithStack(err)
		}
		walletsHash, err := dict.Hash(walletKeyLen, entries)
		if err != nil {
			return nil, [32]byte{}, errors.WithStack(err)
		}
		hash.Write([]byte{1})
		hash.Write(walletsHash[:])
	}

	var sum [32]byte
	copy(sum[:], hash.Sum(nil))
	return buf, sum, nil
}

func appendUint256(buf []byte, b [32]byte) []byte {
	return append(buf, b[:]...)
}

// TickKey encodes a tick symbol as a 256-bit big-endian integer of its UTF-8 bytes.
func TickKey(tick string) ([tickKeyLen]byte, error) {
	var key [tickKeyLen]byte
	switch {
	case tick == "":
		return key, errors.Wrap(errs.CodecError, "empty tick")
	case tick[0] == 0:
		return key, errors.Wrapf(errs.CodecError, "tick %q starts with NUL", tick)
	case len(tick) > tickKeyLen:
		return key, errors.Wrapf(errs.CodecError, "tick %q is longer than %d bytes", tick, tickKeyLen)
	}
	copy(key[tickKeyLen-len(tick):], tick)
	return key, nil
}

func tickFromKey(key []byte) (string, error) {
	tick := string(bytes.TrimLeft(key, "\x00"))
	if tick == "" || !utf8.ValidString(tick) {
		return "", errors.Wrapf(errs.CodecError, "invalid tick key %x", key)
	}
	return tick, nil
}

func WalletKey(addr types.Address) [walletKeyLen]byte {
	var key [walletKeyLen]byte
	key[0] = byte(addr.Workchain)
	copy(key[1:], addr.Account[:])
	return key
}

func sortState(s *State) {
	sort.Slice(s.Ticks, func(i, j int) bool { return s.Ticks[i].Tick.Tick < s.Ticks[j].Tick.Tick })
	for _, ts := range s.Ticks {
		sort.Slice(ts.Wallets, func(i, j int) bool {
			a, b := ts.Wallets[i].Address, ts.Wallets[j].Address
			if a.Workchain != b.Workchain {
				return a.Workchain < b.Workchain
			}
			return bytes.Compare(a.Account[:], b.Account[:]) < 0
		})
	}
}

func cloneWallets(wallets []*entity.Wallet) []*entity.Wallet {
	out := make([]*entity.Wallet, len(wallets))
	for i, w := range wallets {
		out[i] = w.Clone()
	}
	return out
}
