package snapshot

import (
	"bytes"
	"encoding/binary"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ton20-indexer/common/errs"
	"github.com/gaze-network/ton20-indexer/core/types"
	"github.com/gaze-network/ton20-indexer/modules/ton20/internal/entity"
	"github.com/gaze-network/ton20-indexer/modules/ton20/internal/snapshot/dict"
	"github.com/holiman/uint256"
)

type reader struct {
	data []byte
	off  int
}

func (r *reader) take(n int) ([]byte, error) {
	if len(r.data)-r.off < n {
		return nil, errors.Wrapf(errs.CodecError, "truncated input: need %d bytes at offset %d", n, r.off)
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *reader) uint8() (uint8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *reader) presence() (bool, error) {
	b, err := r.uint8()
	if err != nil {
		return false, err
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, errors.Wrapf(errs.CodecError, "invalid presence flag %d", b)
}

func (r *reader) uint256() (uint256.Int, error) {
	b, err := r.take(32)
	if err != nil {
		return uint256.Int{}, err
	}
	var v uint256.Int
	v.SetBytes32(b)
	return v, nil
}

func (r *reader) hash() (types.Hash, error) {
	var h types.Hash
	b, err := r.take(len(h))
	if err != nil {
		return h, err
	}
	copy(h[:], b)
	return h, nil
}

// dictionary reads one dictionary and requires it to hold at least one entry,
// since an empty one is encoded as an absent presence flag.
func (r *reader) dictionary(keyLen int) ([]dict.Entry, error) {
	entries, n, err := dict.Decode(r.data[r.off:], keyLen)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	r.off += n
	if len(entries) == 0 {
		return nil, errors.Wrap(errs.CodecError, "present dictionary is empty")
	}
	return entries, nil
}

func (r *reader) done() error {
	if r.off != len(r.data) {
		return errors.Wrapf(errs.CodecError, "%d trailing bytes", len(r.data)-r.off)
	}
	return nil
}

// Decode parses an encoded state and returns it with the content hash
// recomputed from the decoded tree.
func Decode(data []byte) (*State, types.Hash, error) {
	state, err := decode(data)
	if err != nil {
		return nil, types.Hash{}, errors.WithStack(err)
	}
	encoded, hash, err := Encode(state)
	if err != nil {
		return nil, types.Hash{}, errors.WithStack(err)
	}
	if !bytes.Equal(encoded, data) {
		return nil, types.Hash{}, errors.Wrap(errs.CodecError, "snapshot is not in canonical form")
	}
	return state, hash, nil
}

func decode(data []byte) (*State, error) {
	r := &reader{data: data}

	tagBytes, err := r.take(4)
	if err != nil {
		return nil, err
	}
	if tag := binary.BigEndian.Uint32(tagBytes); tag != FormatTag {
		return nil, errors.Wrapf(errs.CodecError, "unknown format tag %#08x", tag)
	}
	version, err := r.uint8()
	if err != nil {
		return nil, err
	}
	if version != FormatVersion {
		return nil, errors.Wrapf(errs.CodecError, "unsupported format version %d", version)
	}

	state := &State{}
	if state.LastTxHash, err = r.hash(); err != nil {
		return nil, err
	}
	b, err := r.take(8 + 4)
	if err != nil {
		return nil, err
	}
	state.LastTxLt = binary.BigEndian.Uint64(b)
	state.BlockSeqno = binary.BigEndian.Uint32(b[8:])

	present, err := r.presence()
	if err != nil {
		return nil, err
	}
	if present {
		entries, err := r.dictionary(tickKeyLen)
		if err != nil {
			return nil, errors.Wrap(err, "ticks")
		}
		for _, e := range entries {
			tick, err := tickFromKey(e.Key)
			if err != nil {
				return nil, err
			}
			ts, err := decodeTick(tick, e.Value)
			if err != nil {
				return nil, errors.Wrapf(err, "tick %q", tick)
			}
			state.Ticks = append(state.Ticks, ts)
		}
	}
	if err := r.done(); err != nil {
		return nil, err
	}
	sortState(state)
	return state, nil
}

func decodeTick(tick string, data []byte) (TickState, error) {
	r := &reader{data: data}
	variant, err := r.uint8()
	if err != nil {
		return TickState{}, err
	}
	if variant != tickVariant {
		return TickState{}, errors.Wrapf(errs.CodecError, "unknown tick variant %d", variant)
	}

	t := &entity.Tick{Tick: tick}
	if t.Max, err = r.uint256(); err != nil {
		return TickState{}, err
	}
	if t.Lim, err = r.uint256(); err != nil {
		return TickState{}, err
	}
	if t.Rest, err = r.uint256(); err != nil {
		return TickState{}, err
	}
	if t.Rest.Gt(&t.Max) {
		return TickState{}, errors.Wrap(errs.CodecError, "remaining supply exceeds max")
	}

	lenBytes, err := r.take(2)
	if err != nil {
		return TickState{}, err
	}
	if n := binary.BigEndian.Uint16(lenBytes); n != deployRecordLen {
		return TickState{}, errors.Wrapf(errs.CodecError, "deploy record has %d bytes, want %d", n, deployRecordLen)
	}
	record, err := r.take(deployRecordLen)
	if err != nil {
		return TickState{}, err
	}
	t.DeployBy.Workchain = int8(record[0])
	copy(t.DeployBy.Account[:], record[1:33])
	copy(t.DeployTxHash[:], record[33:])

	ts := TickState{Tick: t}
	present, err := r.presence()
	if err != nil {
		return TickState{}, err
	}
	if present {
		entries, err := r.dictionary(walletKeyLen)
		if err != nil {
			return TickState{}, errors.Wrap(err, "wallets")
		}
		for _, e := range entries {
			w, err := decodeWallet(tick, e)
			if err != nil {
				return TickState{}, err
			}
			ts.Wallets = append(ts.Wallets, w)
		}
	}
	if err := r.done(); err != nil {
		return TickState{}, err
	}
	return ts, nil
}

func decodeWallet(tick string, e dict.Entry) (*entity.Wallet, error) {
	if len(e.Value) != walletValueLen {
		return nil, errors.Wrapf(errs.CodecError, "wallet record has %d bytes, want %d", len(e.Value), walletValueLen)
	}
	w := &entity.Wallet{Tick: tick}
	w.Address.Workchain = int8(e.Key[0])
	copy(w.Address.Account[:], e.Key[1:])
	w.Amount.SetBytes32(e.Value[:32])
	copy(w.LastTxHash[:], e.Value[32:])
	if w.Amount.IsZero() {
		return nil, errors.Wrapf(errs.CodecError, "wallet %s has zero balance", w.Address)
	}
	return w, nil
}
