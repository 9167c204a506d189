package types

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ton20-indexer/common/errs"
)

// Hash is a 256-bit transaction hash.
type Hash [32]byte

// ParseHash parses 64 hex characters, in either case.
func ParseHash(s string) (Hash, error) {
	var h Hash
	if len(s) != 2*len(h) {
		return h, errors.Wrapf(errs.InvalidArgument, "hash must be %d hex characters, got %d", 2*len(h), len(s))
	}
	if _, err := hex.Decode(h[:], []byte(s)); err != nil {
		return h, errors.Wrap(errs.InvalidArgument, err.Error())
	}
	return h, nil
}

// String returns the uppercase hex form used in every persisted table.
func (h Hash) String() string {
	return strings.ToUpper(hex.EncodeToString(h[:]))
}

func (h Hash) Compare(o Hash) int {
	return bytes.Compare(h[:], o[:])
}

// Address is an internal account address: a signed 8-bit workchain and a 256-bit account id.
type Address struct {
	Workchain int8
	Account   [32]byte
}

// String returns the canonical "wc:HEX" form.
func (a Address) String() string {
	return fmt.Sprintf("%d:%s", a.Workchain, strings.ToUpper(hex.EncodeToString(a.Account[:])))
}

// IsZero reports whether a is the distinguished zero address 0:000...0.
func (a Address) IsZero() bool {
	return a.Workchain == 0 && a.Account == [32]byte{}
}

// Transaction is one decoded inbound message as delivered by the transaction source.
type Transaction struct {
	BlockSeqno  uint32 // masterchain reference seqno
	Destination Address
	Lt          uint64 // created lt of the inbound message
	CreatedAt   int64  // created_at of the inbound message, unix seconds
	Sender      Address
	Comment     map[string]any // nil unless the comment is a JSON object
	Hash        Hash
}

// Position returns the ordering key of the transaction.
func (t *Transaction) Position() Position {
	return Position{Lt: t.Lt, Hash: t.Hash}
}

// Position is the (lt, hash) total order of the transaction stream.
type Position struct {
	Lt   uint64
	Hash Hash
}

func (p Position) Compare(o Position) int {
	switch {
	case p.Lt < o.Lt:
		return -1
	case p.Lt > o.Lt:
		return 1
	}
	return p.Hash.Compare(o.Hash)
}

func (p Position) String() string {
	return fmt.Sprintf("%d/%s", p.Lt, p.Hash)
}

// Watermark marks the last durably processed transaction.
// A nil Hash means nothing has been processed yet.
type Watermark struct {
	Lt         uint64
	Hash       *Hash
	BlockSeqno uint32
}

// Matches reports whether tx is the transaction the watermark points at.
func (w Watermark) Matches(tx *Transaction) bool {
	return w.Hash != nil && tx.Lt == w.Lt && tx.Hash == *w.Hash
}

// Cursor selects where the next fetch starts. With a nil Hash the fetch
// includes every transaction with lt >= Lt, otherwise only positions
// strictly after (Lt, Hash).
type Cursor struct {
	Lt   uint64
	Hash *Hash
}

// After returns the cursor strictly after tx.
func After(tx *Transaction) Cursor {
	h := tx.Hash
	return Cursor{Lt: tx.Lt, Hash: &h}
}
