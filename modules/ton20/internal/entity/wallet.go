package entity

import (
	"github.com/gaze-network/ton20-indexer/core/types"
	"github.com/holiman/uint256"
)

type WalletKey struct {
	Tick    string
	Address types.Address
}

type Wallet struct {
	Tick    string
	Address types.Address
	Amount  uint256.Int
	// LastTxHash is the zero hash until the wallet is first touched by a transaction.
	LastTxHash types.Hash
}

func (w *Wallet) Key() WalletKey {
	return WalletKey{Tick: w.Tick, Address: w.Address}
}

func (w *Wallet) Clone() *Wallet {
	c := *w
	return &c
}
