package entity

import "github.com/gaze-network/ton20-indexer/core/types"

// Account is a cached classification of an on-chain account.
type Account struct {
	Address          types.Address
	IsContractWallet bool
	Blacklisted      bool
	CodeHash         *string
}

// IsWallet reports whether the account counts as a wallet contract for admission rules.
func (a *Account) IsWallet() bool {
	return a.IsContractWallet && !a.Blacklisted
}
