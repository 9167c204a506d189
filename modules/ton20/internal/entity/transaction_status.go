package entity

import (
	"github.com/gaze-network/ton20-indexer/core/types"
	"github.com/holiman/uint256"
)

// TransactionStatus is the audit record of one evaluated transaction.
type TransactionStatus struct {
	TxHash         types.Hash
	Success        bool
	FailReason     string
	Lt             uint64
	OpCode         *string
	Tick           *string
	Initiator      types.Address
	MintAmount     uint256.Int
	TransferAmount uint256.Int
	TransferTo     *types.Address
	Memo           *string
}
