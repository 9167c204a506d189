package engine

import (
	"github.com/gaze-network/ton20-indexer/core/types"
	"github.com/gaze-network/ton20-indexer/modules/ton20/internal/entity"
	"github.com/gaze-network/ton20-indexer/modules/ton20/internal/ton20"
	"github.com/gaze-network/ton20-indexer/pkg/tonaddr"
	"github.com/samber/lo"
)

const (
	maxAuditTickLen = 200
	maxAuditMemoLen = 254
)

// newTransactionStatus builds the audit record. Transactions rejected before
// reaching an operation handler only record who sent them.
func newTransactionStatus(tx *types.Transaction, admitted bool, outcome Outcome) *entity.TransactionStatus {
	status := &entity.TransactionStatus{
		TxHash:     tx.Hash,
		Success:    outcome.Accepted,
		FailReason: outcome.Reason.String(),
		Lt:         tx.Lt,
		Initiator:  tx.Sender,
	}
	if !admitted {
		return status
	}

	comment := tx.Comment
	op, _ := comment["op"].(string)
	status.OpCode = lo.ToPtr(op)
	status.Tick = lo.ToPtr(ton20.StripNUL(ton20.NormalizeTick(ton20.Truncate(ton20.Str(comment["tick"]), maxAuditTickLen))))

	amt, ok := comment["amt"]
	if !ok {
		amt = ""
	}
	if ton20.Operation(op) == ton20.OperationMint {
		status.MintAmount = ton20.TryInteger(amt)
	} else {
		status.TransferAmount = ton20.TryInteger(amt)
	}

	if to, ok := comment["to"].(string); ok {
		if addr, err := tonaddr.Normalize(to); err == nil {
			status.TransferTo = &addr
		}
	}

	memo := ""
	if v, ok := comment["memo"]; ok {
		memo = ton20.StripNUL(ton20.Truncate(ton20.Str(v), maxAuditMemoLen))
	}
	status.Memo = &memo
	return status
}
