package postgres

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ton20-indexer/core/types"
	"github.com/gaze-network/ton20-indexer/modules/ton20/internal/entity"
	"github.com/gaze-network/ton20-indexer/pkg/decimals"
	"github.com/gaze-network/ton20-indexer/pkg/tonaddr"
	"github.com/holiman/uint256"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

func numericFromUint256(src *uint256.Int) pgtype.Numeric {
	return pgtype.Numeric{Int: src.ToBig(), Exp: 0, Valid: true}
}

func uint256FromNumeric(src pgtype.Numeric) (uint256.Int, error) {
	if !src.Valid || src.Int == nil {
		return uint256.Int{}, nil
	}
	v, err := decimals.ToUint256(decimal.NewFromBigInt(src.Int, src.Exp))
	if err != nil {
		return uint256.Int{}, errors.WithStack(err)
	}
	return *v, nil
}

func parseOptionalAddress(src *string) (*types.Address, error) {
	if src == nil {
		return nil, nil
	}
	addr, err := tonaddr.Normalize(*src)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &addr, nil
}

func mapTickTypeToArgs(src *entity.Tick) []any {
	return []any{
		src.Tick,
		numericFromUint256(&src.Max),
		numericFromUint256(&src.Lim),
		numericFromUint256(&src.Rest),
		src.DeployBy.String(),
		src.DeployTxHash.String(),
	}
}

func scanTick(row pgx.Row) (*entity.Tick, error) {
	var (
		tick              string
		maxAmt, lim, rest pgtype.Numeric
		deployBy, txHash  string
	)
	if err := row.Scan(&tick, &maxAmt, &lim, &rest, &deployBy, &txHash); err != nil {
		return nil, err
	}
	result := &entity.Tick{Tick: tick}
	var err error
	if result.Max, err = uint256FromNumeric(maxAmt); err != nil {
		return nil, errors.Wrap(err, "invalid max")
	}
	if result.Lim, err = uint256FromNumeric(lim); err != nil {
		return nil, errors.Wrap(err, "invalid lim")
	}
	if result.Rest, err = uint256FromNumeric(rest); err != nil {
		return nil, errors.Wrap(err, "invalid rest")
	}
	if result.DeployBy, err = tonaddr.Normalize(deployBy); err != nil {
		return nil, errors.Wrap(err, "invalid deploy_by")
	}
	if result.DeployTxHash, err = types.ParseHash(txHash); err != nil {
		return nil, errors.Wrap(err, "invalid deploy_tx_hash")
	}
	return result, nil
}

func mapWalletTypeToArgs(src *entity.Wallet) []any {
	return []any{
		src.Tick,
		src.Address.String(),
		numericFromUint256(&src.Amount),
		src.LastTxHash.String(),
	}
}

func scanWallet(row pgx.Row) (*entity.Wallet, error) {
	var (
		tick, wallet, txHash string
		amount               pgtype.Numeric
	)
	if err := row.Scan(&tick, &wallet, &amount, &txHash); err != nil {
		return nil, err
	}
	result := &entity.Wallet{Tick: tick}
	var err error
	if result.Address, err = tonaddr.Normalize(wallet); err != nil {
		return nil, errors.Wrap(err, "invalid wallet")
	}
	if result.Amount, err = uint256FromNumeric(amount); err != nil {
		return nil, errors.Wrap(err, "invalid amount")
	}
	if result.LastTxHash, err = types.ParseHash(txHash); err != nil {
		return nil, errors.Wrap(err, "invalid last_tx_hash")
	}
	return result, nil
}

func mapTransactionStatusTypeToRow(src *entity.TransactionStatus) []any {
	var transferTo *string
	if src.TransferTo != nil {
		transferTo = lo.ToPtr(src.TransferTo.String())
	}
	return []any{
		src.TxHash.String(),
		src.Success,
		src.FailReason,
		int64(src.Lt),
		src.OpCode,
		src.Tick,
		src.Initiator.String(),
		numericFromUint256(&src.MintAmount),
		numericFromUint256(&src.TransferAmount),
		transferTo,
		src.Memo,
	}
}

func scanTransactionStatus(row pgx.Row) (*entity.TransactionStatus, error) {
	var (
		txHash, initiator          string
		lt                         int64
		mintAmount, transferAmount pgtype.Numeric
		transferTo                 *string
		result                     entity.TransactionStatus
	)
	if err := row.Scan(&txHash, &result.Success, &result.FailReason, &lt, &result.OpCode, &result.Tick,
		&initiator, &mintAmount, &transferAmount, &transferTo, &result.Memo); err != nil {
		return nil, err
	}
	var err error
	if result.TxHash, err = types.ParseHash(txHash); err != nil {
		return nil, errors.Wrap(err, "invalid tx_hash")
	}
	result.Lt = uint64(lt)
	if result.Initiator, err = tonaddr.Normalize(initiator); err != nil {
		return nil, errors.Wrap(err, "invalid initiator")
	}
	if result.MintAmount, err = uint256FromNumeric(mintAmount); err != nil {
		return nil, errors.Wrap(err, "invalid mint_amount")
	}
	if result.TransferAmount, err = uint256FromNumeric(transferAmount); err != nil {
		return nil, errors.Wrap(err, "invalid transfer_amount")
	}
	if result.TransferTo, err = parseOptionalAddress(transferTo); err != nil {
		return nil, errors.Wrap(err, "invalid transfer_to")
	}
	return &result, nil
}

func scanSnapshot(row pgx.Row) (*entity.Snapshot, error) {
	var (
		stateHash, txHash string
		lt, seqno         int64
		createdAt         pgtype.Timestamptz
		result            entity.Snapshot
	)
	if err := row.Scan(&stateHash, &lt, &txHash, &seqno, &result.Data, &result.Admission, &createdAt); err != nil {
		return nil, err
	}
	var err error
	if result.StateHash, err = types.ParseHash(stateHash); err != nil {
		return nil, errors.Wrap(err, "invalid state_hash")
	}
	if result.TxHash, err = types.ParseHash(txHash); err != nil {
		return nil, errors.Wrap(err, "invalid tx_hash")
	}
	result.Lt = uint64(lt)
	result.BlockSeqno = uint32(seqno)
	if createdAt.Valid {
		result.CreatedAt = createdAt.Time
	}
	return &result, nil
}

func mapIndexerStateModelToType(clientVersion string, dbVersion, snapshotVersion int32, createdAt pgtype.Timestamptz) entity.IndexerState {
	var created time.Time
	if createdAt.Valid {
		created = createdAt.Time
	}
	return entity.IndexerState{
		CreatedAt:       created,
		ClientVersion:   clientVersion,
		DBVersion:       dbVersion,
		SnapshotVersion: snapshotVersion,
	}
}
