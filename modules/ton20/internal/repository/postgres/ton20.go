package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ton20-indexer/common/errs"
	"github.com/gaze-network/ton20-indexer/core/types"
	"github.com/gaze-network/ton20-indexer/modules/ton20/internal/datagateway"
	"github.com/gaze-network/ton20-indexer/modules/ton20/internal/entity"
	"github.com/jackc/pgx/v5"
	"github.com/samber/lo"
)

var _ datagateway.TON20DataGateway = (*Repository)(nil)

// batchSize caps the statements queued in one pgx.Batch.
const batchSize = 1000

func (r *Repository) GetLatestSnapshot(ctx context.Context) (*entity.Snapshot, error) {
	snapshot, err := scanSnapshot(r.queries.QueryRow(ctx, getLatestSnapshot))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.WithStack(errs.NotFound)
		}
		return nil, errors.Wrap(err, "error during query")
	}
	return snapshot, nil
}

func (r *Repository) GetTick(ctx context.Context, tick string) (*entity.Tick, error) {
	result, err := scanTick(r.queries.QueryRow(ctx, getTick, tick))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.WithStack(errs.NotFound)
		}
		return nil, errors.Wrap(err, "error during query")
	}
	return result, nil
}

func (r *Repository) GetTicks(ctx context.Context, ticks []string) ([]*entity.Tick, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if len(ticks) == 0 {
		rows, err = r.queries.Query(ctx, getAllTicks)
	} else {
		rows, err = r.queries.Query(ctx, getTicksByTicks, ticks)
	}
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	return collect(rows, scanTick)
}

func (r *Repository) GetWallet(ctx context.Context, tick string, addr types.Address) (*entity.Wallet, error) {
	result, err := scanWallet(r.queries.QueryRow(ctx, getWallet, tick, addr.String()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.WithStack(errs.NotFound)
		}
		return nil, errors.Wrap(err, "error during query")
	}
	return result, nil
}

func (r *Repository) GetWalletsByAddress(ctx context.Context, addr types.Address) ([]*entity.Wallet, error) {
	rows, err := r.queries.Query(ctx, getWalletsByAddress, addr.String())
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	return collect(rows, scanWallet)
}

func (r *Repository) GetHoldersByTick(ctx context.Context, tick string, limit, offset int32) ([]*entity.Wallet, error) {
	rows, err := r.queries.Query(ctx, getHoldersByTick, tick, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	return collect(rows, scanWallet)
}

func (r *Repository) CountHoldersByTick(ctx context.Context, tick string) (int64, error) {
	var count int64
	if err := r.queries.QueryRow(ctx, countHoldersByTick, tick).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "error during query")
	}
	return count, nil
}

func (r *Repository) GetTransactionStatus(ctx context.Context, txHash types.Hash) (*entity.TransactionStatus, error) {
	result, err := scanTransactionStatus(r.queries.QueryRow(ctx, getTransactionStatus, txHash.String()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.WithStack(errs.NotFound)
		}
		return nil, errors.Wrap(err, "error during query")
	}
	return result, nil
}

func (r *Repository) GetTransactionStatusesByInitiator(ctx context.Context, addr types.Address, filter datagateway.StatusFilter) ([]*entity.TransactionStatus, error) {
	rows, err := r.queries.Query(ctx, getTransactionStatusesByInitiator,
		addr.String(), filter.Success, filter.OpCode, filter.Limit, filter.Offset)
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	return collect(rows, scanTransactionStatus)
}

func (r *Repository) GetTransactionStatusesByTick(ctx context.Context, tick string, filter datagateway.StatusFilter) ([]*entity.TransactionStatus, error) {
	rows, err := r.queries.Query(ctx, getTransactionStatusesByTick,
		tick, filter.Success, filter.OpCode, filter.Limit, filter.Offset)
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	return collect(rows, scanTransactionStatus)
}

func (r *Repository) DeleteWallets(ctx context.Context, keys []entity.WalletKey) error {
	for _, chunk := range lo.Chunk(keys, batchSize) {
		batch := &pgx.Batch{}
		for _, key := range chunk {
			batch.Queue(deleteWallet, key.Tick, key.Address.String())
		}
		if err := r.sendBatch(ctx, batch); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

func (r *Repository) UpsertTicks(ctx context.Context, ticks []*entity.Tick) error {
	for _, chunk := range lo.Chunk(ticks, batchSize) {
		batch := &pgx.Batch{}
		for _, tick := range chunk {
			batch.Queue(upsertTick, mapTickTypeToArgs(tick)...)
		}
		if err := r.sendBatch(ctx, batch); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

func (r *Repository) UpsertWallets(ctx context.Context, wallets []*entity.Wallet) error {
	for _, chunk := range lo.Chunk(wallets, batchSize) {
		batch := &pgx.Batch{}
		for _, wallet := range chunk {
			batch.Queue(upsertWallet, mapWalletTypeToArgs(wallet)...)
		}
		if err := r.sendBatch(ctx, batch); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

func (r *Repository) ResetLedger(ctx context.Context) error {
	if _, err := r.queries.Exec(ctx, resetWallets); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	if _, err := r.queries.Exec(ctx, resetTicks); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) CreateTransactionStatuses(ctx context.Context, statuses []*entity.TransactionStatus) error {
	if len(statuses) == 0 {
		return nil
	}
	_, err := r.queries.CopyFrom(ctx,
		pgx.Identifier{"ton20_transaction_statuses"},
		transactionStatusColumns,
		pgx.CopyFromSlice(len(statuses), func(i int) ([]any, error) {
			return mapTransactionStatusTypeToRow(statuses[i]), nil
		}),
	)
	if err != nil {
		return errors.Wrap(err, "error during copy")
	}
	return nil
}

func (r *Repository) CreateSnapshot(ctx context.Context, snapshot *entity.Snapshot) error {
	_, err := r.queries.Exec(ctx, createSnapshot,
		snapshot.StateHash.String(),
		int64(snapshot.Lt),
		snapshot.TxHash.String(),
		int64(snapshot.BlockSeqno),
		snapshot.Data,
		lo.Ternary(snapshot.Admission == nil, []byte{}, snapshot.Admission),
	)
	if err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func collect[T any](rows pgx.Rows, scan func(pgx.Row) (T, error)) ([]T, error) {
	defer rows.Close()
	var result []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, errors.Wrap(err, "error during scan")
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	return result, nil
}
