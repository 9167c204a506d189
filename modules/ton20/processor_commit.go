package ton20

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ton20-indexer/common/errs"
	"github.com/gaze-network/ton20-indexer/modules/ton20/internal/entity"
	"github.com/gaze-network/ton20-indexer/modules/ton20/internal/snapshot"
	"github.com/gaze-network/ton20-indexer/pkg/logger"
	"github.com/gaze-network/ton20-indexer/pkg/logger/slogx"
)

// commit persists the audit records, the ledger and a snapshot of it in one
// database transaction, then advances the watermark. The spam window is stored
// with the snapshot, so a commit never changes later admission outcomes. A commit with nothing
// evaluated since the previous one is a no-op.
func (p *Processor) commit(ctx context.Context) error {
	if p.engine.Uncommitted() == 0 || p.lastTx == nil {
		return nil
	}
	startAt := time.Now()

	state := snapshot.FromLedger(p.store, snapshot.Header{
		LastTxHash: p.lastTx.Hash,
		LastTxLt:   p.lastTx.Lt,
		BlockSeqno: p.lastTx.BlockSeqno,
	})
	data, stateHash, err := snapshot.Encode(state)
	if err != nil {
		return errors.Wrap(err, "failed to encode snapshot")
	}
	snap := &entity.Snapshot{
		StateHash:  stateHash,
		Lt:         p.lastTx.Lt,
		TxHash:     p.lastTx.Hash,
		BlockSeqno: p.lastTx.BlockSeqno,
		Data:       data,
		Admission:  p.engine.WindowState(),
	}
	statuses := p.engine.Statuses()

	if err := p.persist(ctx, snap, statuses); err != nil {
		return errors.Mark(errors.Wrap(err, "failed to commit state"), errs.PersistenceError)
	}

	p.store.ClearChanges()
	p.engine.Committed()
	p.watermark = snap.Watermark()

	logger.InfoContext(ctx, "Committed ledger snapshot",
		slogx.String("event", "commit_snapshot"),
		slogx.Uint64("lt", snap.Lt),
		slogx.Stringer("tx_hash", snap.TxHash),
		slogx.Stringer("state_hash", snap.StateHash),
		slogx.Int("transactions", len(statuses)),
		slogx.Int("ticks", len(state.Ticks)),
		slogx.Int("wallets", state.WalletCount()),
		slogx.Int("bytes", len(data)),
		slogx.Duration("duration", time.Since(startAt)),
	)

	if p.archiver != nil {
		if err := p.archiver.Archive(ctx, snap, statuses); err != nil {
			logger.WarnContext(ctx, "Failed to archive snapshot",
				slogx.Error(err),
				slogx.String("event", "archive_snapshot"),
				slogx.Stringer("state_hash", snap.StateHash),
			)
		}
	}
	return nil
}

func (p *Processor) persist(ctx context.Context, snap *entity.Snapshot, statuses []*entity.TransactionStatus) error {
	ton20DgTx, err := p.ton20Dg.BeginTON20Tx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer func() {
		if err := ton20DgTx.Rollback(ctx); err != nil {
			logger.WarnContext(ctx, "failed to rollback transaction",
				slogx.Error(err),
				slogx.String("event", "rollback_ton20_commit"),
			)
		}
	}()

	if err := ton20DgTx.CreateTransactionStatuses(ctx, statuses); err != nil {
		return errors.Wrap(err, "failed to create transaction statuses")
	}
	if err := p.store.Changes().Apply(ctx, ton20DgTx); err != nil {
		return errors.Wrap(err, "failed to write ledger")
	}
	if err := ton20DgTx.CreateSnapshot(ctx, snap); err != nil {
		return errors.Wrap(err, "failed to create snapshot")
	}
	if err := ton20DgTx.Commit(ctx); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	return nil
}
