package ton20

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ton20-indexer/common/errs"
	"github.com/gaze-network/ton20-indexer/core/types"
	"github.com/gaze-network/ton20-indexer/pkg/logger"
	"github.com/gaze-network/ton20-indexer/pkg/logger/slogx"
	"github.com/samber/lo"
)

// Process implements indexer.Processor.
func (p *Processor) Process(ctx context.Context, txs []*types.Transaction) error {
	p.classifier.Prefetch(ctx, lo.FilterMap(txs, func(tx *types.Transaction, _ int) (types.Address, bool) {
		return tx.Sender, !p.skipping || tx.Position().Compare(p.watermarkPosition()) > 0
	}))

	for _, tx := range txs {
		if p.skipping {
			skip, err := p.skip(tx)
			if err != nil {
				return errors.WithStack(err)
			}
			if skip {
				continue
			}
		}

		outcome, err := p.engine.AddTransaction(ctx, tx)
		if err != nil {
			return errors.Wrap(err, "failed to add transaction")
		}
		p.lastTx = tx
		if !outcome.Accepted {
			logger.DebugContext(ctx, "Transaction rejected",
				slogx.Stringer("tx_hash", tx.Hash),
				slogx.Uint64("lt", tx.Lt),
				slogx.String("reason", string(outcome.Reason)),
			)
		}

		if p.engine.SinceReset() >= p.commitEvery {
			p.engine.ResetWindow()
			if err := p.commit(ctx); err != nil {
				return errors.WithStack(err)
			}
		}
	}

	// keep the read tables close to the in-memory ledger between commits
	if err := p.store.Flush(ctx, p.ton20Dg); err != nil {
		return errors.Mark(errors.Wrap(err, "failed to flush ledger"), errs.PersistenceError)
	}
	return nil
}

// skip consumes transactions up to and including the watermark without applying them.
func (p *Processor) skip(tx *types.Transaction) (bool, error) {
	if p.watermark.Matches(tx) {
		p.skipping = false
		return true, nil
	}
	if tx.Position().Compare(p.watermarkPosition()) > 0 {
		return false, errors.Wrapf(errs.NotFound, "watermark transaction %s is missing from the source, got %s", p.watermarkPosition(), tx.Position())
	}
	return true, nil
}

func (p *Processor) watermarkPosition() types.Position {
	pos := types.Position{Lt: p.watermark.Lt}
	if p.watermark.Hash != nil {
		pos.Hash = *p.watermark.Hash
	}
	return pos
}
