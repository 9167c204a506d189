package ton20

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ton20-indexer/core/types"
	"github.com/gaze-network/ton20-indexer/internal/postgres"
	"github.com/gaze-network/ton20-indexer/modules/ton20/config"
	"github.com/gaze-network/ton20-indexer/modules/ton20/internal/datagateway"
	ton20postgres "github.com/gaze-network/ton20-indexer/modules/ton20/internal/repository/postgres"
)

// SnapshotSummary describes a snapshot that decoded and re-encoded to the same bytes and hash.
type SnapshotSummary struct {
	StateHash  types.Hash
	Lt         uint64
	TxHash     types.Hash
	BlockSeqno uint32
	Ticks      int
	Wallets    int
	Bytes      int
}

// VerifyLatestSnapshot checks the latest persisted snapshot against its stored hash and watermark.
func VerifyLatestSnapshot(ctx context.Context, conf config.Config) (*SnapshotSummary, error) {
	pg, err := postgres.NewPool(ctx, conf.Postgres)
	if err != nil {
		return nil, errors.Wrap(err, "can't create Postgres connection pool")
	}
	defer pg.Close()

	return verifyLatestSnapshot(ctx, ton20postgres.NewRepository(pg))
}

func verifyLatestSnapshot(ctx context.Context, dg datagateway.TON20ReaderDataGateway) (*SnapshotSummary, error) {
	latest, err := dg.GetLatestSnapshot(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get latest snapshot")
	}
	state, err := decodeSnapshot(latest)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &SnapshotSummary{
		StateHash:  latest.StateHash,
		Lt:         latest.Lt,
		TxHash:     latest.TxHash,
		BlockSeqno: latest.BlockSeqno,
		Ticks:      len(state.Ticks),
		Wallets:    state.WalletCount(),
		Bytes:      len(latest.Data),
	}, nil
}
