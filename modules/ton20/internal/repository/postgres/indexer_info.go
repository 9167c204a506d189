package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ton20-indexer/common/errs"
	"github.com/gaze-network/ton20-indexer/modules/ton20/internal/datagateway"
	"github.com/gaze-network/ton20-indexer/modules/ton20/internal/entity"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

var _ datagateway.IndexerInfoDataGateway = (*Repository)(nil)

func (r *Repository) GetLatestIndexerState(ctx context.Context) (entity.IndexerState, error) {
	var (
		clientVersion              string
		dbVersion, snapshotVersion int32
		createdAt                  pgtype.Timestamptz
	)
	err := r.queries.QueryRow(ctx, getLatestIndexerState).Scan(&clientVersion, &dbVersion, &snapshotVersion, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.IndexerState{}, errors.WithStack(errs.NotFound)
		}
		return entity.IndexerState{}, errors.Wrap(err, "error during query")
	}
	return mapIndexerStateModelToType(clientVersion, dbVersion, snapshotVersion, createdAt), nil
}

func (r *Repository) CreateIndexerState(ctx context.Context, state entity.IndexerState) error {
	if _, err := r.queries.Exec(ctx, createIndexerState, state.ClientVersion, state.DBVersion, state.SnapshotVersion); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}
