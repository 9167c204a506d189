package usecase

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ton20-indexer/modules/ton20/internal/entity"
)

func (u *Usecase) GetLatestSnapshot(ctx context.Context) (*entity.Snapshot, error) {
	snapshot, err := u.dg.GetLatestSnapshot(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "error during GetLatestSnapshot")
	}
	return snapshot, nil
}
