package usecase

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ton20-indexer/modules/ton20/internal/entity"
	"github.com/gaze-network/ton20-indexer/modules/ton20/internal/ton20"
	"github.com/samber/lo"
)

func (u *Usecase) GetTick(ctx context.Context, tick string) (*entity.Tick, error) {
	entry, err := u.dg.GetTick(ctx, ton20.NormalizeTick(tick))
	if err != nil {
		return nil, errors.Wrap(err, "error during GetTick")
	}
	return entry, nil
}

// GetTicks returns the given ticks, or every tick when none is given.
func (u *Usecase) GetTicks(ctx context.Context, ticks []string) ([]*entity.Tick, error) {
	ticks = lo.Uniq(lo.Map(ticks, func(tick string, _ int) string { return ton20.NormalizeTick(tick) }))
	entries, err := u.dg.GetTicks(ctx, ticks)
	if err != nil {
		return nil, errors.Wrap(err, "error during GetTicks")
	}
	return entries, nil
}
