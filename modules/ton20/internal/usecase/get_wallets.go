package usecase

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ton20-indexer/core/types"
	"github.com/gaze-network/ton20-indexer/modules/ton20/internal/entity"
	"github.com/gaze-network/ton20-indexer/modules/ton20/internal/ton20"
)

func (u *Usecase) GetWalletsByAddress(ctx context.Context, addr types.Address) ([]*entity.Wallet, error) {
	wallets, err := u.dg.GetWalletsByAddress(ctx, addr)
	if err != nil {
		return nil, errors.Wrap(err, "error during GetWalletsByAddress")
	}
	return wallets, nil
}

func (u *Usecase) GetWallet(ctx context.Context, tick string, addr types.Address) (*entity.Wallet, error) {
	wallet, err := u.dg.GetWallet(ctx, ton20.NormalizeTick(tick), addr)
	if err != nil {
		return nil, errors.Wrap(err, "error during GetWallet")
	}
	return wallet, nil
}

// GetHolders returns a page of the tick's holders and the total number of holders.
func (u *Usecase) GetHolders(ctx context.Context, tick string, limit, offset int32) ([]*entity.Wallet, int64, error) {
	tick = ton20.NormalizeTick(tick)
	holders, err := u.dg.GetHoldersByTick(ctx, tick, limit, offset)
	if err != nil {
		return nil, 0, errors.Wrap(err, "error during GetHoldersByTick")
	}
	total, err := u.dg.CountHoldersByTick(ctx, tick)
	if err != nil {
		return nil, 0, errors.Wrap(err, "error during CountHoldersByTick")
	}
	return holders, total, nil
}
