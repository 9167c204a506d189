package usecase

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ton20-indexer/core/types"
	"github.com/gaze-network/ton20-indexer/modules/ton20/internal/datagateway"
	"github.com/gaze-network/ton20-indexer/modules/ton20/internal/entity"
	"github.com/gaze-network/ton20-indexer/modules/ton20/internal/ton20"
)

func (u *Usecase) GetTransactionStatus(ctx context.Context, txHash types.Hash) (*entity.TransactionStatus, error) {
	status, err := u.dg.GetTransactionStatus(ctx, txHash)
	if err != nil {
		return nil, errors.Wrap(err, "error during GetTransactionStatus")
	}
	return status, nil
}

func (u *Usecase) GetTransactionStatusesByInitiator(ctx context.Context, addr types.Address, filter datagateway.StatusFilter) ([]*entity.TransactionStatus, error) {
	statuses, err := u.dg.GetTransactionStatusesByInitiator(ctx, addr, filter)
	if err != nil {
		return nil, errors.Wrap(err, "error during GetTransactionStatusesByInitiator")
	}
	return statuses, nil
}

func (u *Usecase) GetTransactionStatusesByTick(ctx context.Context, tick string, filter datagateway.StatusFilter) ([]*entity.TransactionStatus, error) {
	statuses, err := u.dg.GetTransactionStatusesByTick(ctx, ton20.NormalizeTick(tick), filter)
	if err != nil {
		return nil, errors.Wrap(err, "error during GetTransactionStatusesByTick")
	}
	return statuses, nil
}
