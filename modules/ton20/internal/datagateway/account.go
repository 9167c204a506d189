package datagateway

import (
	"context"

	"github.com/gaze-network/ton20-indexer/core/types"
	"github.com/gaze-network/ton20-indexer/modules/ton20/internal/entity"
)

type AccountReaderDataGateway interface {
	// GetAccount returns errs.NotFound for an account that was never classified.
	GetAccount(ctx context.Context, addr types.Address) (*entity.Account, error)
}
