package datagateway

import (
	"context"

	"github.com/gaze-network/ton20-indexer/modules/ton20/internal/entity"
)

type IndexerInfoDataGateway interface {
	GetLatestIndexerState(ctx context.Context) (entity.IndexerState, error)
	CreateIndexerState(ctx context.Context, state entity.IndexerState) error
}
