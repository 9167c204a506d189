package datasources

import (
	"context"

	"github.com/gaze-network/ton20-indexer/core/types"
)

// Datasource is an interface for indexer data sources.
// Fetch returns at most limit inputs starting at cursor, in source order.
// An empty result means the source is drained for now.
type Datasource[T any] interface {
	Name() string
	Fetch(ctx context.Context, cursor types.Cursor, limit int) ([]T, error)
}
