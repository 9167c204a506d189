package postgres

import (
	"github.com/gaze-network/ton20-indexer/internal/postgres"
	"github.com/jackc/pgx/v5"
)

type Repository struct {
	db      postgres.DB
	queries postgres.Queryable
	tx      pgx.Tx
}

func NewRepository(db postgres.DB) *Repository {
	return &Repository{
		db:      db,
		queries: db,
	}
}
