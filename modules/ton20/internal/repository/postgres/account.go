package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ton20-indexer/common/errs"
	"github.com/gaze-network/ton20-indexer/core/types"
	"github.com/gaze-network/ton20-indexer/modules/ton20/internal/datagateway"
	"github.com/gaze-network/ton20-indexer/modules/ton20/internal/entity"
	"github.com/jackc/pgx/v5"
)

var _ datagateway.AccountReaderDataGateway = (*Repository)(nil)

func (r *Repository) GetAccount(ctx context.Context, addr types.Address) (*entity.Account, error) {
	var (
		address string
		account = entity.Account{Address: addr}
	)
	err := r.queries.QueryRow(ctx, getAccount, addr.String()).Scan(&address, &account.IsContractWallet, &account.Blacklisted, &account.CodeHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.Wrapf(errs.NotFound, "account %s", addr)
		}
		return nil, errors.Wrap(err, "error during query")
	}
	return &account, nil
}
