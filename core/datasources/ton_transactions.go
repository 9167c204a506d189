package datasources

import (
	"context"
	"encoding/hex"
	"math"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ton20-indexer/common/errs"
	"github.com/gaze-network/ton20-indexer/core/types"
	"github.com/gaze-network/ton20-indexer/internal/postgres"
	"github.com/jackc/pgx/v5"
)

// Make sure to implement the Datasource interface
var _ Datasource[*types.Transaction] = (*TONTransactions)(nil)

const selectTransactions = `SELECT mc_ref_seqno, workchain, account, in_msg_created_lt, in_msg_created_at,
	in_msg_src_workchain, in_msg_src_address, in_msg_comment, tx_hash
FROM ton20_transactions`

// TONTransactions reads scanned TON transactions from the table filled by the chain scanner,
// ordered by (in_msg_created_lt, tx_hash).
type TONTransactions struct {
	db postgres.Queryable
}

func NewTONTransactions(db postgres.Queryable) *TONTransactions {
	return &TONTransactions{db: db}
}

func (d *TONTransactions) Name() string {
	return "ton_transactions"
}

func (d *TONTransactions) Fetch(ctx context.Context, cursor types.Cursor, limit int) ([]*types.Transaction, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if cursor.Hash == nil {
		rows, err = d.db.Query(ctx, selectTransactions+`
WHERE in_msg_created_lt >= $1
ORDER BY in_msg_created_lt, tx_hash
LIMIT $2`, int64(cursor.Lt), limit)
	} else {
		rows, err = d.db.Query(ctx, selectTransactions+`
WHERE (in_msg_created_lt, tx_hash) > ($1, $2)
ORDER BY in_msg_created_lt, tx_hash
LIMIT $3`, int64(cursor.Lt), cursor.Hash.String(), limit)
	}
	if err != nil {
		return nil, errors.Wrap(err, "error during query transactions")
	}
	defer rows.Close()

	txs := make([]*types.Transaction, 0, limit)
	for rows.Next() {
		var (
			row     transactionRow
			comment *string
		)
		if err := rows.Scan(&row.BlockSeqno, &row.Workchain, &row.Account, &row.Lt, &row.CreatedAt,
			&row.SenderWorkchain, &row.SenderAddress, &comment, &row.Hash); err != nil {
			return nil, errors.Wrap(err, "can't scan transaction row")
		}
		if comment != nil {
			row.Comment = *comment
		}
		tx, err := row.toTransaction()
		if err != nil {
			return nil, errors.Wrapf(err, "malformed transaction row %s", row.Hash)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error during iterate transactions")
	}
	return txs, nil
}

type transactionRow struct {
	BlockSeqno      int64
	Workchain       int32
	Account         string
	Lt              int64
	CreatedAt       int64
	SenderWorkchain int32
	SenderAddress   string
	Comment         string
	Hash            string
}

func (r transactionRow) toTransaction() (*types.Transaction, error) {
	if r.Lt < 0 || r.BlockSeqno < 0 {
		return nil, errors.Wrap(errs.InvalidArgument, "negative lt or seqno")
	}
	if r.BlockSeqno > math.MaxUint32 {
		return nil, errors.Wrapf(errs.InvalidArgument, "seqno %d exceeds 32 bits", r.BlockSeqno)
	}
	destination, err := parseAddress(r.Workchain, r.Account)
	if err != nil {
		return nil, errors.Wrap(err, "invalid destination")
	}
	sender, err := parseAddress(r.SenderWorkchain, r.SenderAddress)
	if err != nil {
		return nil, errors.Wrap(err, "invalid sender")
	}
	hash, err := types.ParseHash(r.Hash)
	if err != nil {
		return nil, errors.Wrap(err, "invalid hash")
	}
	return &types.Transaction{
		BlockSeqno:  uint32(r.BlockSeqno),
		Destination: destination,
		Lt:          uint64(r.Lt),
		CreatedAt:   r.CreatedAt,
		Sender:      sender,
		Comment:     types.DecodeComment(r.Comment),
		Hash:        hash,
	}, nil
}

func parseAddress(workchain int32, account string) (types.Address, error) {
	var addr types.Address
	if workchain < -128 || workchain > 127 {
		return addr, errors.Wrapf(errs.InvalidArgument, "workchain %d out of range", workchain)
	}
	raw, err := hex.DecodeString(account)
	if err != nil || len(raw) != len(addr.Account) {
		return addr, errors.Wrapf(errs.InvalidArgument, "account %q is not 32 hex bytes", account)
	}
	addr.Workchain = int8(workchain)
	copy(addr.Account[:], raw)
	return addr, nil
}
