package datagateway

import (
	"context"

	"github.com/gaze-network/ton20-indexer/core/types"
	"github.com/gaze-network/ton20-indexer/modules/ton20/internal/entity"
)

type TON20DataGateway interface {
	TON20ReaderDataGateway
	TON20WriterDataGateway

	// BeginTON20Tx returns a new TON20DataGateway with transaction enabled. All write operations performed in this datagateway must be committed to persist changes.
	BeginTON20Tx(ctx context.Context) (TON20DataGatewayWithTx, error)
}

type TON20DataGatewayWithTx interface {
	TON20DataGateway
	Tx
}

type TON20ReaderDataGateway interface {
	// GetLatestSnapshot returns the snapshot with the highest watermark, or errs.NotFound.
	GetLatestSnapshot(ctx context.Context) (*entity.Snapshot, error)
	GetTick(ctx context.Context, tick string) (*entity.Tick, error)
	// GetTicks returns the given ticks, or every tick when ticks is empty.
	GetTicks(ctx context.Context, ticks []string) ([]*entity.Tick, error)
	GetWallet(ctx context.Context, tick string, addr types.Address) (*entity.Wallet, error)
	GetWalletsByAddress(ctx context.Context, addr types.Address) ([]*entity.Wallet, error)
	// GetHoldersByTick returns wallets ordered by amount, largest first.
	GetHoldersByTick(ctx context.Context, tick string, limit, offset int32) ([]*entity.Wallet, error)
	CountHoldersByTick(ctx context.Context, tick string) (int64, error)
	GetTransactionStatus(ctx context.Context, txHash types.Hash) (*entity.TransactionStatus, error)
	// GetTransactionStatusesByInitiator returns audit records ordered by lt, newest first.
	GetTransactionStatusesByInitiator(ctx context.Context, addr types.Address, filter StatusFilter) ([]*entity.TransactionStatus, error)
	// GetTransactionStatusesByTick returns audit records ordered by lt, newest first.
	GetTransactionStatusesByTick(ctx context.Context, tick string, filter StatusFilter) ([]*entity.TransactionStatus, error)
}

type TON20WriterDataGateway interface {
	DeleteWallets(ctx context.Context, keys []entity.WalletKey) error
	UpsertTicks(ctx context.Context, ticks []*entity.Tick) error
	UpsertWallets(ctx context.Context, wallets []*entity.Wallet) error
	// ResetLedger removes every tick and wallet row.
	ResetLedger(ctx context.Context) error
	CreateTransactionStatuses(ctx context.Context, statuses []*entity.TransactionStatus) error
	CreateSnapshot(ctx context.Context, snapshot *entity.Snapshot) error
}

type StatusFilter struct {
	Success *bool
	OpCode  *string
	Limit   int32
	Offset  int32
}
