package postgres

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ton20-indexer/common/errs"
	"github.com/gaze-network/ton20-indexer/core/types"
	"github.com/gaze-network/ton20-indexer/modules/ton20/internal/datagateway"
	"github.com/gaze-network/ton20-indexer/modules/ton20/internal/entity"
	"github.com/holiman/uint256"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupRepository(t *testing.T) *Repository {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("ton20"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	migration, err := os.ReadFile(filepath.Join("..", "..", "..", "database", "postgresql", "migrations", "000001_initialize.up.sql"))
	require.NoError(t, err)
	_, err = pool.Exec(ctx, string(migration))
	require.NoError(t, err)

	return NewRepository(pool)
}

func testAddress(b byte) types.Address {
	var addr types.Address
	addr.Account[31] = b
	return addr
}

func TestRepositoryLedger(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	tick := &entity.Tick{
		Tick:         "gram",
		Max:          *new(uint256.Int).SetAllOne(),
		Lim:          *uint256.NewInt(1000),
		Rest:         *new(uint256.Int).SetAllOne(),
		DeployBy:     testAddress(1),
		DeployTxHash: types.Hash{1},
	}
	wallets := []*entity.Wallet{
		{Tick: "gram", Address: testAddress(2), Amount: *uint256.NewInt(700), LastTxHash: types.Hash{2}},
		{Tick: "gram", Address: testAddress(3), Amount: *uint256.NewInt(300), LastTxHash: types.Hash{3}},
	}

	require.NoError(t, repo.UpsertTicks(ctx, []*entity.Tick{tick}))
	require.NoError(t, repo.UpsertWallets(ctx, wallets))

	t.Run("get tick", func(t *testing.T) {
		got, err := repo.GetTick(ctx, "gram")
		require.NoError(t, err)
		assert.Equal(t, tick, got)

		_, err = repo.GetTick(ctx, "none")
		assert.True(t, errors.Is(err, errs.NotFound))
	})
	t.Run("holders ordered by amount", func(t *testing.T) {
		holders, err := repo.GetHoldersByTick(ctx, "gram", 10, 0)
		require.NoError(t, err)
		require.Len(t, holders, 2)
		assert.Equal(t, testAddress(2), holders[0].Address)

		count, err := repo.CountHoldersByTick(ctx, "gram")
		require.NoError(t, err)
		assert.EqualValues(t, 2, count)
	})
	t.Run("upsert overwrites", func(t *testing.T) {
		updated := wallets[1].Clone()
		updated.Amount = *uint256.NewInt(1)
		require.NoError(t, repo.UpsertWallets(ctx, []*entity.Wallet{updated}))
		got, err := repo.GetWallet(ctx, "gram", testAddress(3))
		require.NoError(t, err)
		assert.Equal(t, uint64(1), got.Amount.Uint64())
	})
	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.DeleteWallets(ctx, []entity.WalletKey{wallets[1].Key()}))
		_, err := repo.GetWallet(ctx, "gram", testAddress(3))
		assert.True(t, errors.Is(err, errs.NotFound))
	})
	t.Run("reset in rolled back tx", func(t *testing.T) {
		tx, err := repo.BeginTON20Tx(ctx)
		require.NoError(t, err)
		require.NoError(t, tx.ResetLedger(ctx))
		require.NoError(t, tx.Rollback(ctx))
		require.NoError(t, tx.Rollback(ctx))

		ticks, err := repo.GetTicks(ctx, nil)
		require.NoError(t, err)
		assert.Len(t, ticks, 1)
	})
}

func TestRepositoryTransactionStatuses(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	to := testAddress(9)
	statuses := []*entity.TransactionStatus{
		{TxHash: types.Hash{1}, Success: true, FailReason: "no", Lt: 10, OpCode: lo.ToPtr("mint"), Tick: lo.ToPtr("gram"), Initiator: testAddress(1), MintAmount: *uint256.NewInt(5), Memo: lo.ToPtr("")},
		{TxHash: types.Hash{2}, Success: false, FailReason: "Out of money", Lt: 11, OpCode: lo.ToPtr("transfer"), Tick: lo.ToPtr("gram"), Initiator: testAddress(1), TransferAmount: *uint256.NewInt(7), TransferTo: &to, Memo: lo.ToPtr("hi")},
		{TxHash: types.Hash{3}, Success: false, FailReason: "Json is not valid", Lt: 12, Initiator: testAddress(2)},
	}
	require.NoError(t, repo.CreateTransactionStatuses(ctx, statuses))

	got, err := repo.GetTransactionStatus(ctx, types.Hash{2})
	require.NoError(t, err)
	assert.Equal(t, statuses[1], got)

	byInitiator, err := repo.GetTransactionStatusesByInitiator(ctx, testAddress(1), datagateway.StatusFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, byInitiator, 2)
	assert.Equal(t, uint64(11), byInitiator[0].Lt)

	failed, err := repo.GetTransactionStatusesByTick(ctx, "gram", datagateway.StatusFilter{Success: lo.ToPtr(false), Limit: 10})
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, types.Hash{2}, failed[0].TxHash)
}

func TestRepositorySnapshotsAndState(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	_, err := repo.GetLatestSnapshot(ctx)
	assert.True(t, errors.Is(err, errs.NotFound))

	for _, s := range []*entity.Snapshot{
		{StateHash: types.Hash{1}, Lt: 10, TxHash: types.Hash{0xff}, BlockSeqno: 1, Data: []byte{1}},
		{StateHash: types.Hash{2}, Lt: 20, TxHash: types.Hash{0x01}, BlockSeqno: 2, Data: []byte{2}},
		{StateHash: types.Hash{3}, Lt: 20, TxHash: types.Hash{0xa0}, BlockSeqno: 2, Data: []byte{3}, Admission: []byte{1, 0, 7}},
	} {
		require.NoError(t, repo.CreateSnapshot(ctx, s))
	}
	latest, err := repo.GetLatestSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.Hash{3}, latest.StateHash)
	assert.Equal(t, []byte{3}, latest.Data)
	assert.Equal(t, []byte{1, 0, 7}, latest.Admission)

	_, err = repo.GetLatestIndexerState(ctx)
	assert.True(t, errors.Is(err, errs.NotFound))
	require.NoError(t, repo.CreateIndexerState(ctx, entity.IndexerState{ClientVersion: "v", DBVersion: 1, SnapshotVersion: 1}))
	state, err := repo.GetLatestIndexerState(ctx)
	require.NoError(t, err)
	assert.Equal(t, "v", state.ClientVersion)
	assert.EqualValues(t, 1, state.DBVersion)
}
