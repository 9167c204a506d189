package ledger

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ton20-indexer/common/errs"
	"github.com/gaze-network/ton20-indexer/core/types"
	"github.com/gaze-network/ton20-indexer/modules/ton20/internal/entity"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addr(b byte) types.Address {
	var a types.Address
	a.Account[31] = b
	return a
}

func hash(b byte) types.Hash {
	var h types.Hash
	h[0] = b
	return h
}

func deployed(t *testing.T, max, lim uint64) *Store {
	t.Helper()
	s := New()
	require.NoError(t, s.Deploy(&entity.Tick{
		Tick:         "abc",
		Max:          *uint256.NewInt(max),
		Lim:          *uint256.NewInt(lim),
		Rest:         *uint256.NewInt(max),
		DeployBy:     addr(1),
		DeployTxHash: hash(1),
	}))
	return s
}

type fakeSink struct {
	deleted []entity.WalletKey
	ticks   []*entity.Tick
	wallets []*entity.Wallet
	err     error
}

func (f *fakeSink) DeleteWallets(_ context.Context, keys []entity.WalletKey) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, keys...)
	return nil
}

func (f *fakeSink) UpsertTicks(_ context.Context, ticks []*entity.Tick) error {
	if f.err != nil {
		return f.err
	}
	f.ticks = append(f.ticks, ticks...)
	return nil
}

func (f *fakeSink) UpsertWallets(_ context.Context, wallets []*entity.Wallet) error {
	if f.err != nil {
		return f.err
	}
	f.wallets = append(f.wallets, wallets...)
	return nil
}

func TestDeployTwice(t *testing.T) {
	s := deployed(t, 1000, 100)
	err := s.Deploy(&entity.Tick{Tick: "abc"})
	assert.True(t, errors.Is(err, errs.ConflictSetting))
	assert.Equal(t, 1, s.TickCount())
}

func TestMint(t *testing.T) {
	s := deployed(t, 1000, 100)
	require.NoError(t, s.Mint("abc", addr(2), uint256.NewInt(50), hash(2)))

	tick, ok := s.Tick("abc")
	require.True(t, ok)
	assert.Equal(t, uint64(950), tick.Rest.Uint64())

	w, ok := s.Wallet("abc", addr(2))
	require.True(t, ok)
	assert.Equal(t, uint64(50), w.Amount.Uint64())
	assert.Equal(t, hash(2), w.LastTxHash)

	t.Run("exceeding remaining supply changes nothing", func(t *testing.T) {
		err := s.Mint("abc", addr(2), uint256.NewInt(951), hash(3))
		assert.True(t, errors.Is(err, errs.Overflow))
		tick, _ := s.Tick("abc")
		assert.Equal(t, uint64(950), tick.Rest.Uint64())
		w, _ := s.Wallet("abc", addr(2))
		assert.Equal(t, uint64(50), w.Amount.Uint64())
		assert.Equal(t, hash(2), w.LastTxHash)
	})
	t.Run("unknown tick", func(t *testing.T) {
		err := s.Mint("xyz", addr(2), uint256.NewInt(1), hash(3))
		assert.True(t, errors.Is(err, errs.NotFound))
	})
}

func TestTransfer(t *testing.T) {
	type testCase struct {
		name        string
		from, to    types.Address
		amt         uint64
		fromBalance uint64 // zero means removed
		toBalance   uint64
		err         error
	}
	testCases := []testCase{
		{name: "partial", from: addr(2), to: addr(3), amt: 20, fromBalance: 30, toBalance: 20},
		{name: "full balance removes sender", from: addr(2), to: addr(3), amt: 50, fromBalance: 0, toBalance: 50},
		{name: "insufficient", from: addr(2), to: addr(3), amt: 51, fromBalance: 50, err: errs.Overflow},
		{name: "unknown sender", from: addr(9), to: addr(3), amt: 1, fromBalance: 0, err: errs.NotFound},
		{name: "self transfer of full balance", from: addr(2), to: addr(2), amt: 50, fromBalance: 50, toBalance: 50},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := deployed(t, 1000, 100)
			require.NoError(t, s.Mint("abc", addr(2), uint256.NewInt(50), hash(2)))
			s.ClearChanges()

			err := s.Transfer("abc", tc.from, tc.to, uint256.NewInt(tc.amt), hash(4))
			if tc.err != nil {
				assert.True(t, errors.Is(err, tc.err))
				assert.False(t, s.HasChanges())
			} else {
				require.NoError(t, err)
			}

			from, ok := s.Wallet("abc", tc.from)
			if tc.fromBalance == 0 {
				assert.False(t, ok)
			} else {
				require.True(t, ok)
				assert.Equal(t, tc.fromBalance, from.Amount.Uint64())
			}
			if tc.err == nil && tc.from != tc.to {
				to, ok := s.Wallet("abc", tc.to)
				require.True(t, ok)
				assert.Equal(t, tc.toBalance, to.Amount.Uint64())
				assert.Equal(t, hash(4), to.LastTxHash)
			}
		})
	}
}

func TestFlushTracksDeletions(t *testing.T) {
	s := deployed(t, 1000, 100)
	require.NoError(t, s.Mint("abc", addr(2), uint256.NewInt(50), hash(2)))

	sink := &fakeSink{}
	require.NoError(t, s.Flush(context.Background(), sink))
	assert.Len(t, sink.ticks, 1)
	assert.Len(t, sink.wallets, 1)
	assert.False(t, s.HasChanges())

	require.NoError(t, s.Transfer("abc", addr(2), addr(3), uint256.NewInt(50), hash(3)))
	cs := s.Changes()
	assert.Equal(t, []entity.WalletKey{{Tick: "abc", Address: addr(2)}}, cs.DeletedWallets)
	require.Len(t, cs.Wallets, 1)
	assert.Equal(t, addr(3), cs.Wallets[0].Address)

	// crediting the drained wallet again cancels its pending deletion
	require.NoError(t, s.Transfer("abc", addr(3), addr(2), uint256.NewInt(10), hash(4)))
	cs = s.Changes()
	assert.Empty(t, cs.DeletedWallets)
	assert.Len(t, cs.Wallets, 2)
}

func TestFlushKeepsChangesOnSinkError(t *testing.T) {
	s := deployed(t, 1000, 100)
	sink := &fakeSink{err: errors.New("boom")}
	require.Error(t, s.Flush(context.Background(), sink))
	assert.True(t, s.HasChanges())
}

func TestImport(t *testing.T) {
	src := deployed(t, 1000, 100)
	require.NoError(t, src.Mint("abc", addr(2), uint256.NewInt(50), hash(2)))
	require.NoError(t, src.Mint("abc", addr(3), uint256.NewInt(70), hash(3)))

	dst := New()
	require.NoError(t, dst.Import(src.Ticks(), src.Wallets("abc")))
	assert.False(t, dst.HasChanges())
	assert.Equal(t, src.Ticks(), dst.Ticks())
	assert.Equal(t, src.Wallets("abc"), dst.Wallets("abc"))

	dst.MarkAllDirty()
	cs := dst.Changes()
	assert.Len(t, cs.Ticks, 1)
	assert.Len(t, cs.Wallets, 2)

	t.Run("zero balance", func(t *testing.T) {
		err := New().Import(src.Ticks(), []*entity.Wallet{{Tick: "abc", Address: addr(5)}})
		assert.True(t, errors.Is(err, errs.InvalidArgument))
	})
	t.Run("unknown tick", func(t *testing.T) {
		err := New().Import(nil, src.Wallets("abc"))
		assert.True(t, errors.Is(err, errs.NotFound))
	})
}
