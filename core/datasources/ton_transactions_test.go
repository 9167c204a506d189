package datasources

import (
	"math"
	"testing"

	"github.com/gaze-network/ton20-indexer/common/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionRowToTransaction(t *testing.T) {
	row := transactionRow{
		BlockSeqno:      34_000_000,
		Workchain:       0,
		Account:         "0000000000000000000000000000000000000000000000000000000000000000",
		Lt:              42_000_001,
		CreatedAt:       1701955000,
		SenderWorkchain: 0,
		SenderAddress:   "ab00000000000000000000000000000000000000000000000000000000000001",
		Comment:         `{"p":"ton-20","op":"mint","tick":"nano","amt":"100000000000"}`,
		Hash:            "cd00000000000000000000000000000000000000000000000000000000000002",
	}

	tx, err := row.toTransaction()
	require.NoError(t, err)
	assert.True(t, tx.Destination.IsZero())
	assert.Equal(t, "0:AB00000000000000000000000000000000000000000000000000000000000001", tx.Sender.String())
	assert.Equal(t, "CD00000000000000000000000000000000000000000000000000000000000002", tx.Hash.String())
	assert.Equal(t, uint64(42_000_001), tx.Lt)
	assert.Equal(t, uint32(34_000_000), tx.BlockSeqno)
	assert.Equal(t, "mint", tx.Comment["op"])

	t.Run("bad comment is nil", func(t *testing.T) {
		r := row
		r.Comment = "gm"
		tx, err := r.toTransaction()
		require.NoError(t, err)
		assert.Nil(t, tx.Comment)
	})
	t.Run("bad sender", func(t *testing.T) {
		r := row
		r.SenderAddress = "ab"
		_, err := r.toTransaction()
		assert.Error(t, err)
	})
	t.Run("seqno range", func(t *testing.T) {
		r := row
		r.BlockSeqno = math.MaxUint32
		tx, err := r.toTransaction()
		require.NoError(t, err)
		assert.Equal(t, uint32(math.MaxUint32), tx.BlockSeqno)

		r.BlockSeqno = math.MaxUint32 + 1
		_, err = r.toTransaction()
		assert.ErrorIs(t, err, errs.InvalidArgument)

		r.BlockSeqno = -1
		_, err = r.toTransaction()
		assert.ErrorIs(t, err, errs.InvalidArgument)
	})
	t.Run("workchain range", func(t *testing.T) {
		r := row
		r.SenderWorkchain = 300
		_, err := r.toTransaction()
		assert.Error(t, err)
	})
}
