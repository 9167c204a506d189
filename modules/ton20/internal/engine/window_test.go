package engine

import (
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/gaze-network/ton20-indexer/common/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowStateRestore(t *testing.T) {
	before := CutoverTime - 3600
	h := newHarness(t)
	require.True(t, h.send(walletA, comment("op", "deploy", "tick", "abc", "max", "100", "lim", "100")).Accepted)

	h.nextBucket()
	for i := 0; i < 3; i++ {
		require.True(t, h.add(h.next(afterCutover, walletA, target, comment("op", "mint", "tick", "abc", "amt", "1"))).Accepted)
	}
	legacyTx := h.next(before, plainC, zero, comment("op", "deploy", "tick", "old", "max", "1", "lim", "1"))
	h.oracle[legacyTx.Hash] = true
	require.True(t, h.add(legacyTx).Accepted)

	state := h.engine.WindowState()
	assert.Equal(t, state, h.engine.WindowState())

	restored := newHarness(t)
	restored.lt = h.lt
	restored.store = h.store
	restored.engine = New(h.store, fakeClassifier{walletA: true, walletB: true, plainC: false, target: false}, restored.oracle)
	require.NoError(t, restored.engine.RestoreWindow(state))
	assert.Equal(t, h.engine.spam, restored.engine.spam)
	assert.Equal(t, 5, restored.engine.SinceReset())
	assert.Equal(t, state, restored.engine.WindowState())

	// one transaction left in walletA's bucket
	assert.True(t, restored.add(restored.next(afterCutover, walletA, target, comment("op", "mint", "tick", "abc", "amt", "1"))).Accepted)
	assert.Equal(t, reject(ReasonTooManyTxs), restored.add(restored.next(afterCutover, walletA, target, comment("op", "mint", "tick", "abc", "amt", "1"))))

	t.Run("empty data is an empty window", func(t *testing.T) {
		require.NoError(t, restored.engine.RestoreWindow(nil))
		assert.Empty(t, restored.engine.spam)
		assert.Zero(t, restored.engine.SinceReset())
	})
}

func TestRestoreWindowRejectsCorruptData(t *testing.T) {
	h := newHarness(t)
	require.True(t, h.send(walletA, comment("op", "deploy", "tick", "abc", "max", "100", "lim", "100")).Accepted)
	require.True(t, h.send(walletB, comment("op", "deploy", "tick", "xyz", "max", "100", "lim", "100")).Accepted)
	valid := h.engine.WindowState()

	clone := func() []byte { return append([]byte(nil), valid...) }
	tc := []struct {
		name string
		data func() []byte
	}{
		{name: "short header", data: func() []byte { return valid[:windowHeaderLen-1] }},
		{name: "unknown version", data: func() []byte { d := clone(); d[0] = 9; return d }},
		{name: "truncated entry", data: func() []byte { return valid[:len(valid)-1] }},
		{name: "trailing bytes", data: func() []byte { return append(clone(), 0) }},
		{name: "zero count", data: func() []byte {
			d := clone()
			binary.BigEndian.PutUint32(d[len(d)-4:], 0)
			return d
		}},
		{name: "duplicate entry", data: func() []byte {
			d := clone()
			copy(d[windowHeaderLen+windowEntryLen:], d[windowHeaderLen:windowHeaderLen+windowEntryLen])
			return d
		}},
	}
	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			err := h.engine.RestoreWindow(tt.data())
			assert.ErrorIs(t, err, errs.CodecError, fmt.Sprintf("%x", tt.data()))
		})
	}
	assert.Len(t, h.engine.spam, 2)
}
