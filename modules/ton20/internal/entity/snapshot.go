package entity

import (
	"time"

	"github.com/gaze-network/ton20-indexer/core/types"
)

type Snapshot struct {
	StateHash  types.Hash
	Lt         uint64
	TxHash     types.Hash
	BlockSeqno uint32
	Data       []byte
	// Admission is the engine's spam window state at the watermark. It is not part of the state hash.
	Admission []byte
	CreatedAt time.Time
}

func (s *Snapshot) Watermark() types.Watermark {
	h := s.TxHash
	return types.Watermark{Lt: s.Lt, Hash: &h, BlockSeqno: s.BlockSeqno}
}
