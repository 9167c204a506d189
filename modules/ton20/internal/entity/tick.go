package entity

import (
	"github.com/gaze-network/ton20-indexer/core/types"
	"github.com/holiman/uint256"
)

type Tick struct {
	Tick         string
	Max          uint256.Int
	Lim          uint256.Int
	Rest         uint256.Int
	DeployBy     types.Address
	DeployTxHash types.Hash
}

func (t *Tick) Clone() *Tick {
	c := *t
	return &c
}
