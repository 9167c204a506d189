package usecase

import (
	"github.com/gaze-network/ton20-indexer/modules/ton20/internal/datagateway"
)

type Usecase struct {
	dg datagateway.TON20ReaderDataGateway
}

func New(dg datagateway.TON20ReaderDataGateway) *Usecase {
	return &Usecase{
		dg: dg,
	}
}
