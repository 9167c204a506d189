package httphandler

import (
	"github.com/gofiber/fiber/v2"
)

func (h *HttpHandler) Mount(router fiber.Router) error {
	r := router.Group("/v1/ton20")

	r.Get("/wallets/:address", h.GetWallets)
	r.Get("/wallets/:address/:tick", h.GetWallet)
	r.Get("/ticks", h.GetTicks)
	r.Get("/ticks/:tick", h.GetTick)
	r.Get("/ticks/:tick/holders", h.GetHolders)
	r.Get("/transactions/initiator/:address", h.GetTransactionsByInitiator)
	r.Get("/transactions/tick/:tick", h.GetTransactionsByTick)
	r.Get("/transactions/hash/:hash", h.GetTransaction)
	r.Get("/snapshots/latest", h.GetLatestSnapshot)
	r.Get("/snapshots/latest/raw", h.GetLatestSnapshotRaw)
	return nil
}
