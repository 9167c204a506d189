package httphandler

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ton20-indexer/common"
	"github.com/gofiber/fiber/v2"
)

type snapshotResult struct {
	StateHash  string    `json:"stateHash"`
	Lt         uint64    `json:"lt"`
	TxHash     string    `json:"txHash"`
	BlockSeqno uint32    `json:"blockSeqno"`
	CreatedAt  time.Time `json:"createdAt"`
	Size       int       `json:"size"`
	Data       []byte    `json:"data"` // base64
}

type getLatestSnapshotResponse = common.HttpResponse[snapshotResult]

func (h *HttpHandler) GetLatestSnapshot(ctx *fiber.Ctx) (err error) {
	snapshot, err := h.usecase.GetLatestSnapshot(ctx.UserContext())
	if err != nil {
		return errors.Wrap(err, "error during GetLatestSnapshot")
	}

	resp := getLatestSnapshotResponse{
		Result: &snapshotResult{
			StateHash:  snapshot.StateHash.String(),
			Lt:         snapshot.Lt,
			TxHash:     snapshot.TxHash.String(),
			BlockSeqno: snapshot.BlockSeqno,
			CreatedAt:  snapshot.CreatedAt,
			Size:       len(snapshot.Data),
			Data:       snapshot.Data,
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}

func (h *HttpHandler) GetLatestSnapshotRaw(ctx *fiber.Ctx) (err error) {
	snapshot, err := h.usecase.GetLatestSnapshot(ctx.UserContext())
	if err != nil {
		return errors.Wrap(err, "error during GetLatestSnapshot")
	}

	ctx.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
	ctx.Set("X-State-Hash", snapshot.StateHash.String())
	return errors.WithStack(ctx.Send(snapshot.Data))
}
