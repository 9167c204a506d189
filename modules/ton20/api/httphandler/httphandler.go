package httphandler

import (
	"github.com/gaze-network/ton20-indexer/modules/ton20/internal/usecase"
)

type HttpHandler struct {
	usecase *usecase.Usecase
}

func New(usecase *usecase.Usecase) *HttpHandler {
	return &HttpHandler{
		usecase: usecase,
	}
}
