// Package requestcontext copies per-request values (request id, client IP)
// into the request's user context so handlers and loggers can read them.
package requestcontext

import (
	"context"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ton20-indexer/pkg/logger"
	"github.com/gaze-network/ton20-indexer/pkg/logger/slogx"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	fiberutils "github.com/gofiber/fiber/v2/utils"
)

type Option func(ctx context.Context, c *fiber.Ctx) (context.Context, error)

// rejectError stops the request with the given status.
type rejectError struct {
	status  int
	message string
}

func (r rejectError) Error() string {
	return r.message
}

func New(opts ...Option) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var err error
		ctx := c.UserContext()
		for i, opt := range opts {
			ctx, err = opt(ctx, c)
			if err == nil {
				continue
			}
			var reject rejectError
			if errors.As(err, &reject) {
				return errors.WithStack(c.Status(reject.status).JSON(fiber.Map{"error": reject.message}))
			}
			logger.ErrorContext(c.UserContext(), "Failed to extract request context",
				slogx.Error(err),
				slogx.String("event", "requestcontext_error"),
				slogx.Int("option_index", i),
			)
			return errors.WithStack(c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"}))
		}
		c.SetUserContext(ctx)
		return c.Next()
	}
}

type requestIdKey struct{}

// GetRequestId returns the request id, or an empty string outside a request set up by WithRequestId.
func GetRequestId(ctx context.Context) string {
	id, _ := ctx.Value(requestIdKey{}).(string)
	return id
}

// WithRequestId reuses the id of the requestid middleware when present,
// otherwise takes it from the request header or generates one.
func WithRequestId() Option {
	return func(ctx context.Context, c *fiber.Ctx) (context.Context, error) {
		id, ok := c.Locals(requestid.ConfigDefault.ContextKey).(string)
		if !ok || id == "" {
			id = c.Get(requestid.ConfigDefault.Header, fiberutils.UUID())
			c.Set(requestid.ConfigDefault.Header, id)
			c.Locals(requestid.ConfigDefault.ContextKey, id)
		}
		ctx = context.WithValue(ctx, requestIdKey{}, id)
		return logger.WithContext(ctx, slogx.String("request_id", id)), nil
	}
}
