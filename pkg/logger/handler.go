package logger

import (
	"context"
	"log/slog"
	"os"
)

type (
	handleFunc func(context.Context, slog.Record) error
	middleware func(handleFunc) handleFunc
)

// chainHandler runs every record through middlewares before the wrapped handler.
type chainHandler struct {
	h           slog.Handler
	middlewares []middleware
}

func newChainHandler(h slog.Handler, middlewares ...middleware) *chainHandler {
	return &chainHandler{h: h, middlewares: middlewares}
}

func (c *chainHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return c.h.Enabled(ctx, l)
}

func (c *chainHandler) Handle(ctx context.Context, rec slog.Record) error {
	h := c.h.Handle
	for i := len(c.middlewares) - 1; i >= 0; i-- {
		h = c.middlewares[i](h)
	}
	return h(ctx, rec)
}

func (c *chainHandler) WithGroup(group string) slog.Handler {
	return &chainHandler{h: c.h.WithGroup(group), middlewares: c.middlewares}
}

func (c *chainHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &chainHandler{h: c.h.WithAttrs(attrs), middlewares: c.middlewares}
}

func newGCPHandler(opts *slog.HandlerOptions) slog.Handler {
	return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   true,
		Level:       opts.Level,
		ReplaceAttr: replacerChain(gcpAttrReplacer, opts.ReplaceAttr),
	})
}

func gcpAttrReplacer(_ []string, attr slog.Attr) slog.Attr {
	switch attr.Key {
	case MessageKey:
		attr.Key = "message"
	case SourceKey:
		attr.Key = "logging.googleapis.com/sourceLocation"
	case LevelKey:
		attr.Key = "severity"
		if l, ok := attr.Value.Any().(slog.Level); ok {
			attr.Value = slog.StringValue(gcpSeverity(l))
		}
	}
	return attr
}
