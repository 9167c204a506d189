// Package automaxprocs sets GOMAXPROCS from the container CPU quota and logs the result.
package automaxprocs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ton20-indexer/pkg/logger"
	"github.com/gaze-network/ton20-indexer/pkg/logger/slogx"
	"go.uber.org/automaxprocs/maxprocs"
)

// initialMaxProcs is GOMAXPROCS at process start.
var initialMaxProcs = Current()

// Init is a no-op outside Linux or without a CPU quota. GOMAXPROCS from the
// environment takes precedence.
func Init() error {
	l := logger.With(
		slogx.String("package", "automaxprocs"),
		slogx.String("event", "set_gomaxprocs"),
		slogx.Int("prev_maxprocs", initialMaxProcs),
	)

	printf := func(format string, v ...any) {
		var attrs []slog.Attr
		if _, ok := utils.Optional(v); ok {
			attrs = append(attrs, slogx.Int("set_maxprocs", Current()), slogx.Bool("from_env", honorsEnv()))
		}
		l.LogAttrs(context.Background(), slog.LevelInfo, fmt.Sprintf(format, v...), attrs...)
	}

	if _, err := maxprocs.Set(maxprocs.Logger(printf), maxprocs.Min(1)); err != nil {
		return errors.WithStack(err)
	}
	return nil
}

// Current returns the current value of GOMAXPROCS.
func Current() int {
	return runtime.GOMAXPROCS(0)
}

// honorsEnv reports whether GOMAXPROCS is pinned by the environment.
func honorsEnv() bool {
	_, ok := os.LookupEnv("GOMAXPROCS")
	return ok
}
