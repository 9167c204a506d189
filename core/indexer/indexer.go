package indexer

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ton20-indexer/common/errs"
	"github.com/gaze-network/ton20-indexer/core/datasources"
	"github.com/gaze-network/ton20-indexer/core/types"
	"github.com/gaze-network/ton20-indexer/pkg/logger"
	"github.com/gaze-network/ton20-indexer/pkg/logger/slogx"
)

const (
	DefaultBatchSize       = 1000
	DefaultPollInterval    = 1 * time.Second
	DefaultMaxPollInterval = 15 * time.Second

	shutdownTimeout = 180 * time.Second
)

// IndexerWorker is a long running indexing job owned by the run command.
type IndexerWorker interface {
	Run(ctx context.Context) error
	Shutdown() error
}

// Input is anything with a place in the (lt, hash) order of the source.
type Input interface {
	Position() types.Position
}

// Processor consumes ordered inputs.
type Processor[T Input] interface {
	Name() string

	// Recover restores durable state and returns the cursor to start fetching from.
	Recover(ctx context.Context) (types.Cursor, error)

	// Process applies a page of inputs in order.
	Process(ctx context.Context, inputs []T) error

	// Shutdown persists whatever is pending before the indexer exits.
	Shutdown(ctx context.Context) error
}

type Options struct {
	BatchSize       int
	PollInterval    time.Duration
	MaxPollInterval time.Duration
}

// Indexer generic indexer for fetching and processing data
type Indexer[T Input] struct {
	Processor  Processor[T]
	Datasource datasources.Datasource[T]
	opts       Options
	cursor     types.Cursor

	started  atomic.Bool
	quitOnce sync.Once
	quit     chan struct{}
	done     chan struct{}
}

// New create new generic indexer
func New[T Input](processor Processor[T], datasource datasources.Datasource[T], opts Options) *Indexer[T] {
	opts.BatchSize = utils.Default(opts.BatchSize, DefaultBatchSize)
	opts.PollInterval = utils.Default(opts.PollInterval, DefaultPollInterval)
	opts.MaxPollInterval = utils.Default(opts.MaxPollInterval, DefaultMaxPollInterval)
	if opts.MaxPollInterval < opts.PollInterval {
		opts.MaxPollInterval = opts.PollInterval
	}
	return &Indexer[T]{
		Processor:  processor,
		Datasource: datasource,
		opts:       opts,

		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
}

func (i *Indexer[T]) Shutdown() error {
	return i.ShutdownWithContext(context.Background())
}

func (i *Indexer[T]) ShutdownWithContext(ctx context.Context) (err error) {
	i.quitOnce.Do(func() {
		close(i.quit)
		// never started, e.g. API-only mode
		if i.started.CompareAndSwap(false, true) {
			err = i.shutdownProcessor(ctx)
			return
		}
		select {
		case <-i.done:
		case <-time.After(shutdownTimeout):
			err = errors.Wrap(errs.Timeout, "indexer shutdown timeout")
		case <-ctx.Done():
			err = errors.Wrap(ctx.Err(), "indexer shutdown context canceled")
		}
	})
	return
}

func (i *Indexer[T]) Run(ctx context.Context) (err error) {
	if !i.started.CompareAndSwap(false, true) {
		return errors.Wrap(errs.Closed, "indexer already started or stopped")
	}
	defer close(i.done)

	ctx = logger.WithContext(ctx,
		slog.String("package", "indexer"),
		slog.String("processor", i.Processor.Name()),
		slog.String("datasource", i.Datasource.Name()),
	)

	i.cursor, err = i.Processor.Recover(ctx)
	if err != nil {
		return errors.Wrap(err, "can't init state, failed to recover processor")
	}

	wait := time.Duration(0)
	for {
		select {
		case <-i.quit:
			logger.InfoContext(ctx, "Got quit signal, stopping indexer")
			return i.shutdownProcessor(ctx)
		case <-ctx.Done():
			return i.shutdownProcessor(ctx)
		case <-time.After(wait):
		}

		n, err := i.process(ctx)
		if err != nil {
			logger.CriticalContext(ctx, "Indexer failed while processing", slogx.Error(err))
			return errors.Wrap(err, "process failed")
		}

		// back off while the source is drained, resume immediately otherwise
		if n > 0 {
			wait = 0
			continue
		}
		switch {
		case wait == 0:
			wait = i.opts.PollInterval
		case wait < i.opts.MaxPollInterval:
			wait = min(wait*2, i.opts.MaxPollInterval)
		}
		logger.DebugContext(ctx, "Waiting for new inputs", slogx.Duration("wait", wait))
	}
}

// shutdownProcessor uses a fresh context, the run context may already be canceled.
func (i *Indexer[T]) shutdownProcessor(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(logger.NewContext(context.Background(), logger.FromContext(ctx)), shutdownTimeout)
	defer cancel()
	if err := i.Processor.Shutdown(shutdownCtx); err != nil {
		logger.ErrorContext(ctx, "Failed to shutdown processor", slogx.Error(err))
		return errors.Wrap(err, "processor shutdown failed")
	}
	return nil
}

func (i *Indexer[T]) process(ctx context.Context) (int, error) {
	inputs, err := i.Datasource.Fetch(ctx, i.cursor, i.opts.BatchSize)
	if err != nil {
		return 0, errors.Wrap(err, "failed to fetch inputs")
	}
	if len(inputs) == 0 {
		return 0, nil
	}

	first, last := inputs[0].Position(), inputs[len(inputs)-1].Position()
	ctx = logger.WithContext(ctx,
		slogx.Uint64("from_lt", first.Lt),
		slogx.Uint64("to_lt", last.Lt),
		slogx.Int("total_inputs", len(inputs)),
	)

	startAt := time.Now()
	if err := i.Processor.Process(ctx, inputs); err != nil {
		return 0, errors.WithStack(err)
	}
	i.cursor = types.Cursor{Lt: last.Lt, Hash: &last.Hash}

	logger.InfoContext(ctx, "Processed inputs successfully",
		slogx.String("event", "processed_inputs"),
		slogx.Duration("duration", time.Since(startAt)),
	)
	return len(inputs), nil
}
