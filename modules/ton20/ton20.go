package ton20

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ton20-indexer/common/errs"
	"github.com/gaze-network/ton20-indexer/core/datasources"
	"github.com/gaze-network/ton20-indexer/core/indexer"
	"github.com/gaze-network/ton20-indexer/internal/config"
	"github.com/gaze-network/ton20-indexer/internal/postgres"
	"github.com/gaze-network/ton20-indexer/modules/ton20/api/httphandler"
	"github.com/gaze-network/ton20-indexer/modules/ton20/internal/archive"
	"github.com/gaze-network/ton20-indexer/modules/ton20/internal/classifier"
	"github.com/gaze-network/ton20-indexer/modules/ton20/internal/legacy"
	ton20postgres "github.com/gaze-network/ton20-indexer/modules/ton20/internal/repository/postgres"
	"github.com/gaze-network/ton20-indexer/modules/ton20/internal/usecase"
	"github.com/gaze-network/ton20-indexer/pkg/logger"
	"github.com/gaze-network/ton20-indexer/pkg/logger/slogx"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/do/v2"
)

func New(injector do.Injector) (indexer.IndexerWorker, error) {
	ctx := do.MustInvoke[context.Context](injector)
	conf := do.MustInvoke[config.Config](injector)
	moduleConf := conf.Modules.TON20

	cleanupFuncs := make([]func(context.Context) error, 0)
	pg, err := postgres.NewPool(ctx, moduleConf.Postgres)
	if err != nil {
		if errors.Is(err, errs.InvalidArgument) {
			return nil, errors.Wrap(err, "Invalid Postgres configuration for indexer")
		}
		return nil, errors.Wrap(err, "can't create Postgres connection pool")
	}
	cleanupFuncs = append(cleanupFuncs, func(ctx context.Context) error {
		pg.Close()
		return nil
	})
	ton20Repo := ton20postgres.NewRepository(pg)

	// Mount API
	httpServer := do.MustInvoke[*fiber.App](injector)
	httpHandler := httphandler.New(usecase.New(ton20Repo))
	if err := httpHandler.Mount(httpServer); err != nil {
		return nil, errors.Wrap(err, "can't mount API")
	}
	logger.InfoContext(ctx, "Mounted HTTP handler")

	allowList, err := legacy.Load(moduleConf.LegacyAllowlistPath)
	if err != nil {
		return nil, errors.Wrap(err, "can't load legacy allow-list")
	}
	logger.InfoContext(ctx, "Loaded legacy allow-list", slogx.Int("hashes", allowList.Len()))

	var archiver Archiver
	if moduleConf.Archive.Enabled {
		s3Archiver, err := archive.New(ctx, moduleConf.Archive)
		if err != nil {
			return nil, errors.Wrap(err, "can't create snapshot archiver")
		}
		archiver = s3Archiver
	}

	processor, err := NewProcessor(ton20Repo, ton20Repo, classifier.New(ton20Repo, moduleConf.ClassifierConcurrency), ProcessorOptions{
		CommitStateEachXTxs: moduleConf.CommitStateEachXTxs,
		LegacyOracle:        allowList,
		Archiver:            archiver,
	}, cleanupFuncs)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if err := processor.VerifyStates(ctx); err != nil {
		return nil, errors.WithStack(err)
	}

	return indexer.New(processor, datasources.NewTONTransactions(pg), indexer.Options{
		BatchSize:       moduleConf.BatchSize,
		PollInterval:    moduleConf.PollInterval,
		MaxPollInterval: moduleConf.MaxPollInterval,
	}), nil
}
