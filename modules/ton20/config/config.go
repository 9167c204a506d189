package config

import (
	"time"

	"github.com/gaze-network/ton20-indexer/internal/postgres"
)

type Config struct {
	Postgres postgres.Config `mapstructure:"postgres"`

	// CommitStateEachXTxs is the number of evaluated transactions between snapshots.
	CommitStateEachXTxs int `mapstructure:"commit_state_each_x_txs"`

	// BatchSize is the page size of the transaction source.
	BatchSize int `mapstructure:"batch_size"`

	PollInterval    time.Duration `mapstructure:"poll_interval"`
	MaxPollInterval time.Duration `mapstructure:"max_poll_interval"`

	// ClassifierConcurrency bounds concurrent account classification lookups per page.
	ClassifierConcurrency int `mapstructure:"classifier_concurrency"`

	// LegacyAllowlistPath is a gzip file holding the transaction hashes eligible
	// on the legacy zero-address path. Empty disables the legacy path.
	LegacyAllowlistPath string `mapstructure:"legacy_allowlist_path"`

	Archive ArchiveConfig `mapstructure:"archive"`
}

// ArchiveConfig configures the optional copy of every committed snapshot to S3.
type ArchiveConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Bucket  string `mapstructure:"bucket"`
	Prefix  string `mapstructure:"prefix"`
	Region  string `mapstructure:"region"`

	// Endpoint overrides the S3 endpoint, for S3-compatible stores.
	Endpoint string `mapstructure:"endpoint"`
}

func Default() Config {
	return Config{
		CommitStateEachXTxs:   100_000,
		BatchSize:             1000,
		PollInterval:          time.Second,
		MaxPollInterval:       15 * time.Second,
		ClassifierConcurrency: 16,
	}
}
