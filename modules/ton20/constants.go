package ton20

import "github.com/gaze-network/ton20-indexer/modules/ton20/internal/snapshot"

const (
	Version       = "v0.1.0"
	ClientVersion = "gaze-ton20-v0.1.0"
	DBVersion     = 1

	// SnapshotVersion is the snapshot codec format persisted snapshots must match.
	SnapshotVersion = snapshot.FormatVersion
)
