package entity

import "time"

type IndexerState struct {
	CreatedAt       time.Time
	ClientVersion   string
	DBVersion       int32
	SnapshotVersion int32
}
