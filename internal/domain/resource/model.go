package resource

import (
	"context"
	"encoding/json"
	"time"
)

// Record is the versioned local copy of one upstream record. Version starts
// at 1 and increases by exactly 1 on every overwrite of the same
// (ResourceType, RecordID) pair.
type Record struct {
	ResourceType Type            `db:"resource_type"`
	RecordID     int64           `db:"record_id"`
	Fields       json.RawMessage `db:"fields"`
	Payload      json.RawMessage `db:"payload"`
	Version      int             `db:"version"`
	UpdatedAt    time.Time       `db:"updated_at"`
}

// Snapshot is one row of the append-only version history. A snapshot is
// written for every overwrite, never for a first insert, so the version run
// for a given record is gapless starting at 2.
type Snapshot struct {
	ResourceType Type            `db:"resource_type"`
	RecordID     int64           `db:"record_id"`
	Version      int             `db:"version"`
	Payload      json.RawMessage `db:"payload"`
	CreatedAt    time.Time       `db:"created_at"`
}

type Repository interface {
	ListByType(ctx context.Context, t Type) ([]*Record, error)
	// Merge inserts the record at version 1 or overwrites it at
	// existing version + 1, atomically, returning the resulting version.
	Merge(ctx context.Context, t Type, recordID int64, fields, payload json.RawMessage) (int, error)
}

type VersionRepository interface {
	Append(ctx context.Context, snap *Snapshot) error
	ListByRecord(ctx context.Context, t Type, recordID int64) ([]*Snapshot, error)
}
