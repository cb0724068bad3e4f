package repository

import (
	"context"
	"errors"
	"time"

	"mindmap/internal/domain"
)

// ErrNotFound is returned when a snapshot id does not exist
var ErrNotFound = errors.New("snapshot not found")

// SnapshotInfo describes an archived snapshot without its payload
type SnapshotInfo struct {
	ID              string    `json:"id"`
	Digest          string    `json:"digest"`
	NodeCount       int       `json:"node_count"`
	ConnectionCount int       `json:"connection_count"`
	CreatedAt       time.Time `json:"created_at"`
}

// Record is an archived snapshot with its payload
type Record struct {
	SnapshotInfo
	Snapshot *domain.Snapshot `json:"snapshot"`
}

// Archive stores export snapshots
type Archive interface {
	// Save stores snap. Saving content identical to an existing record
	// returns that record with created=false.
	Save(ctx context.Context, snap *domain.Snapshot) (info SnapshotInfo, created bool, err error)
	Get(ctx context.Context, id string) (*Record, error)
	// List returns every snapshot, newest first
	List(ctx context.Context) ([]SnapshotInfo, error)
	Delete(ctx context.Context, id string) error

	// Close releases resources
	Close() error
}
