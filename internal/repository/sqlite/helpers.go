package sqlite

import (
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/crypto/blake2b"

	"mindmap/internal/domain"
	"mindmap/internal/repository"
)

// infoColumns is the column list shared by every SnapshotInfo query.
// MUST match infoRow.scanArgs order.
const infoColumns = `id, digest, node_count, connection_count, created_at`

// infoRow holds the columns of a snapshot listing
type infoRow struct {
	ID              string
	Digest          string
	NodeCount       int
	ConnectionCount int
	CreatedAt       time.Time
}

func (r *infoRow) scanArgs() []any {
	return []any{
		&r.ID,
		&r.Digest,
		&r.NodeCount,
		&r.ConnectionCount,
		&r.CreatedAt,
	}
}

func (r *infoRow) toInfo() repository.SnapshotInfo {
	return repository.SnapshotInfo{
		ID:              r.ID,
		Digest:          r.Digest,
		NodeCount:       r.NodeCount,
		ConnectionCount: r.ConnectionCount,
		CreatedAt:       r.CreatedAt.UTC(),
	}
}

// canonical encodes snap to compact JSON. Field order follows the struct
// definitions and slices keep creation order, so equal diagrams encode equally.
func canonical(snap *domain.Snapshot) ([]byte, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return data, nil
}

// digest returns the hex BLAKE2b-256 of data
func digest(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// unmarshalSnapshot decodes a stored payload
func unmarshalSnapshot(ns sql.NullString) (*domain.Snapshot, error) {
	snap := domain.NewSnapshot()
	if !ns.Valid || ns.String == "" {
		return snap, nil
	}
	if err := json.Unmarshal([]byte(ns.String), snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return snap, nil
}
