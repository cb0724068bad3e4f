package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mindmap/internal/domain"
	"mindmap/internal/repository"

	_ "modernc.org/sqlite"
)

// Repository implements repository.Archive using SQLite
type Repository struct {
	db     *sql.DB
	logger *zap.Logger
	now    func() time.Time
}

var _ repository.Archive = (*Repository)(nil)

// Option configures a Repository
type Option func(*Repository)

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(r *Repository) { r.logger = l }
}

// WithClock overrides the creation timestamp source
func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

// New opens (creating if needed) the archive at dbPath. ":memory:" is accepted.
func New(dbPath string, opts ...Option) (*Repository, error) {
	dsn := dbPath
	if dbPath != ":memory:" {
		sep := "?"
		if strings.Contains(dbPath, "?") {
			sep = "&"
		}
		dsn = dbPath + sep + "_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one connection keeps :memory: databases shared and serialises writers
	db.SetMaxOpenConns(1)

	repo := &Repository{
		db:     db,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(repo)
	}

	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		id TEXT PRIMARY KEY,
		digest TEXT NOT NULL UNIQUE,
		node_count INTEGER NOT NULL DEFAULT 0,
		connection_count INTEGER NOT NULL DEFAULT 0,
		data JSON NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_created ON snapshots(created_at);
	`

	_, err := r.db.Exec(schema)
	return err
}

// Save stores snap unless a snapshot with identical content exists
func (r *Repository) Save(ctx context.Context, snap *domain.Snapshot) (repository.SnapshotInfo, bool, error) {
	data, err := canonical(snap)
	if err != nil {
		return repository.SnapshotInfo{}, false, err
	}
	sum := digest(data)

	existing, err := r.findByDigest(ctx, sum)
	switch {
	case err == nil:
		r.logger.Debug("snapshot already archived", zap.String("id", existing.ID))
		return existing, false, nil
	case !errors.Is(err, repository.ErrNotFound):
		return repository.SnapshotInfo{}, false, err
	}

	info := repository.SnapshotInfo{
		ID:              uuid.NewString(),
		Digest:          sum,
		NodeCount:       len(snap.Nodes),
		ConnectionCount: len(snap.Connections),
		CreatedAt:       r.now().UTC(),
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO snapshots (id, digest, node_count, connection_count, data, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, info.ID, info.Digest, info.NodeCount, info.ConnectionCount, string(data), info.CreatedAt)
	if err != nil {
		return repository.SnapshotInfo{}, false, fmt.Errorf("failed to insert snapshot: %w", err)
	}

	r.logger.Info("snapshot archived",
		zap.String("id", info.ID),
		zap.Int("nodes", info.NodeCount),
		zap.Int("connections", info.ConnectionCount),
	)
	return info, true, nil
}

func (r *Repository) findByDigest(ctx context.Context, sum string) (repository.SnapshotInfo, error) {
	var row infoRow
	err := r.db.QueryRowContext(ctx,
		`SELECT `+infoColumns+` FROM snapshots WHERE digest = ?`, sum,
	).Scan(row.scanArgs()...)
	if errors.Is(err, sql.ErrNoRows) {
		return repository.SnapshotInfo{}, repository.ErrNotFound
	}
	if err != nil {
		return repository.SnapshotInfo{}, fmt.Errorf("failed to query snapshot digest: %w", err)
	}
	return row.toInfo(), nil
}

// Get returns the snapshot with id
func (r *Repository) Get(ctx context.Context, id string) (*repository.Record, error) {
	var (
		row  infoRow
		data sql.NullString
	)
	args := append(row.scanArgs(), &data)
	err := r.db.QueryRowContext(ctx,
		`SELECT `+infoColumns+`, data FROM snapshots WHERE id = ?`, id,
	).Scan(args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", repository.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot: %w", err)
	}

	snap, err := unmarshalSnapshot(data)
	if err != nil {
		return nil, err
	}
	return &repository.Record{SnapshotInfo: row.toInfo(), Snapshot: snap}, nil
}

// List returns every snapshot, newest first
func (r *Repository) List(ctx context.Context) ([]repository.SnapshotInfo, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+infoColumns+` FROM snapshots ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	out := make([]repository.SnapshotInfo, 0)
	for rows.Next() {
		var row infoRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		out = append(out, row.toInfo())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}
	return out, nil
}

// Delete removes the snapshot with id
func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", repository.ErrNotFound, id)
	}
	return nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}
