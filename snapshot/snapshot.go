package snapshot

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
)

// Record is one stored graph-dump snapshot: the audit trail for schema drift
// between relocation runs.
type Record struct {
	ID          string
	Filename    string
	Checksum    string
	EntityCount int
	CreatedAt   time.Time
	CreatedBy   string
}

func ensureSnapshotTable(conn *pgx.Conn, ctx context.Context) error {
	_, err := conn.Exec(ctx, `
	CREATE TABLE IF NOT EXISTS relocation_snapshots (
		id TEXT PRIMARY KEY,
		filename TEXT NOT NULL,
		checksum TEXT NOT NULL,
		entity_count INTEGER NOT NULL,
		created_at TIMESTAMP DEFAULT now(),
		created_by TEXT
	);
	`)
	if err != nil {
		return fmt.Errorf("failed to create relocation_snapshots table: %v", err)
	}
	return nil
}

func getCurrentUser() string {
	currentUser, err := user.Current()
	if err != nil {
		return "unknown"
	}
	return currentUser.Username
}

func calculateChecksum(content []byte) string {
	hash := sha256.Sum256(content)
	return fmt.Sprintf("%x", hash)
}

// Save writes a serialized graph dump to the snapshot directory and records it
// in the database. The file name carries a timestamp plus a ULID so snapshots
// sort chronologically on disk.
func Save(conn *pgx.Conn, ctx context.Context, dir string, dump []byte, entityCount int) (*Record, error) {
	if err := ensureSnapshotTable(conn, ctx); err != nil {
		return nil, err
	}

	record := &Record{
		ID:          ulid.Make().String(),
		Checksum:    calculateChecksum(dump),
		EntityCount: entityCount,
		CreatedAt:   time.Now().UTC(),
		CreatedBy:   getCurrentUser(),
	}
	record.Filename = fmt.Sprintf("%s_%s.json", record.CreatedAt.Format("20060102150405"), record.ID)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, record.Filename), dump, 0644); err != nil {
		return nil, fmt.Errorf("write snapshot file: %v", err)
	}

	_, err := conn.Exec(ctx, `
		INSERT INTO relocation_snapshots (id, filename, checksum, entity_count, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, record.ID, record.Filename, record.Checksum, record.EntityCount, record.CreatedAt, record.CreatedBy)
	if err != nil {
		return nil, fmt.Errorf("record snapshot: %v", err)
	}

	return record, nil
}

// History returns recorded snapshots, newest first. A zero limit means all.
func History(conn *pgx.Conn, ctx context.Context, limit int) ([]Record, error) {
	if err := ensureSnapshotTable(conn, ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, filename, checksum, entity_count, created_at, created_by
		FROM relocation_snapshots
		ORDER BY created_at DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query snapshot history: %v", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.Filename, &r.Checksum, &r.EntityCount, &r.CreatedAt, &r.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan snapshot record: %v", err)
		}
		records = append(records, r)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterating snapshot rows: %v", rows.Err())
	}

	return records, nil
}

// Latest returns the most recent snapshot record, if any.
func Latest(conn *pgx.Conn, ctx context.Context) (*Record, error) {
	records, err := History(conn, ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

// Drifted reports whether a freshly computed dump differs from the latest
// recorded snapshot checksum.
func Drifted(conn *pgx.Conn, ctx context.Context, dump []byte) (bool, *Record, error) {
	latest, err := Latest(conn, ctx)
	if err != nil {
		return false, nil, err
	}
	if latest == nil {
		return false, nil, nil
	}
	return calculateChecksum(dump) != latest.Checksum, latest, nil
}
