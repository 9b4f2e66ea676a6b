// package store persists husk invocation history in a local sqlite database.
//
// Recording is observational: nothing the workbench does depends on what's in
// here, and a recording failure never changes an operation's outcome.
package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const dbFilename = "husk.db"

// Store wraps the history database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the history database under dir and
// applies any pending schema migrations.
func Open(ctx context.Context, dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, err
	}
	dbPath := filepath.Join(dir, dbFilename)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL: %w", err)
	}

	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	slog.DebugContext(ctx, "store.Open", "path", dbPath)
	return &Store{db: db}, nil
}

func migrateUp(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return err
	}
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// BuildRecord is one image build invocation.
type BuildRecord struct {
	ID         string
	Image      string
	ContextDir string
	StartedAt  time.Time
	Duration   time.Duration
	ExitCode   int
}

// RecordBuild inserts a completed build into the history.
func (s *Store) RecordBuild(ctx context.Context, rec BuildRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO builds (id, image, context_dir, started_at_ms, duration_ms, exit_code)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Image, rec.ContextDir, rec.StartedAt.UnixMilli(), rec.Duration.Milliseconds(), rec.ExitCode)
	return err
}

// ListBuilds returns up to limit builds, most recent first.
func (s *Store) ListBuilds(ctx context.Context, limit int) ([]BuildRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, image, context_dir, started_at_ms, duration_ms, exit_code
		FROM builds
		ORDER BY started_at_ms DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ret []BuildRecord
	for rows.Next() {
		var rec BuildRecord
		var startedMs, durationMs int64
		if err := rows.Scan(&rec.ID, &rec.Image, &rec.ContextDir, &startedMs, &durationMs, &rec.ExitCode); err != nil {
			return nil, err
		}
		rec.StartedAt = time.UnixMilli(startedMs)
		rec.Duration = time.Duration(durationMs) * time.Millisecond
		ret = append(ret, rec)
	}
	return ret, rows.Err()
}

// PruneBuilds deletes all build history and returns the number of rows removed.
func (s *Store) PruneBuilds(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM builds`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SessionRecord is one container session. EndedAt and ExitCode are only
// meaningful once Ended is true; a false Ended means the session is either
// still running or was cut short before husk could record its end.
type SessionRecord struct {
	ID          string
	Name        string
	Image       string
	HostDir     string
	MountTarget string
	Command     string
	StartedAt   time.Time
	EndedAt     time.Time
	ExitCode    int
	Ended       bool
}

// RecordSessionStart inserts a session row before the container runs.
func (s *Store) RecordSessionStart(ctx context.Context, rec SessionRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, name, image, host_dir, mount_target, command, started_at_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Name, rec.Image, rec.HostDir, rec.MountTarget, rec.Command, rec.StartedAt.UnixMilli())
	return err
}

// CompleteSession marks a session as ended with the engine's exit code.
func (s *Store) CompleteSession(ctx context.Context, id string, endedAt time.Time, exitCode int) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE sessions SET ended_at_ms = ?, exit_code = ? WHERE id = ?`,
		endedAt.UnixMilli(), exitCode, id)
	return err
}

// ListSessions returns up to limit sessions, most recent first.
func (s *Store) ListSessions(ctx context.Context, limit int) ([]SessionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, image, host_dir, mount_target, command, started_at_ms, ended_at_ms, exit_code
		FROM sessions
		ORDER BY started_at_ms DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ret []SessionRecord
	for rows.Next() {
		var rec SessionRecord
		var startedMs int64
		var endedMs, exitCode sql.NullInt64
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Image, &rec.HostDir, &rec.MountTarget, &rec.Command, &startedMs, &endedMs, &exitCode); err != nil {
			return nil, err
		}
		rec.StartedAt = time.UnixMilli(startedMs)
		if endedMs.Valid {
			rec.EndedAt = time.UnixMilli(endedMs.Int64)
			rec.ExitCode = int(exitCode.Int64)
			rec.Ended = true
		}
		ret = append(ret, rec)
	}
	return ret, rows.Err()
}

// DeleteSessionByName removes the history rows for the named session.
func (s *Store) DeleteSessionByName(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE name = ?`, name)
	return err
}

// PruneSessions deletes all session history and returns the number of rows removed.
func (s *Store) PruneSessions(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// BundleRecord is one published (or locally written) bundle artifact.
type BundleRecord struct {
	Name      string
	Digest    string
	SizeBytes int64
	Reference string
	Pushed    bool
	CreatedAt time.Time
}

// RecordBundle upserts a bundle artifact keyed by (name, digest).
func (s *Store) RecordBundle(ctx context.Context, rec BundleRecord) error {
	pushed := 0
	if rec.Pushed {
		pushed = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bundles (name, digest, size_bytes, reference, pushed, created_at_ms)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (name, digest) DO UPDATE SET
			size_bytes = excluded.size_bytes,
			reference = excluded.reference,
			pushed = excluded.pushed`,
		rec.Name, rec.Digest, rec.SizeBytes, rec.Reference, pushed, rec.CreatedAt.UnixMilli())
	return err
}

// ListBundles returns up to limit bundle records, most recent first.
func (s *Store) ListBundles(ctx context.Context, limit int) ([]BundleRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, digest, size_bytes, reference, pushed, created_at_ms
		FROM bundles
		ORDER BY created_at_ms DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ret []BundleRecord
	for rows.Next() {
		var rec BundleRecord
		var pushed int
		var createdMs int64
		if err := rows.Scan(&rec.Name, &rec.Digest, &rec.SizeBytes, &rec.Reference, &pushed, &createdMs); err != nil {
			return nil, err
		}
		rec.Pushed = pushed != 0
		rec.CreatedAt = time.UnixMilli(createdMs)
		ret = append(ret, rec)
	}
	return ret, rows.Err()
}

// PruneBundles deletes all bundle history and returns the number of rows removed.
func (s *Store) PruneBundles(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM bundles`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
