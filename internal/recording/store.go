package recording

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"vitalscan/internal/vitals"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; old databases must be deleted rather than migrated.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the
// expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// ErrNotFound indicates the requested recording does not exist.
var ErrNotFound = errors.New("recording not found")

// Sample is one captured engine input: the pushed value and its offset from
// the session start.
type Sample struct {
	Value  float64
	Offset time.Duration
}

// Trace is a full captured scan: acquisition parameters plus every sample in
// push order.
type Trace struct {
	ID         string
	Label      string
	Method     vitals.Method
	SampleRate float64
	Target     time.Duration
	CreatedAt  time.Time
	Samples    []Sample
}

// Summary describes a stored trace without its samples.
type Summary struct {
	ID          string
	Label       string
	Method      vitals.Method
	SampleRate  float64
	Target      time.Duration
	CreatedAt   time.Time
	SampleCount int
}

// Store manages trace persistence backed by SQLite. A file lock serializes
// writers, since several CLI invocations may share the recordings directory.
type Store struct {
	db      *sql.DB
	path    string
	lock    *flock.Flock
	maxKeep int
}

// Open initializes or connects to the recordings database in dir. maxKeep
// bounds how many traces Save retains; older ones are pruned.
func Open(dir string, maxKeep int) (*Store, error) {
	if maxKeep < 1 {
		return nil, fmt.Errorf("max keep %d must be positive", maxKeep)
	}

	dbPath := filepath.Join(dir, "recordings.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{
		db:      db,
		path:    dbPath,
		lock:    flock.New(filepath.Join(dir, "recordings.lock")),
		maxKeep: maxKeep,
	}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// Save persists a trace and prunes the oldest recordings beyond the
// retention limit.
func (s *Store) Save(ctx context.Context, trace *Trace) error {
	if trace == nil {
		return errors.New("trace is nil")
	}
	if trace.ID == "" {
		return errors.New("trace id is empty")
	}
	if !trace.Method.Valid() {
		return fmt.Errorf("trace method %q unknown", trace.Method)
	}
	if len(trace.Samples) == 0 {
		return errors.New("trace has no samples")
	}
	// Offsets are persisted at millisecond resolution; anything that would
	// collapse there comes back unreplayable.
	lastMillis := int64(-1)
	for i, sample := range trace.Samples {
		millis := sample.Offset.Milliseconds()
		if millis <= lastMillis {
			return fmt.Errorf("trace sample %d offset %dms does not increase at millisecond resolution", i, millis)
		}
		lastMillis = millis
	}

	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("acquire recordings lock: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	createdAt := trace.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO recordings (id, label, method, sample_rate, target_seconds, created_at, sample_count)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		trace.ID,
		nullableString(trace.Label),
		string(trace.Method),
		trace.SampleRate,
		trace.Target.Seconds(),
		createdAt.UTC().Format(time.RFC3339Nano),
		len(trace.Samples),
	)
	if err != nil {
		return fmt.Errorf("insert recording: %w", err)
	}

	insert, err := tx.PrepareContext(ctx,
		`INSERT INTO samples (recording_id, seq, value, offset_ms) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare sample insert: %w", err)
	}
	defer insert.Close()

	for seq, sample := range trace.Samples {
		if _, err := insert.ExecContext(ctx, trace.ID, seq, sample.Value, sample.Offset.Milliseconds()); err != nil {
			return fmt.Errorf("insert sample %d: %w", seq, err)
		}
	}

	if err := pruneLocked(ctx, tx, s.maxKeep); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

func pruneLocked(ctx context.Context, tx *sql.Tx, maxKeep int) error {
	_, err := tx.ExecContext(ctx,
		`DELETE FROM recordings WHERE id NOT IN (
            SELECT id FROM recordings ORDER BY created_at DESC, id DESC LIMIT ?
        )`, maxKeep)
	if err != nil {
		return fmt.Errorf("prune recordings: %w", err)
	}
	return nil
}

// Get fetches a trace with its samples in push order.
func (s *Store) Get(ctx context.Context, id string) (*Trace, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, label, method, sample_rate, target_seconds, created_at
         FROM recordings WHERE id = ?`, id)

	trace, err := scanTrace(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get recording: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT value, offset_ms FROM samples WHERE recording_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("query samples: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			value    float64
			offsetMS int64
		)
		if err := rows.Scan(&value, &offsetMS); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		trace.Samples = append(trace.Samples, Sample{
			Value:  value,
			Offset: time.Duration(offsetMS) * time.Millisecond,
		})
	}
	return trace, rows.Err()
}

// List returns summaries of stored traces, newest first.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, label, method, sample_rate, target_seconds, created_at, sample_count
         FROM recordings ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list recordings: %w", err)
	}
	defer rows.Close()

	var summaries []Summary
	for rows.Next() {
		var (
			summary       Summary
			label         sql.NullString
			method        string
			targetSeconds float64
			createdRaw    string
		)
		if err := rows.Scan(&summary.ID, &label, &method, &summary.SampleRate, &targetSeconds, &createdRaw, &summary.SampleCount); err != nil {
			return nil, fmt.Errorf("scan recording: %w", err)
		}
		summary.Label = label.String
		summary.Method = vitals.Method(method)
		summary.Target = time.Duration(targetSeconds * float64(time.Second))
		if created, err := time.Parse(time.RFC3339Nano, createdRaw); err == nil {
			summary.CreatedAt = created
		}
		summaries = append(summaries, summary)
	}
	return summaries, rows.Err()
}

// Delete removes a trace by identifier and reports whether it existed.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	if err := s.lock.Lock(); err != nil {
		return false, fmt.Errorf("acquire recordings lock: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	res, err := s.db.ExecContext(ctx, `DELETE FROM recordings WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete recording: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

func scanTrace(scanner interface{ Scan(dest ...any) error }) (*Trace, error) {
	var (
		trace         Trace
		label         sql.NullString
		method        string
		targetSeconds float64
		createdRaw    string
	)
	if err := scanner.Scan(&trace.ID, &label, &method, &trace.SampleRate, &targetSeconds, &createdRaw); err != nil {
		return nil, err
	}
	trace.Label = label.String
	trace.Method = vitals.Method(method)
	trace.Target = time.Duration(targetSeconds * float64(time.Second))
	if created, err := time.Parse(time.RFC3339Nano, createdRaw); err == nil {
		trace.CreatedAt = created
	}
	return &trace, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
