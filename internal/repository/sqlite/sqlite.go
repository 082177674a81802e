package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gradebook/internal/codec"
	"gradebook/internal/domain"
	"gradebook/internal/repository"

	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database
const MemoryPath = ":memory:"

// Repository implements repository.Backend using SQLite
type Repository struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ repository.Backend = (*Repository)(nil)

// New creates a new SQLite repository
func New(dbPath string, logger *slog.Logger) (*Repository, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dsn := dbPath
	if dbPath != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database dir: %w", err)
		}
		dsn = "file:" + dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one connection keeps :memory: a single database and matches the
	// single-caller model of the gradebook
	db.SetMaxOpenConns(1)

	repo := &Repository{
		db:     db,
		logger: logger.With("backend", "sqlite", "db", dbPath),
	}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS students (
		pos INTEGER PRIMARY KEY,
		id TEXT NOT NULL,
		line TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS subjects (
		pos INTEGER PRIMARY KEY,
		id TEXT NOT NULL,
		line TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS records (
		pos INTEGER PRIMARY KEY,
		student_id TEXT NOT NULL,
		subject_id TEXT NOT NULL,
		line TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS metadata (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_students_id ON students(id);
	CREATE INDEX IF NOT EXISTS idx_subjects_id ON subjects(id);
	CREATE INDEX IF NOT EXISTS idx_records_student ON records(student_id);
	`

	_, err := r.db.Exec(schema)
	return err
}

// LoadStudents reads the students table in saved order
func (r *Repository) LoadStudents(ctx context.Context) (repository.LoadResult[domain.Student], error) {
	return loadTable(ctx, r.db, "students", codec.Students)
}

// LoadSubjects reads the subjects table in saved order
func (r *Repository) LoadSubjects(ctx context.Context) (repository.LoadResult[domain.Subject], error) {
	return loadTable(ctx, r.db, "subjects", codec.Subjects)
}

// LoadRecords reads the records table in saved order
func (r *Repository) LoadRecords(ctx context.Context) (repository.LoadResult[domain.Record], error) {
	return loadTable(ctx, r.db, "records", codec.Records)
}

// SaveStudents replaces the students table
func (r *Repository) SaveStudents(ctx context.Context, students []domain.Student) error {
	rows := make([]row, 0, len(students))
	for _, s := range students {
		rows = append(rows, row{keys: []any{s.ID}, line: codec.EncodeStudent(s)})
	}
	return r.replaceTable(ctx, "students", `INSERT INTO students (pos, id, line) VALUES (?, ?, ?)`, rows)
}

// SaveSubjects replaces the subjects table
func (r *Repository) SaveSubjects(ctx context.Context, subjects []domain.Subject) error {
	rows := make([]row, 0, len(subjects))
	for _, s := range subjects {
		rows = append(rows, row{keys: []any{s.ID}, line: codec.EncodeSubject(s)})
	}
	return r.replaceTable(ctx, "subjects", `INSERT INTO subjects (pos, id, line) VALUES (?, ?, ?)`, rows)
}

// SaveRecords replaces the records table
func (r *Repository) SaveRecords(ctx context.Context, records []domain.Record) error {
	rows := make([]row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, row{keys: []any{rec.StudentID, rec.SubjectID}, line: codec.EncodeRecord(rec)})
	}
	return r.replaceTable(ctx, "records", `INSERT INTO records (pos, student_id, subject_id, line) VALUES (?, ?, ?, ?)`, rows)
}

// replaceTable swaps the content of one table inside a transaction
func (r *Repository) replaceTable(ctx context.Context, table, insert string, rows []row) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
		return fmt.Errorf("failed to clear %s: %w", table, err)
	}

	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("failed to prepare %s statement: %w", table, err)
	}
	defer stmt.Close()

	for i, rw := range rows {
		if _, err := stmt.ExecContext(ctx, rw.args(i)...); err != nil {
			return fmt.Errorf("failed to insert into %s: %w", table, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO metadata (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, "last_save_"+table, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("failed to store save timestamp: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.logger.Debug("saved collection", "table", table, "entries", len(rows))
	return nil
}

// LastSaved returns when a collection was last saved, or the zero time
func (r *Repository) LastSaved(ctx context.Context, table string) (time.Time, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, "last_save_"+table).Scan(&value)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to query metadata: %w", err)
	}
	return time.Parse(time.RFC3339, value)
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}
