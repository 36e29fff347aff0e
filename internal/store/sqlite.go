package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/planform/planform/backend-go/internal/typeid"
)

const sqliteSchema = `
PRAGMA foreign_keys = ON;
CREATE TABLE IF NOT EXISTS documents (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	version    INTEGER NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS document_versions (
	id           TEXT PRIMARY KEY,
	document_id  TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
	version      INTEGER NOT NULL,
	instructions TEXT NOT NULL,
	floor        TEXT NOT NULL,
	created_at   TEXT NOT NULL,
	UNIQUE (document_id, version)
);`

type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (creating if needed) the database file at path.
func NewSQLite(ctx context.Context, path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}
	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Create(ctx context.Context, name string, c Content) (*Document, error) {
	list, plan, err := c.encode()
	if err != nil {
		return nil, err
	}
	id := typeid.NewDocumentID()
	now := time.Now().UTC()

	err = s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO documents (id, name, version, created_at, updated_at) VALUES (?, ?, 1, ?, ?)`,
			id, name, formatTime(now), formatTime(now)); err != nil {
			return fmt.Errorf("insert document: %w", err)
		}
		return s.insertVersion(ctx, tx, id, 1, list, plan, now)
	})
	if err != nil {
		return nil, err
	}
	return &Document{ID: id, Name: name, Version: 1, Content: c, CreatedAt: now, UpdatedAt: now}, nil
}

func (s *SQLite) Get(ctx context.Context, id string) (*Document, error) {
	var (
		doc                  Document
		list, plan           string
		createdAt, updatedAt string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT d.id, d.name, d.version, v.instructions, v.floor, d.created_at, d.updated_at
		FROM documents d
		JOIN document_versions v ON v.document_id = d.id AND v.version = d.version
		WHERE d.id = ?`, id).
		Scan(&doc.ID, &doc.Name, &doc.Version, &list, &plan, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	if doc.Content, err = decodeContent([]byte(list), []byte(plan)); err != nil {
		return nil, err
	}
	doc.CreatedAt = parseTime(createdAt)
	doc.UpdatedAt = parseTime(updatedAt)
	return &doc, nil
}

func (s *SQLite) Save(ctx context.Context, id string, c Content) (*Document, error) {
	list, plan, err := c.encode()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()

	err = s.inTx(ctx, func(tx *sql.Tx) error {
		var version int
		if err := tx.QueryRowContext(ctx, `SELECT version FROM documents WHERE id = ?`, id).Scan(&version); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: %s", ErrNotFound, id)
			}
			return fmt.Errorf("read version: %w", err)
		}
		version++
		if _, err := tx.ExecContext(ctx,
			`UPDATE documents SET version = ?, updated_at = ? WHERE id = ?`,
			version, formatTime(now), id); err != nil {
			return fmt.Errorf("bump version: %w", err)
		}
		return s.insertVersion(ctx, tx, id, version, list, plan, now)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *SQLite) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, version, updated_at FROM documents ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var (
			sum Summary
			at  string
		)
		if err := rows.Scan(&sum.ID, &sum.Name, &sum.Version, &at); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		sum.UpdatedAt = parseTime(at)
		out = append(out, sum)
	}
	return out, rows.Err()
}

func (s *SQLite) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func (s *SQLite) Close() { s.db.Close() }

func (s *SQLite) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (s *SQLite) insertVersion(ctx context.Context, tx *sql.Tx, docID string, version int, list, plan []byte, at time.Time) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO document_versions (id, document_id, version, instructions, floor, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), docID, version, string(list), string(plan), formatTime(at))
	if err != nil {
		return fmt.Errorf("insert version: %w", err)
	}
	return nil
}

func formatTime(t time.Time) string { return t.Format(time.RFC3339Nano) }

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}
