package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/planform/planform/backend-go/internal/typeid"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS documents (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	version    INTEGER NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS document_versions (
	id           UUID PRIMARY KEY,
	document_id  TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
	version      INTEGER NOT NULL,
	instructions JSONB NOT NULL,
	floor        JSONB NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL,
	UNIQUE (document_id, version)
);`

type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate postgres: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Create(ctx context.Context, name string, c Content) (*Document, error) {
	list, plan, err := c.encode()
	if err != nil {
		return nil, err
	}
	id := typeid.NewDocumentID()
	now := time.Now().UTC()

	err = pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO documents (id, name, version, created_at, updated_at) VALUES ($1, $2, 1, $3, $3)`,
			id, name, now); err != nil {
			return fmt.Errorf("insert document: %w", err)
		}
		return insertVersion(ctx, tx, id, 1, list, plan, now)
	})
	if err != nil {
		return nil, err
	}
	return &Document{ID: id, Name: name, Version: 1, Content: c, CreatedAt: now, UpdatedAt: now}, nil
}

func (p *Postgres) Get(ctx context.Context, id string) (*Document, error) {
	var (
		doc        Document
		list, plan []byte
	)
	err := p.pool.QueryRow(ctx, `
		SELECT d.id, d.name, d.version, v.instructions, v.floor, d.created_at, d.updated_at
		FROM documents d
		JOIN document_versions v ON v.document_id = d.id AND v.version = d.version
		WHERE d.id = $1`, id).
		Scan(&doc.ID, &doc.Name, &doc.Version, &list, &plan, &doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	if doc.Content, err = decodeContent(list, plan); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (p *Postgres) Save(ctx context.Context, id string, c Content) (*Document, error) {
	list, plan, err := c.encode()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()

	err = pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		var version int
		err := tx.QueryRow(ctx,
			`UPDATE documents SET version = version + 1, updated_at = $2 WHERE id = $1 RETURNING version`,
			id, now).Scan(&version)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("%w: %s", ErrNotFound, id)
			}
			return fmt.Errorf("bump version: %w", err)
		}
		return insertVersion(ctx, tx, id, version, list, plan, now)
	})
	if err != nil {
		return nil, err
	}
	return p.Get(ctx, id)
}

func (p *Postgres) List(ctx context.Context) ([]Summary, error) {
	rows, err := p.pool.Query(ctx, `SELECT id, name, version, updated_at FROM documents ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Summary, error) {
		var s Summary
		err := row.Scan(&s.ID, &s.Name, &s.Version, &s.UpdatedAt)
		return s, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan documents: %w", err)
	}
	return out, nil
}

func (p *Postgres) Delete(ctx context.Context, id string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func (p *Postgres) Close() { p.pool.Close() }

func insertVersion(ctx context.Context, tx pgx.Tx, docID string, version int, list, plan []byte, at time.Time) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO document_versions (id, document_id, version, instructions, floor, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.New(), docID, version, list, plan, at)
	if err != nil {
		return fmt.Errorf("insert version: %w", err)
	}
	return nil
}
