package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/jmoiron/sqlx"

	"github.com/99minutos/event-console/internal/infrastructure/db/keyed"
)

var tableName = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

type row struct {
	ID   string `db:"id"`
	Body string `db:"body"`
}

// DocumentGateway stores a collection in a table named after it.
type DocumentGateway[T any] struct {
	db    *sqlx.DB
	table string
	id    func(T) string
}

// NewDocumentGateway creates the backing table when missing.
func NewDocumentGateway[T any](ctx context.Context, db *sqlx.DB, collection string, id func(T) string) (*DocumentGateway[T], error) {
	if !tableName.MatchString(collection) {
		return nil, fmt.Errorf("sqlite: invalid collection name %q", collection)
	}

	ddl := `CREATE TABLE IF NOT EXISTS ` + collection + ` (
		id   TEXT PRIMARY KEY,
		body TEXT NOT NULL
	)`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return nil, fmt.Errorf("sqlite: create table %s: %w", collection, err)
	}

	return &DocumentGateway[T]{db: db, table: collection, id: id}, nil
}

// LoadAll returns every element ordered by ID.
func (g *DocumentGateway[T]) LoadAll(ctx context.Context) ([]T, error) {
	var rows []row
	if err := g.db.SelectContext(ctx, &rows, `SELECT id, body FROM `+g.table+` ORDER BY id`); err != nil {
		return nil, fmt.Errorf("sqlite: select %s: %w", g.table, err)
	}

	out := make([]T, 0, len(rows))
	for _, r := range rows {
		var v T
		if err := json.Unmarshal([]byte(r.Body), &v); err != nil {
			return nil, fmt.Errorf("sqlite: decode %s/%s: %w", g.table, r.ID, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// SaveAll replaces the table contents in a single transaction.
func (g *DocumentGateway[T]) SaveAll(ctx context.Context, elements []T) error {
	entries, err := keyed.Index(elements, g.id)
	if err != nil {
		return fmt.Errorf("sqlite: save %s: %w", g.table, err)
	}

	rows := make([]row, 0, len(entries))
	for _, e := range entries {
		raw, err := json.Marshal(e.Value)
		if err != nil {
			return fmt.Errorf("sqlite: encode %s/%s: %w", g.table, e.ID, err)
		}
		rows = append(rows, row{ID: e.ID, Body: string(raw)})
	}

	tx, err := g.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM `+g.table); err != nil {
		return fmt.Errorf("sqlite: clear %s: %w", g.table, err)
	}

	if len(rows) > 0 {
		stmt, err := tx.PrepareNamedContext(ctx, `INSERT INTO `+g.table+` (id, body) VALUES (:id, :body)`)
		if err != nil {
			return fmt.Errorf("sqlite: prepare insert %s: %w", g.table, err)
		}
		defer stmt.Close()

		for _, r := range rows {
			if _, err := stmt.ExecContext(ctx, r); err != nil {
				return fmt.Errorf("sqlite: insert %s/%s: %w", g.table, r.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit %s: %w", g.table, err)
	}
	return nil
}
