// Package file stores each collection as one pretty-printed JSON document
// mapping element IDs to elements.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/99minutos/event-console/internal/infrastructure/db/keyed"
)

// Gateway persists one collection in <dir>/<collection>.json.
type Gateway[T any] struct {
	mu   sync.Mutex
	path string
	id   func(T) string
}

// NewGateway creates dir when missing.
func NewGateway[T any](dir, collection string, id func(T) string) (*Gateway[T], error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("file gateway: create %s: %w", dir, err)
	}
	return &Gateway[T]{
		path: filepath.Join(dir, collection+".json"),
		id:   id,
	}, nil
}

// Path returns the backing file.
func (g *Gateway[T]) Path() string { return g.path }

// LoadAll returns elements ordered by ID. A missing file is an empty
// collection.
func (g *Gateway[T]) LoadAll(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	data, err := os.ReadFile(g.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("file gateway: read %s: %w", g.path, err)
	}

	var docs map[string]T
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("file gateway: decode %s: %w", g.path, err)
	}

	ids := make([]string, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, docs[id])
	}
	return out, nil
}

// SaveAll replaces the file. The new content is written to a temp file in
// the same directory and renamed over the old one.
func (g *Gateway[T]) SaveAll(ctx context.Context, elements []T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries, err := keyed.Index(elements, g.id)
	if err != nil {
		return fmt.Errorf("file gateway: %w", err)
	}
	docs := make(map[string]T, len(entries))
	for _, e := range entries {
		docs[e.ID] = e.Value
	}
	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return fmt.Errorf("file gateway: encode: %w", err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(g.path), filepath.Base(g.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("file gateway: temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("file gateway: write: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("file gateway: sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("file gateway: close: %w", err)
	}
	if err := os.Rename(tmp.Name(), g.path); err != nil {
		return fmt.Errorf("file gateway: replace %s: %w", g.path, err)
	}
	return nil
}
