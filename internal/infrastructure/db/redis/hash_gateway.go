package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/redis/go-redis/v9"

	"github.com/99minutos/event-console/internal/infrastructure/db/keyed"
)

// HashGateway stores a collection in the hash <prefix>:<collection>, keyed
// by element ID with JSON values.
type HashGateway[T any] struct {
	client *redis.Client
	key    string
	id     func(T) string
}

func NewHashGateway[T any](client *redis.Client, prefix, collection string, id func(T) string) *HashGateway[T] {
	return &HashGateway[T]{
		client: client,
		key:    hashKey(prefix, collection),
		id:     id,
	}
}

// Key returns the Redis key backing the collection.
func (g *HashGateway[T]) Key() string { return g.key }

// LoadAll returns every element ordered by ID.
func (g *HashGateway[T]) LoadAll(ctx context.Context) ([]T, error) {
	fields, err := g.client.HGetAll(ctx, g.key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall %s: %w", g.key, err)
	}
	return decodeFields[T](fields)
}

// SaveAll replaces the hash inside MULTI/EXEC so readers never observe a
// partial collection.
func (g *HashGateway[T]) SaveAll(ctx context.Context, elements []T) error {
	fields, err := encodeFields(elements, g.id)
	if err != nil {
		return fmt.Errorf("redis save %s: %w", g.key, err)
	}

	_, err = g.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, g.key)
		if len(fields) > 0 {
			pipe.HSet(ctx, g.key, fields)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis save %s: %w", g.key, err)
	}
	return nil
}

func hashKey(prefix, collection string) string {
	if prefix == "" {
		return collection
	}
	return prefix + ":" + collection
}

func encodeFields[T any](elements []T, id func(T) string) (map[string]any, error) {
	entries, err := keyed.Index(elements, id)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]any, len(entries))
	for _, e := range entries {
		raw, err := json.Marshal(e.Value)
		if err != nil {
			return nil, fmt.Errorf("encode %q: %w", e.ID, err)
		}
		fields[e.ID] = string(raw)
	}
	return fields, nil
}

func decodeFields[T any](fields map[string]string) ([]T, error) {
	ids := make([]string, 0, len(fields))
	for id := range fields {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	out := make([]T, 0, len(ids))
	for _, id := range ids {
		var v T
		if err := json.Unmarshal([]byte(fields[id]), &v); err != nil {
			return nil, fmt.Errorf("decode %q: %w", id, err)
		}
		out = append(out, v)
	}
	return out, nil
}
