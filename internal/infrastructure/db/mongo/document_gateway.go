package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/event-console/internal/infrastructure/db/keyed"
)

// document wraps an element so the storage ID never collides with the
// element's own fields.
type document[T any] struct {
	ID   string `bson:"_id"`
	Body T      `bson:"body"`
}

// DocumentGateway stores one collection, one document per element.
type DocumentGateway[T any] struct {
	col     *mongo.Collection
	id      func(T) string
	timeout time.Duration
}

// NewDocumentGateway binds a gateway to db.collection. A zero timeout
// selects the package default.
func NewDocumentGateway[T any](db *mongo.Database, collection string, id func(T) string, timeout time.Duration) *DocumentGateway[T] {
	return &DocumentGateway[T]{
		col:     db.Collection(collection),
		id:      id,
		timeout: timeoutOrDefault(timeout),
	}
}

// LoadAll returns every element ordered by ID.
func (g *DocumentGateway[T]) LoadAll(ctx context.Context) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := g.col.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo find %s: %w", g.col.Name(), err)
	}

	var docs []document[T]
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo decode %s: %w", g.col.Name(), err)
	}

	out := make([]T, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.Body)
	}
	return out, nil
}

// SaveAll upserts every element, then removes documents whose IDs are no
// longer present.
func (g *DocumentGateway[T]) SaveAll(ctx context.Context, elements []T) error {
	models, ids, err := replaceModels(elements, g.id)
	if err != nil {
		return fmt.Errorf("mongo save %s: %w", g.col.Name(), err)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if len(models) > 0 {
		opts := options.BulkWrite().SetOrdered(false)
		if _, err := g.col.BulkWrite(ctx, models, opts); err != nil {
			return fmt.Errorf("mongo bulk write %s: %w", g.col.Name(), err)
		}
	}

	if _, err := g.col.DeleteMany(ctx, staleFilter(ids)); err != nil {
		return fmt.Errorf("mongo prune %s: %w", g.col.Name(), err)
	}
	return nil
}

// EnsureIndexes creates ascending indexes on the given body fields.
func (g *DocumentGateway[T]) EnsureIndexes(ctx context.Context, fields ...string) error {
	if len(fields) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := g.col.Indexes().CreateMany(ctx, indexModels(fields))
	if err != nil {
		return fmt.Errorf("mongo indexes %s: %w", g.col.Name(), err)
	}
	return nil
}

func replaceModels[T any](elements []T, id func(T) string) ([]mongo.WriteModel, []string, error) {
	entries, err := keyed.Index(elements, id)
	if err != nil {
		return nil, nil, err
	}

	models := make([]mongo.WriteModel, 0, len(entries))
	for _, e := range entries {
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": e.ID}).
			SetReplacement(document[T]{ID: e.ID, Body: e.Value}).
			SetUpsert(true))
	}
	return models, keyed.IDs(entries), nil
}

// staleFilter matches documents not in ids. ids must be non-nil so $nin
// encodes as an array.
func staleFilter(ids []string) bson.M {
	if ids == nil {
		ids = []string{}
	}
	return bson.M{"_id": bson.M{"$nin": ids}}
}

func indexModels(fields []string) []mongo.IndexModel {
	models := make([]mongo.IndexModel, 0, len(fields))
	for _, f := range fields {
		models = append(models, mongo.IndexModel{
			Keys: bson.D{{Key: "body." + f, Value: 1}},
		})
	}
	return models
}
