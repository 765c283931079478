package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fitstudio/server/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const counterCollectionName = "counters"

// counter is one document per entity collection in the counters collection.
type counter struct {
	ID  string `bson:"_id"`
	Seq int64  `bson:"seq"`
}

// table implements repository.Table over a single collection. Documents use
// the integer entity id as _id.
type table[T any, P repository.Record[T]] struct {
	collection *mongo.Collection
	counters   *mongo.Collection
	now        func() time.Time
}

func newTable[T any, P repository.Record[T]](db *mongo.Database, name string, now func() time.Time) *table[T, P] {
	return &table[T, P]{
		collection: db.Collection(name),
		counters:   db.Collection(counterCollectionName),
		now:        now,
	}
}

// nextID atomically increments the collection's counter. The counter only
// moves forward, so ids are never handed out twice even after deletes.
func (r *table[T, P]) nextID(ctx context.Context) (int64, error) {
	filter := bson.M{"_id": r.collection.Name()}
	update := bson.M{"$inc": bson.M{"seq": int64(1)}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var c counter
	if err := r.counters.FindOneAndUpdate(ctx, filter, update, opts).Decode(&c); err != nil {
		return 0, fmt.Errorf("allocate %s id: %w", r.collection.Name(), err)
	}
	return c.Seq, nil
}

// Insert allocates an id, applies defaults and inserts the document.
func (r *table[T, P]) Insert(ctx context.Context, record *T) error {
	id, err := r.nextID(ctx)
	if err != nil {
		return err
	}
	P(record).SetID(id)
	if d, ok := any(record).(repository.Defaulter); ok {
		d.ApplyDefaults(r.now())
	}

	if _, err := r.collection.InsertOne(ctx, record); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

// Get retrieves a document by its id.
func (r *table[T, P]) Get(ctx context.Context, id int64) (*T, error) {
	var row T
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&row)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

// Update reads the document, applies mutate and replaces it. Concurrent
// writers to the same row resolve last-write-wins.
func (r *table[T, P]) Update(ctx context.Context, id int64, mutate func(*T)) (*T, error) {
	row, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	mutate(row)
	P(row).SetID(id)

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": id}, row)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, repository.ErrDuplicate
		}
		return nil, err
	}
	if result.MatchedCount == 0 {
		return nil, repository.ErrNotFound
	}
	return row, nil
}

// Delete removes a document and reports whether one existed.
func (r *table[T, P]) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return result.DeletedCount > 0, nil
}

// Scan walks the whole collection in id order and keeps the accepted rows.
func (r *table[T, P]) Scan(ctx context.Context, keep func(*T) bool) ([]T, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.D{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := []T{}
	for cursor.Next(ctx) {
		var row T
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
		if keep == nil || keep(&row) {
			out = append(out, row)
		}
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
