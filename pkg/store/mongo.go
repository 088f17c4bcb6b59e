package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/zonecut/pkg/cache"
	"github.com/matzehuels/zonecut/pkg/errors"
)

// Mongo defaults.
const (
	DefaultDatabase    = "zonecut"
	CollectionAnalyses = "analyses"
)

// MongoConfig configures [NewMongoStore].
type MongoConfig struct {
	URI      string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

// collection is the subset of *mongo.Collection the store uses.
type collection interface {
	ReplaceOne(ctx context.Context, filter any, replacement any, opts ...*options.ReplaceOptions) (*mongo.UpdateResult, error)
	FindOne(ctx context.Context, filter any, opts ...*options.FindOneOptions) *mongo.SingleResult
	Find(ctx context.Context, filter any, opts ...*options.FindOptions) (*mongo.Cursor, error)
}

// MongoStore persists records in a MongoDB collection, one document per
// run with the run ID as _id.
type MongoStore struct {
	client *mongo.Client
	coll   collection
}

// NewMongoStore connects, pings the server and ensures the page_id index.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = DefaultDatabase
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "ping mongodb")
	}

	coll := client.Database(cfg.Database).Collection(CollectionAnalyses)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "page_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("create index: %w", err)
	}
	return &MongoStore{client: client, coll: coll}, nil
}

// Save upserts rec by run ID.
func (s *MongoStore) Save(ctx context.Context, rec *Record) error {
	if err := errors.ValidateRunID(rec.RunID); err != nil {
		return err
	}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": rec.RunID}, rec, options.Replace().SetUpsert(true))
	if err != nil {
		return classify(err, "save analysis %s", rec.RunID)
	}
	return nil
}

// Get loads a record by run ID.
func (s *MongoStore) Get(ctx context.Context, runID string) (*Record, error) {
	var rec Record
	err := s.coll.FindOne(ctx, bson.M{"_id": runID}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, errors.New(errors.ErrCodeNotFound, "analysis %s not found", runID)
	}
	if err != nil {
		return nil, classify(err, "load analysis %s", runID)
	}
	return &rec, nil
}

// ListByPage returns the records of a page, newest first.
func (s *MongoStore) ListByPage(ctx context.Context, pageID string) ([]*Record, error) {
	cur, err := s.coll.Find(ctx, bson.M{"page_id": pageID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, classify(err, "list analyses of %s", pageID)
	}
	var recs []*Record
	if err := cur.All(ctx, &recs); err != nil {
		return nil, classify(err, "decode analyses of %s", pageID)
	}
	return recs, nil
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

// classify wraps a driver error as NETWORK and marks network failures and
// timeouts as retryable.
func classify(err error, format string, args ...any) error {
	wrapped := errors.Wrap(errors.ErrCodeNetwork, err, format, args...)
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return cache.Retryable(wrapped)
	}
	return wrapped
}

var _ Store = (*MongoStore)(nil)
