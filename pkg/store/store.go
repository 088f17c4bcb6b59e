// Package store persists analysis runs.
//
// A [Record] is written once per analysis and addressed by its run ID.
// Backends:
//   - [NullStore]: persistence disabled (CLI default)
//   - [MemoryStore]: process-local, for tests and single-instance servers
//   - [MongoStore]: MongoDB collection "analyses"
package store

import (
	"context"
	"time"

	"github.com/matzehuels/zonecut/pkg/article"
	"github.com/matzehuels/zonecut/pkg/zone"
)

// Stats summarizes one analysis.
type Stats struct {
	Zones       int     `json:"zones" bson:"zones"`
	Dropped     int     `json:"dropped" bson:"dropped"`
	Edges       int     `json:"edges" bson:"edges"`
	Articles    int     `json:"articles" bson:"articles"`
	Unclustered int     `json:"unclustered" bson:"unclustered"`
	OrderMS     float64 `json:"order_ms" bson:"order_ms"`
	ClusterMS   float64 `json:"cluster_ms" bson:"cluster_ms"`
}

// Record is a persisted analysis run.
type Record struct {
	RunID       string            `json:"run_id" bson:"_id"`
	PageID      string            `json:"page_id" bson:"page_id"`
	PageHash    string            `json:"page_hash" bson:"page_hash"`
	CreatedAt   time.Time         `json:"created_at" bson:"created_at"`
	Order       []string          `json:"order" bson:"order"`
	Articles    []article.Article `json:"articles" bson:"articles"`
	Unclustered []string          `json:"unclustered" bson:"unclustered"`
	Edges       []article.Edge    `json:"edges,omitempty" bson:"edges,omitempty"`
	Dropped     []zone.Dropped    `json:"dropped,omitempty" bson:"dropped,omitempty"`
	Stats       Stats             `json:"stats" bson:"stats"`
}

// Store persists records.
type Store interface {
	// Save inserts or replaces the record with the same run ID.
	Save(ctx context.Context, rec *Record) error

	// Get returns the record for runID or a NOT_FOUND error.
	Get(ctx context.Context, runID string) (*Record, error)

	// ListByPage returns the records of a page, newest first.
	ListByPage(ctx context.Context, pageID string) ([]*Record, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}
