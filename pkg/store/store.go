// Package store keeps a history of routing runs.
//
// A [Record] holds the pins and router configuration of one run together
// with the routed graph and its statistics, so a run can be listed, shown
// again or re-rendered without routing it a second time.
//
// Two backends are provided:
//   - [FileStore]: one JSON file per record, used by the CLI
//   - [MongoStore]: a MongoDB collection, used by the HTTP API
//
// Records are identified by random UUIDs.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/chanroute/pkg/channel"
	errs "github.com/matzehuels/chanroute/pkg/errors"
	"github.com/matzehuels/chanroute/pkg/graph"
)

// DefaultListLimit caps List when no limit is given.
const DefaultListLimit = 20

// Record is one stored routing run.
type Record struct {
	ID        string         `json:"id" bson:"_id"`
	CreatedAt time.Time      `json:"created_at" bson:"created_at"`
	Pins      channel.Pins   `json:"pins" bson:"pins"`
	Config    channel.Config `json:"config" bson:"config"`
	Graph     graph.Graph    `json:"graph" bson:"graph"`
	Stats     channel.Stats  `json:"stats" bson:"stats"`
}

// NewRecord creates a record with a fresh id.
func NewRecord(pins channel.Pins, cfg channel.Config, g graph.Graph, stats channel.Stats) *Record {
	return &Record{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Pins:      pins.Clone(),
		Config:    cfg,
		Graph:     g,
		Stats:     stats,
	}
}

// Store is the interface for record storage backends.
type Store interface {
	// Save stores a record, replacing any record with the same id.
	Save(ctx context.Context, rec *Record) error

	// Get retrieves a record by id. A missing record is a NOT_FOUND error.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns up to limit records, newest first. A limit of zero or
	// less means DefaultListLimit.
	List(ctx context.Context, limit int) ([]Record, error)

	// Delete removes a record. A missing record is a NOT_FOUND error.
	Delete(ctx context.Context, id string) error

	Close() error
}

func notFound(id string) error {
	return errs.New(errs.ErrCodeNotFound, "no routing record %s", id)
}

func listLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
