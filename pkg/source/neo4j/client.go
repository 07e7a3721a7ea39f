// Package neo4j loads interaction networks from a Neo4j database.
//
// A [Loader] runs one read query and turns each returned record into a
// network edge. The query must return the columns "from" and "to"; the
// columns "weight" and "directed" are optional. Edges without a "directed"
// value are directed.
//
//	client, err := neo4j.NewClient(ctx, neo4j.Options{URI: "neo4j://localhost:7687"})
//	if err != nil {
//	    return err
//	}
//	defer client.Close(ctx)
//	net, err := neo4j.NewLoader(client, "").Load(ctx, nil)
//
// [MemoryClient] serves canned records for tests.
package neo4j

import (
	"context"

	"github.com/matzehuels/pathlinker/pkg/errors"
)

// Client is the part of a graph database session the loader needs.
type Client interface {
	ExecuteRead(ctx context.Context, cypher string, params map[string]any) (Result, error)
	VerifyConnectivity(ctx context.Context) error
	Close(ctx context.Context) error
}

// Result is a fully consumed query response.
type Result struct {
	Records []Record
}

// Record maps result column names to values.
type Record map[string]any

// Options configures a driver-backed client.
type Options struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
}

// ErrMissingURI is returned when no database URI is configured.
var ErrMissingURI = errors.New(errors.ErrCodeInvalidInput, "neo4j URI is required")
