package neo4j

import (
	"context"
	"fmt"
	"strconv"

	"github.com/matzehuels/pathlinker/pkg/errors"
	"github.com/matzehuels/pathlinker/pkg/network"
)

// DefaultQuery returns every relationship between two nodes with a name
// property. A "weight" property on the relationship becomes the edge weight.
const DefaultQuery = `MATCH (a)-[r]->(b)
WHERE a.name IS NOT NULL AND b.name IS NOT NULL
RETURN a.name AS from, b.name AS to, r.weight AS weight, elementId(r) AS id`

// Loader reads a network with a Cypher query.
type Loader struct {
	client Client
	query  string
}

// NewLoader creates a loader. An empty query selects [DefaultQuery].
func NewLoader(client Client, query string) *Loader {
	if query == "" {
		query = DefaultQuery
	}
	return &Loader{client: client, query: query}
}

// Query returns the Cypher statement the loader runs.
func (l *Loader) Query() string { return l.query }

// Load runs the query with params and converts the records into a validated
// network. Records are kept in result order, so edge indices follow the
// query's ORDER BY when it has one.
func (l *Loader) Load(ctx context.Context, params map[string]any) (*network.Network, error) {
	res, err := l.client.ExecuteRead(ctx, l.query, params)
	if err != nil {
		return nil, fmt.Errorf("neo4j query: %w", err)
	}

	net := &network.Network{Edges: make([]network.Edge, 0, len(res.Records))}
	for i, rec := range res.Records {
		e, err := toEdge(rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		net.Edges = append(net.Edges, e)
	}
	if err := net.Validate(); err != nil {
		return nil, err
	}
	return net, nil
}

func toEdge(rec Record) (network.Edge, error) {
	from, err := nodeName(rec, "from")
	if err != nil {
		return network.Edge{}, err
	}
	to, err := nodeName(rec, "to")
	if err != nil {
		return network.Edge{}, err
	}
	e := network.Edge{From: from, To: to, Directed: true}

	switch v := rec["weight"].(type) {
	case nil:
	case float64:
		e.Weight = network.Weighted(v)
	case int64:
		e.Weight = network.Weighted(float64(v))
	default:
		return network.Edge{}, errors.New(errors.ErrCodeInvalidInput, "weight has type %T, want number", v)
	}

	switch v := rec["directed"].(type) {
	case nil:
	case bool:
		e.Directed = v
	default:
		return network.Edge{}, errors.New(errors.ErrCodeInvalidInput, "directed has type %T, want boolean", v)
	}

	if id, ok := rec["id"].(string); ok {
		e.ID = id
	}
	return e, nil
}

// nodeName accepts string and integer node names.
func nodeName(rec Record, col string) (string, error) {
	switch v := rec[col].(type) {
	case string:
		return v, nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case nil:
		return "", errors.New(errors.ErrCodeInvalidInput, "missing %q column", col)
	default:
		return "", errors.New(errors.ErrCodeInvalidInput, "%s has type %T, want string", col, v)
	}
}
