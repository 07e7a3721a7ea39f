package neo4j

import (
	"context"
	"fmt"
	"testing"

	"github.com/matzehuels/pathlinker/pkg/errors"
)

func TestLoaderLoad(t *testing.T) {
	client := NewMemoryClient()
	client.PushResult(Result{Records: []Record{
		{"from": "EGFR", "to": "GRB2", "weight": 0.9, "id": "r1"},
		{"from": "GRB2", "to": "SOS1", "weight": int64(1)},
		{"from": "SOS1", "to": "EGFR", "directed": false},
	}})

	net, err := NewLoader(client, "").Load(context.Background(), map[string]any{"min": 0.5})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(net.Edges) != 3 {
		t.Fatalf("got %d edges, want 3", len(net.Edges))
	}

	e0 := net.Edges[0]
	if e0.From != "EGFR" || e0.To != "GRB2" || e0.ID != "r1" || !e0.Directed || e0.Weight == nil || *e0.Weight != 0.9 {
		t.Errorf("edge 0 = %+v", e0)
	}
	if w := net.Edges[1].Weight; w == nil || *w != 1 {
		t.Errorf("edge 1 weight = %v, want 1", w)
	}
	if e2 := net.Edges[2]; e2.Directed || e2.Weight != nil {
		t.Errorf("edge 2 = %+v, want undirected without weight", e2)
	}

	calls := client.Calls()
	if len(calls) != 1 || calls[0].Query != DefaultQuery || calls[0].Params["min"] != 0.5 {
		t.Errorf("calls = %+v", calls)
	}
}

func TestLoaderCustomQuery(t *testing.T) {
	client := NewMemoryClient()
	client.PushResult(Result{Records: []Record{{"from": int64(1), "to": int64(2)}}})

	l := NewLoader(client, "MATCH (a)-->(b) RETURN a.id AS from, b.id AS to")
	net, err := l.Load(context.Background(), nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := net.Edges[0]; got.From != "1" || got.To != "2" {
		t.Errorf("edge = %+v, want 1->2", got)
	}
	if client.Calls()[0].Query != l.Query() {
		t.Errorf("ran %q, want custom query", client.Calls()[0].Query)
	}
}

func TestLoaderRejectsBadRecords(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
	}{
		{"missing from", Record{"to": "B"}},
		{"missing to", Record{"from": "A"}},
		{"float name", Record{"from": 1.5, "to": "B"}},
		{"string weight", Record{"from": "A", "to": "B", "weight": "high"}},
		{"string directed", Record{"from": "A", "to": "B", "directed": "yes"}},
		{"empty name", Record{"from": "", "to": "B"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewMemoryClient()
			client.PushResult(Result{Records: []Record{tt.rec}})
			_, err := NewLoader(client, "").Load(context.Background(), nil)
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("Load error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestLoaderQueryError(t *testing.T) {
	boom := fmt.Errorf("connection reset")
	client := NewMemoryClient().WithError(boom)
	if _, err := NewLoader(client, "").Load(context.Background(), nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestNewClientRequiresURI(t *testing.T) {
	if _, err := NewClient(context.Background(), Options{}); err != ErrMissingURI {
		t.Errorf("NewClient error = %v, want ErrMissingURI", err)
	}
}
