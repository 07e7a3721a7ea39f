package export

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/matzehuels/pathlinker/pkg/ksp"
	"github.com/matzehuels/pathlinker/pkg/network"
	"github.com/matzehuels/pathlinker/pkg/pipeline"
)

// Document is the JSON export of a result.
type Document struct {
	RunID     string           `json:"run_id"`
	Status    ksp.Status       `json:"status"`
	K         int              `json:"k"`
	CacheHit  bool             `json:"cache_hit"`
	Paths     []ksp.RankedPath `json:"paths"`
	EdgeRanks []EdgeRank       `json:"edge_ranks"`
}

// EdgeRank names one network edge and the lowest rank of a path using it.
type EdgeRank struct {
	Index int    `json:"index"`
	ID    string `json:"id,omitempty"`
	From  string `json:"from,omitempty"`
	To    string `json:"to,omitempty"`
	Rank  int    `json:"rank"`
}

// NewDocument builds the export document for res. Edge ranks are sorted by
// network edge index. When net is nil the entries carry only index and rank.
func NewDocument(res *pipeline.Result, net *network.Network) Document {
	doc := Document{
		RunID:     res.RunID,
		Status:    res.Status,
		K:         res.K,
		CacheHit:  res.CacheHit,
		Paths:     res.Paths,
		EdgeRanks: make([]EdgeRank, 0, len(res.EdgeRanks)),
	}
	if doc.Paths == nil {
		doc.Paths = []ksp.RankedPath{}
	}

	indices := make([]int, 0, len(res.EdgeRanks))
	for idx := range res.EdgeRanks {
		indices = append(indices, idx)
	}
	slices.Sort(indices)

	for _, idx := range indices {
		er := EdgeRank{Index: idx, Rank: res.EdgeRanks[idx]}
		if net != nil && idx >= 0 && idx < len(net.Edges) {
			e := net.Edges[idx]
			er.ID, er.From, er.To = e.ID, e.From, e.To
		}
		doc.EdgeRanks = append(doc.EdgeRanks, er)
	}
	return doc
}

// WriteJSON writes the indented export document for res.
func WriteJSON(w io.Writer, res *pipeline.Result, net *network.Network) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewDocument(res, net)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
