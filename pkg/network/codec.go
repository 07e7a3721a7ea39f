package network

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/matzehuels/pathlinker/pkg/errors"
)

// =============================================================================
// JSON
// =============================================================================

// ReadJSON decodes a network from r and validates it.
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Network, error) {
	var n Network
	if err := json.NewDecoder(r).Decode(&n); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode network")
	}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return &n, nil
}

// WriteJSON encodes n as indented JSON.
func WriteJSON(n *Network, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(n); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ImportJSON reads a JSON network file.
func ImportJSON(path string) (*Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// ExportJSON writes n to a JSON file at path.
func ExportJSON(n *Network, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(n, f)
}

// =============================================================================
// Edge List
// =============================================================================

// EdgeListOptions controls how an edge list is interpreted.
type EdgeListOptions struct {
	// Undirected marks every edge as undirected.
	Undirected bool
}

// ReadEdgeList parses the whitespace separated "tail head [weight]" format.
// Lines with a missing weight produce unweighted edges. Parse errors report
// the 1-based line number.
func ReadEdgeList(r io.Reader, opts EdgeListOptions) (*Network, error) {
	n := &Network{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) < 2 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "line %d: want tail and head, got %q", line, text)
		}
		e := Edge{From: fields[0], To: fields[1], Directed: !opts.Undirected}
		if len(fields) >= 3 {
			w, err := strconv.ParseFloat(fields[2], 64)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "line %d: bad weight %q", line, fields[2])
			}
			e.Weight = &w
		}
		n.Edges = append(n.Edges, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read edge list: %w", err)
	}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return n, nil
}

// ImportEdgeList reads an edge-list file.
func ImportEdgeList(path string, opts EdgeListOptions) (*Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadEdgeList(f, opts)
}

// Import reads a network file, choosing the format by extension: ".json" is
// decoded as JSON, anything else as an edge list.
func Import(path string, opts EdgeListOptions) (*Network, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		n, err := ImportJSON(path)
		if err != nil {
			return nil, err
		}
		if opts.Undirected {
			for i := range n.Edges {
				n.Edges[i].Directed = false
			}
		}
		return n, nil
	}
	return ImportEdgeList(path, opts)
}
