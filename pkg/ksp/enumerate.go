package ksp

import (
	"container/heap"
	"context"
	"encoding/binary"
	stderrors "errors"
	"slices"

	"github.com/matzehuels/pathlinker/pkg/errors"
	"github.com/matzehuels/pathlinker/pkg/graph"
)

// Status tells why enumeration stopped.
type Status string

const (
	StatusComplete  Status = "complete"
	StatusExhausted Status = "exhausted"
	StatusCancelled Status = "cancelled"
	StatusTimedOut  Status = "timed_out"
)

// Partial reports whether the status can leave fewer than K paths.
func (s Status) Partial() bool { return s != StatusComplete }

// Options controls enumeration.
type Options struct {
	// K is the number of paths to emit. It must be positive.
	K int
	// AllowTrivialPaths emits zero-hop paths at nodes that are both a source
	// and a target.
	AllowTrivialPaths bool
	// OnPath, if set, is called after each emitted path with its 1-based rank.
	OnPath func(rank int, p Path)
}

// Enumeration is the outcome of Enumerate.
type Enumeration struct {
	Paths  []Path // emitted paths in rank order
	Status Status

	Accepted    int // accepted paths, including hidden trivial ones
	Candidates  int // candidates entered into the frontier
	OracleCalls int
}

// Enumerate finds up to opts.K shortest simple paths from the virtual source
// to the virtual target of g using Yen's deviation search.
//
// The context is checked once per accepted path. When it is done, the paths
// emitted so far are returned with StatusCancelled or StatusTimedOut and a
// nil error. At least one path is always emitted: when trivial paths are
// hidden and nothing else connects the sources to the targets, Enumerate
// fails with PATH_NOT_FOUND.
func Enumerate(ctx context.Context, g *graph.Graph, opts Options) (*Enumeration, error) {
	if opts.K <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "k must be positive, got %d", opts.K)
	}
	oracle, err := NewOracle(g)
	if err != nil {
		return nil, err
	}

	s := &search{
		g:      g,
		oracle: oracle,
		mask:   graph.NewMask(g),
		seen:   make(map[string]struct{}),
		opts:   opts,
		out:    &Enumeration{},
	}

	first, ok := s.call(g.Source(), g.Target(), nil)
	if !ok {
		return nil, errors.New(errors.ErrCodePathNotFound, "no path connects the sources to the targets")
	}
	s.seen[seqKey(first.Nodes)] = struct{}{}
	s.accept(first)

	for len(s.out.Paths) < opts.K {
		// The first emitted path is always returned, even past hidden
		// trivial paths.
		if err := ctx.Err(); err != nil && len(s.out.Paths) > 0 {
			s.out.Status = StatusCancelled
			if stderrors.Is(err, context.DeadlineExceeded) {
				s.out.Status = StatusTimedOut
			}
			return s.out, nil
		}

		s.deviate(s.accepted[len(s.accepted)-1])
		if s.frontier.Len() == 0 {
			if len(s.out.Paths) == 0 {
				return nil, errors.New(errors.ErrCodePathNotFound, "every path from the sources to the targets is trivial")
			}
			s.out.Status = StatusExhausted
			return s.out, nil
		}
		s.accept(heap.Pop(&s.frontier).(Path))
	}
	s.out.Status = StatusComplete
	return s.out, nil
}

type search struct {
	g      *graph.Graph
	oracle *Oracle
	mask   *graph.Mask
	opts   Options

	accepted []Path
	frontier candidateHeap
	seen     map[string]struct{}
	out      *Enumeration
}

func (s *search) call(from, to int, mask *graph.Mask) (Path, bool) {
	s.out.OracleCalls++
	return s.oracle.ShortestPath(from, to, mask)
}

func (s *search) accept(p Path) {
	s.accepted = append(s.accepted, p)
	s.out.Accepted++
	if isTrivial(p) && !s.opts.AllowTrivialPaths {
		return
	}
	s.out.Paths = append(s.out.Paths, p)
	if s.opts.OnPath != nil {
		s.opts.OnPath(len(s.out.Paths), p)
	}
}

// deviate pushes every new candidate that branches off last.
func (s *search) deviate(last Path) {
	target := s.g.Target()
	for i := 0; i < len(last.Nodes)-1; i++ {
		spur := last.Nodes[i]
		root := last.Nodes[:i+1]

		s.mask.Reset()
		for _, p := range s.accepted {
			if len(p.Nodes) > i+1 && slices.Equal(p.Nodes[:i+1], root) {
				s.mask.ExcludeArc(spur, p.Nodes[i+1])
			}
		}
		for _, v := range root[:i] {
			s.mask.ExcludeNode(v)
		}

		tail, ok := s.call(spur, target, s.mask)
		if !ok {
			continue
		}

		nodes := make([]int, 0, i+len(tail.Nodes))
		nodes = append(nodes, root[:i]...)
		nodes = append(nodes, tail.Nodes...)
		key := seqKey(nodes)
		if _, dup := s.seen[key]; dup {
			continue
		}
		s.seen[key] = struct{}{}

		edges := make([]int, 0, i+len(tail.Edges))
		edges = append(edges, last.Edges[:i]...)
		edges = append(edges, tail.Edges...)
		heap.Push(&s.frontier, Path{Nodes: nodes, Edges: edges, Weight: sumWeights(s.g, edges)})
		s.out.Candidates++
	}
}

// isTrivial reports whether p has no real edge: virtual source, one node,
// virtual target.
func isTrivial(p Path) bool { return len(p.Nodes) == 3 }

func seqKey(nodes []int) string {
	buf := make([]byte, 0, 4*len(nodes))
	for _, v := range nodes {
		buf = binary.AppendUvarint(buf, uint64(v))
	}
	return string(buf)
}

// =============================================================================
// Candidate Frontier
// =============================================================================

// candidateHeap orders candidates by weight, then by node-index sequence.
type candidateHeap []Path

func (h candidateHeap) Len() int { return len(h) }

func (h candidateHeap) Less(i, j int) bool {
	if h[i].Weight != h[j].Weight {
		return h[i].Weight < h[j].Weight
	}
	return slices.Compare(h[i].Nodes, h[j].Nodes) < 0
}

func (h candidateHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *candidateHeap) Push(x any) { *h = append(*h, x.(Path)) }

func (h *candidateHeap) Pop() any {
	old := *h
	n := len(old)
	p := old[n-1]
	old[n-1] = Path{}
	*h = old[:n-1]
	return p
}
