package graph

import (
	"testing"

	"github.com/matzehuels/pathlinker/pkg/network"
)

func TestMask(t *testing.T) {
	n := &network.Network{}
	n.AddEdge("A", "B", network.Weighted(1), true).
		AddEdge("A", "B", network.Weighted(2), true).
		AddEdge("B", "C", network.Weighted(1), true)
	g, _, err := Build(n, []string{"A"}, []string{"C"}, BuildOptions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	a, _ := g.Index("A")
	b, _ := g.Index("B")

	m := NewMask(g)
	m.ExcludeNode(b)
	m.ExcludeArc(a, b)

	if !m.NodeExcluded(b) || m.NodeExcluded(a) {
		t.Error("only B should be excluded")
	}
	if !m.EdgeExcluded(0) || !m.EdgeExcluded(1) {
		t.Error("both parallel A->B edges should be excluded")
	}
	if m.EdgeExcluded(2) {
		t.Error("B->C should not be excluded")
	}

	m.Reset()
	if m.NodeExcluded(b) || m.EdgeExcluded(0) || m.EdgeExcluded(1) {
		t.Error("Reset should clear every exclusion")
	}
}

func TestMaskGenerationWrap(t *testing.T) {
	n := &network.Network{}
	n.AddEdge("A", "B", nil, true)
	g, _, err := Build(n, []string{"A"}, []string{"B"}, BuildOptions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	m := NewMask(g)
	m.gen = ^uint32(0)
	m.ExcludeNode(0)
	m.Reset()
	if m.gen != 1 {
		t.Errorf("gen = %d, want 1 after wrap", m.gen)
	}
	if m.NodeExcluded(0) {
		t.Error("stale stamp survived generation wrap")
	}
}
