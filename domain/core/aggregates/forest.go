package aggregates

import (
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"nodular/domain/core/valueobjects"
)

// wouldCreateCycle reports whether adding the candidate parent edge to
// the current conversation edges would make the tree unorderable. The
// caller has already rejected self-loops, so every edge here connects
// two distinct bubbles.
func wouldCreateCycle(edges []Edge, candidateSource, candidateTarget valueobjects.BubbleID) bool {
	g := simple.NewDirectedGraph()

	ids := make(map[string]int64)
	node := func(id valueobjects.BubbleID) int64 {
		n, ok := ids[id.String()]
		if !ok {
			n = int64(len(ids))
			ids[id.String()] = n
			g.AddNode(simple.Node(n))
		}
		return n
	}

	for _, e := range edges {
		src, tgt := node(e.SourceID), node(e.TargetID)
		if src != tgt {
			g.SetEdge(simple.Edge{F: simple.Node(src), T: simple.Node(tgt)})
		}
	}
	src, tgt := node(candidateSource), node(candidateTarget)
	if src == tgt {
		return true
	}
	g.SetEdge(simple.Edge{F: simple.Node(src), T: simple.Node(tgt)})

	_, err := topo.Sort(g)
	return err != nil
}
