// Package graph provides a small directed waypoint graph with cached all-pairs
// shortest paths. The router uses it to find detours around obstacles on the field.
package graph

import (
	"fmt"
	"math"
)

// NodeID, EdgeID, PathID are string aliases used as identifiers.
type (
	NodeID = string
	EdgeID = string
	PathID = string
)

// Coordinate is a ground-plane position in uu.
type Coordinate struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DistanceTo is the straight-line distance between two coordinates.
func (c Coordinate) DistanceTo(o Coordinate) float64 { return math.Hypot(o.X-c.X, o.Y-c.Y) }

// Node is a waypoint.
type Node struct {
	ID  NodeID     `json:"node_id"`
	Loc Coordinate `json:"loc"`
}

// Edge is a directed connection between two nodes with a length in uu.
type Edge struct {
	ID     EdgeID  `json:"edge_id"`
	U      NodeID  `json:"u"`
	V      NodeID  `json:"v"`
	Length float64 `json:"length"`
}

// GraphData is the serialisable input representation of a graph.
type GraphData struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// PathInfo holds the result of a shortest-path computation.
type PathInfo struct {
	ID     PathID
	Route  []NodeID // ordered node IDs from start to end
	Length float64  // total path length in uu
}

// Graph is a directed weighted graph with cached shortest-path computation.
type Graph struct {
	nodes       []Node
	edges       []Edge
	nodeMap     map[NodeID]Node
	edgeMap     map[EdgeID]Edge
	edgeByNodes map[NodeID]map[NodeID]Edge // u → v → edge
	// Floyd-Warshall tables; nil until first needed.
	dist     map[NodeID]map[NodeID]float64
	nextNode map[NodeID]map[NodeID]NodeID
	// Path cache; cleared whenever the graph topology changes.
	pathCache map[PathID]PathInfo
}

// NewGraph builds a Graph from GraphData, returning an error if any node or edge
// references are invalid.
func NewGraph(data GraphData) (*Graph, error) {
	g := &Graph{
		nodeMap:     make(map[NodeID]Node),
		edgeMap:     make(map[EdgeID]Edge),
		edgeByNodes: make(map[NodeID]map[NodeID]Edge),
		pathCache:   make(map[PathID]PathInfo),
	}
	for _, n := range data.Nodes {
		if err := g.AddNode(n); err != nil {
			return nil, err
		}
	}
	for _, e := range data.Edges {
		if err := g.AddEdge(e); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// AddNode adds a node to the graph. Returns an error if the node ID already exists.
func (g *Graph) AddNode(n Node) error {
	if _, exists := g.nodeMap[n.ID]; exists {
		return fmt.Errorf("node %q already exists", n.ID)
	}
	g.nodes = append(g.nodes, n)
	g.nodeMap[n.ID] = n
	g.dist = nil
	return nil
}

// AddEdge adds a directed edge to the graph. Returns an error if the edge ID already
// exists or either endpoint node is missing.
func (g *Graph) AddEdge(e Edge) error {
	if _, exists := g.edgeMap[e.ID]; exists {
		return fmt.Errorf("edge %q already exists", e.ID)
	}
	if _, ok := g.nodeMap[e.U]; !ok {
		return fmt.Errorf("edge %q: source node %q not found", e.ID, e.U)
	}
	if _, ok := g.nodeMap[e.V]; !ok {
		return fmt.Errorf("edge %q: target node %q not found", e.ID, e.V)
	}
	g.edges = append(g.edges, e)
	g.edgeMap[e.ID] = e
	if g.edgeByNodes[e.U] == nil {
		g.edgeByNodes[e.U] = make(map[NodeID]Edge)
	}
	g.edgeByNodes[e.U][e.V] = e
	g.dist = nil
	return nil
}

// AddLink connects u and v in both directions, weighted by their straight-line
// distance.
func (g *Graph) AddLink(u, v NodeID) error {
	nu, ok := g.nodeMap[u]
	if !ok {
		return fmt.Errorf("link %s-%s: node %q not found", u, v, u)
	}
	nv, ok := g.nodeMap[v]
	if !ok {
		return fmt.Errorf("link %s-%s: node %q not found", u, v, v)
	}
	length := nu.Loc.DistanceTo(nv.Loc)
	if err := g.AddEdge(Edge{ID: pathKey(u, v), U: u, V: v, Length: length}); err != nil {
		return err
	}
	return g.AddEdge(Edge{ID: pathKey(v, u), U: v, V: u, Length: length})
}

// pathKey returns a canonical string key for a start→end pair.
func pathKey(start, end NodeID) PathID { return start + "->" + end }

// GetNode looks up a node by its ID.
func (g *Graph) GetNode(id NodeID) (Node, error) {
	n, ok := g.nodeMap[id]
	if !ok {
		return Node{}, fmt.Errorf("node %q not found", id)
	}
	return n, nil
}

// GetEdge returns the directed edge from u to v.
func (g *Graph) GetEdge(u, v NodeID) (Edge, error) {
	if m, ok := g.edgeByNodes[u]; ok {
		if e, ok := m[v]; ok {
			return e, nil
		}
	}
	return Edge{}, fmt.Errorf("no edge from %q to %q", u, v)
}
