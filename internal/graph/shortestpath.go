package graph

import (
	"fmt"
	"math"
)

// computeShortestPaths runs Floyd-Warshall over all nodes and edges.
func (g *Graph) computeShortestPaths() {
	n := len(g.nodes)
	index := make(map[NodeID]int, n)
	for i, node := range g.nodes {
		index[node.ID] = i
	}

	dist := make([][]float64, n)
	next := make([][]int, n)
	for i := range n {
		dist[i] = make([]float64, n)
		next[i] = make([]int, n)
		for j := range n {
			dist[i][j] = math.Inf(1)
			next[i][j] = -1
		}
		dist[i][i] = 0
		next[i][i] = i
	}
	for _, e := range g.edges {
		u, v := index[e.U], index[e.V]
		if e.Length < dist[u][v] {
			dist[u][v] = e.Length
			next[u][v] = v
		}
	}
	for k := range n {
		for i := range n {
			if math.IsInf(dist[i][k], 1) {
				continue
			}
			for j := range n {
				if d := dist[i][k] + dist[k][j]; d < dist[i][j] {
					dist[i][j] = d
					next[i][j] = next[i][k]
				}
			}
		}
	}

	g.dist = make(map[NodeID]map[NodeID]float64, n)
	g.nextNode = make(map[NodeID]map[NodeID]NodeID, n)
	for i, u := range g.nodes {
		g.dist[u.ID] = make(map[NodeID]float64, n)
		g.nextNode[u.ID] = make(map[NodeID]NodeID, n)
		for j, v := range g.nodes {
			g.dist[u.ID][v.ID] = dist[i][j]
			if next[i][j] >= 0 {
				g.nextNode[u.ID][v.ID] = g.nodes[next[i][j]].ID
			}
		}
	}
	g.pathCache = make(map[PathID]PathInfo)
}

func (g *Graph) reconstructPath(u, v NodeID) []NodeID {
	route := []NodeID{u}
	for u != v {
		n, ok := g.nextNode[u][v]
		if !ok {
			return nil
		}
		u = n
		route = append(route, u)
	}
	return route
}

// GetShortestPath returns the shortest path between start and end, using a cache.
// Returns an error if either node is unknown or no path exists.
func (g *Graph) GetShortestPath(start, end NodeID) (PathInfo, error) {
	for _, id := range []NodeID{start, end} {
		if _, ok := g.nodeMap[id]; !ok {
			return PathInfo{}, fmt.Errorf("node %q not found", id)
		}
	}
	if start == end {
		return PathInfo{ID: pathKey(start, end), Route: []NodeID{start}}, nil
	}
	if g.dist == nil {
		g.computeShortestPaths()
	}
	key := pathKey(start, end)
	if p, ok := g.pathCache[key]; ok {
		return p, nil
	}
	d := g.dist[start][end]
	if math.IsInf(d, 1) {
		return PathInfo{}, fmt.Errorf("no path from %q to %q", start, end)
	}
	p := PathInfo{ID: key, Route: g.reconstructPath(start, end), Length: d}
	g.pathCache[key] = p
	return p, nil
}
