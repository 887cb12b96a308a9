package routing

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/cxd309/pilot-engine/internal/geom"
	"github.com/cxd309/pilot-engine/internal/graph"
	"github.com/cxd309/pilot-engine/internal/world"
)

const (
	// clearance kept from the posts when rounding them
	postMargin = 125.0
	// the goal line as far as driving is concerned
	brinkInset = 50.0
)

// AvoidGoalWall returns a planner that takes the car around the goal posts when
// driving straight from start to target would plough into the goal wall. It
// returns nil when the straight line is clear or no detour exists. The detour
// ends at the last waypoint; the caller plans the rest of the way.
func AvoidGoalWall(start world.CarState, target mgl64.Vec2) RoutePlanner {
	from := start.Loc2D()
	side := geom.Sign(from.Y())
	brink := world.FieldMaxY * side
	if math.Signbit(brink-from.Y()) == math.Signbit(brink-target.Y()) {
		return nil
	}
	if math.Abs(from.X()) >= world.GoalpostX+200 {
		// outside the field; earlier routing was sloppy, nothing sensible to do
		return nil
	}
	if !crossesGoalWall(from, target, side, world.GoalpostX-postMargin) {
		return nil
	}

	waypoints, ok := goalWallWaypoints(from, target, side)
	if !ok || len(waypoints) == 0 {
		return nil
	}
	var legs []RoutePlanner
	for _, wp := range waypoints {
		// Turning is harder at speed and the turn around the post matters, so no boost.
		legs = append(legs, newBareTurnPlanner(wp, nil), StraightTo(wp, false))
	}
	return Chain(legs...)
}

// crossesGoalWall reports whether the segment a→b crosses the goal line on the
// given side at |x| ≥ limit.
func crossesGoalWall(a, b mgl64.Vec2, side, limit float64) bool {
	brink := (world.FieldMaxY - brinkInset) * side
	if math.Signbit(brink-a.Y()) == math.Signbit(brink-b.Y()) {
		return false
	}
	t := (brink - a.Y()) / (b.Y() - a.Y())
	crossX := a.X() + t*(b.X()-a.X())
	return math.Abs(crossX) >= limit
}

// goalWallWaypoints finds the shortest way from a to b through the post
// clearance points on one side, skipping legs that would clip the wall.
func goalWallWaypoints(a, b mgl64.Vec2, side float64) ([]mgl64.Vec2, bool) {
	px := world.GoalpostX - postMargin
	py := (world.FieldMaxY - postMargin) * side
	locs := map[graph.NodeID]mgl64.Vec2{
		"start":      a,
		"target":     b,
		"post-left":  {-px, py},
		"post-right": {px, py},
	}
	g, err := graph.NewGraph(graph.GraphData{})
	if err != nil {
		return nil, false
	}
	for _, id := range []graph.NodeID{"start", "target", "post-left", "post-right"} {
		loc := locs[id]
		if err := g.AddNode(graph.Node{ID: id, Loc: graph.Coordinate{X: loc.X(), Y: loc.Y()}}); err != nil {
			return nil, false
		}
	}
	pairs := [][2]graph.NodeID{
		{"start", "post-left"}, {"start", "post-right"},
		{"post-left", "target"}, {"post-right", "target"},
		{"post-left", "post-right"},
	}
	for _, p := range pairs {
		if crossesGoalWall(locs[p[0]], locs[p[1]], side, world.GoalpostX-postMargin/2) {
			continue
		}
		if err := g.AddLink(p[0], p[1]); err != nil {
			return nil, false
		}
	}
	path, err := g.GetShortestPath("start", "target")
	if err != nil {
		return nil, false
	}
	var out []mgl64.Vec2
	for _, id := range path.Route[1 : len(path.Route)-1] {
		out = append(out, locs[id])
	}
	return out, true
}
