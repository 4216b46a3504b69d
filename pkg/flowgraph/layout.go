package flowgraph

import (
	"math"

	"github.com/formlane/formlane/pkg/idwrap"
	"github.com/formlane/formlane/pkg/model/mflow"
)

// LayoutParams configures full relayout and smart placement. All distances
// are canvas units.
type LayoutParams struct {
	NodeWidth  float64
	NodeHeight float64
	MinGapX    float64
	MinGapY    float64
	GridSize   float64
}

// DefaultLayoutParams matches the editor's card dimensions.
func DefaultLayoutParams() LayoutParams {
	return LayoutParams{
		NodeWidth:  320,
		NodeHeight: 140,
		MinGapX:    48,
		MinGapY:    64,
		GridSize:   20,
	}
}

// pitch returns the grid-aligned distance between neighbouring node origins
// on one axis. Rounding up keeps grid alignment from ever shrinking the gap.
func pitch(size, gap, grid float64) float64 {
	p := size + gap
	if grid > 0 {
		p = math.Ceil(p/grid) * grid
	}
	return p
}

func snap(v, grid float64) float64 {
	if grid <= 0 {
		return v
	}
	return math.Round(v/grid) * grid
}

// TidyLayout recomputes every node position. Nodes are assigned BFS depth
// levels from the start node (a node's level is max of its parents' levels
// plus one), levels become rows and siblings spread horizontally, centered.
// Edges are untouched; node identity and order are preserved.
//
// The result is a pure function of the input node set, order and params, so
// repeated relayouts and autosave diffs stay stable.
func TidyLayout(nodes []mflow.Node, edges []mflow.Edge, params LayoutParams) []mflow.Node {
	if len(nodes) == 0 {
		return nodes
	}

	pitchX := pitch(params.NodeWidth, params.MinGapX, params.GridSize)
	pitchY := pitch(params.NodeHeight, params.MinGapY, params.GridSize)

	levels, levelOrder, maxLevel := assignLevels(nodes, edges)

	out := make([]mflow.Node, len(nodes))
	copy(out, nodes)
	positions := make(map[idwrap.IDWrap]mflow.Position, len(nodes))

	for level := 0; level <= maxLevel; level++ {
		row := levelOrder[level]
		if len(row) == 0 {
			continue
		}
		y := float64(level) * pitchY
		startX := snap(-float64(len(row)-1)*pitchX/2, params.GridSize)
		for i, id := range row {
			positions[id] = mflow.Position{X: startX + float64(i)*pitchX, Y: y}
		}
	}

	// Nodes unreachable from the start node get rows of their own below the
	// laid-out graph, in input order.
	extraLevel := maxLevel
	for _, n := range nodes {
		if _, placed := levels[n.ID]; placed {
			continue
		}
		extraLevel++
		positions[n.ID] = mflow.Position{X: 0, Y: float64(extraLevel) * pitchY}
	}

	for i := range out {
		if pos, ok := positions[out[i].ID]; ok {
			out[i].PositionX = pos.X
			out[i].PositionY = pos.Y
		}
	}
	return out
}

// assignLevels runs the BFS level assignment. Each node's level is the
// maximum of its parents' levels plus one, so branches rejoin below their
// longest arm. Discovery order inside a level follows edge slice order,
// keeping the result deterministic.
func assignLevels(nodes []mflow.Node, edges []mflow.Edge) (map[idwrap.IDWrap]int, map[int][]idwrap.IDWrap, int) {
	levels := make(map[idwrap.IDWrap]int)
	levelOrder := make(map[int][]idwrap.IDWrap)

	start, found := mflow.FindStartNode(nodes)
	if !found {
		return levels, levelOrder, 0
	}

	outgoing := mflow.BuildOutgoingAdjacency(edges)
	incoming := mflow.BuildIncomingAdjacency(edges)

	levels[start.ID] = 0
	levelOrder[0] = []idwrap.IDWrap{start.ID}
	queue := []idwrap.IDWrap{start.ID}

	// Safety bound for cyclic graphs.
	maxProcessed := len(nodes) * len(nodes)
	if maxProcessed < 10000 {
		maxProcessed = 10000
	}

	processed := 0
	for len(queue) > 0 && processed <= maxProcessed {
		processed++
		current := queue[0]
		queue = queue[1:]

		for _, child := range outgoing[current] {
			maxParent := -1
			for _, parent := range incoming[child] {
				if lvl, ok := levels[parent]; ok && lvl > maxParent {
					maxParent = lvl
				}
			}
			childLevel := maxParent + 1

			existing, seen := levels[child]
			if seen && childLevel <= existing {
				continue
			}
			if seen {
				row := levelOrder[existing]
				for i, id := range row {
					if id == child {
						levelOrder[existing] = append(row[:i], row[i+1:]...)
						break
					}
				}
			}
			levels[child] = childLevel
			levelOrder[childLevel] = append(levelOrder[childLevel], child)
			queue = append(queue, child)
		}
	}

	maxLevel := 0
	for lvl := range levelOrder {
		if lvl > maxLevel {
			maxLevel = lvl
		}
	}
	return levels, levelOrder, maxLevel
}

// placeAttempts bounds the smart-placement collision loop.
const placeAttempts = 10

// PlaceNode proposes a position for a newly inserted node without relayouting
// the whole graph. With a selected node the proposal is directly below it,
// otherwise below the bounding box of all nodes, horizontally centered. A
// proposal overlapping an existing node's padded bounding box shifts down one
// row and retries; after placeAttempts the last attempt is accepted as is.
func PlaceNode(nodes []mflow.Node, selected *idwrap.IDWrap, params LayoutParams) mflow.Position {
	pitchY := pitch(params.NodeHeight, params.MinGapY, params.GridSize)

	var proposal mflow.Position
	switch {
	case selected != nil && findNode(nodes, *selected) != nil:
		sel := findNode(nodes, *selected)
		proposal = mflow.Position{X: sel.PositionX, Y: sel.PositionY + pitchY}
	case len(nodes) > 0:
		minX, maxX := math.Inf(1), math.Inf(-1)
		maxY := math.Inf(-1)
		for _, n := range nodes {
			minX = math.Min(minX, n.PositionX)
			maxX = math.Max(maxX, n.PositionX+params.NodeWidth)
			maxY = math.Max(maxY, n.PositionY+params.NodeHeight)
		}
		proposal = mflow.Position{
			X: snap((minX+maxX)/2-params.NodeWidth/2, params.GridSize),
			Y: snap(maxY+params.MinGapY, params.GridSize),
		}
	default:
		return mflow.Position{}
	}

	for attempt := 0; attempt < placeAttempts; attempt++ {
		if !overlapsAny(nodes, proposal, params) {
			break
		}
		proposal.Y += pitchY
	}
	return proposal
}

func findNode(nodes []mflow.Node, id idwrap.IDWrap) *mflow.Node {
	for i := range nodes {
		if nodes[i].ID == id {
			return &nodes[i]
		}
	}
	return nil
}

// overlapsAny tests the proposed origin against every node's bounding box
// padded by the configured gaps.
func overlapsAny(nodes []mflow.Node, pos mflow.Position, params LayoutParams) bool {
	for _, n := range nodes {
		dx := math.Abs(pos.X - n.PositionX)
		dy := math.Abs(pos.Y - n.PositionY)
		if dx < params.NodeWidth+params.MinGapX && dy < params.NodeHeight+params.MinGapY {
			return true
		}
	}
	return false
}
