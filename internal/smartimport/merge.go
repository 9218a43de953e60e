package smartimport

import (
	"modelpuzzle/internal/canvas"
	"modelpuzzle/internal/utils"
)

// Merge layout: imported nodes land below existing content in a
// three-column grid so they never cover what the user already placed.
const (
	mergeCols  = 3
	mergeGapY  = 80.0
	mergeStepX = 250.0
	mergeStepY = 150.0
)

// MergeInto appends the imported graph to the board. Imported nodes get
// fresh ids and a position below the existing content; imported edge
// indexes shift by the prior node count so they keep pointing at their own
// nodes.
func MergeInto(board *canvas.Board, imported canvas.Board) {
	if board == nil || len(imported.Nodes) == 0 {
		return
	}

	offset := len(board.Nodes)
	startY := fallbackOriginY
	if offset > 0 {
		maxY := board.Nodes[0].Y
		for _, n := range board.Nodes[1:] {
			if n.Y > maxY {
				maxY = n.Y
			}
		}
		startY = maxY + canvas.NodeH + mergeGapY
	}

	existing := make([]string, 0, offset)
	for _, n := range board.Nodes {
		existing = append(existing, n.ID)
	}
	alloc := utils.NewIDAllocator(existing...)

	for i, n := range imported.Nodes {
		n.ID = alloc.Allocate(n.Type)
		n.X = fallbackOriginX + float64(i%mergeCols)*mergeStepX
		n.Y = startY + float64(i/mergeCols)*mergeStepY
		board.Nodes = append(board.Nodes, n)
	}
	for _, e := range imported.Edges {
		board.Edges = append(board.Edges, canvas.Edge{e[0] + offset, e[1] + offset})
	}
}
