package chat

import (
	"fmt"
	"strings"

	"modelpuzzle/internal/canvas"
)

// BoardSummary condenses the board into a few lines of prompt context. The
// full board JSON would blow the prompt for large graphs, so the assistant
// sees counts plus a preview of the first module types.
func BoardSummary(board canvas.Board) string {
	if len(board.Nodes) == 0 {
		return "The board is currently empty."
	}

	preview := make([]string, 0, 5)
	for _, n := range board.Nodes {
		preview = append(preview, n.Type)
		if len(preview) == 5 {
			break
		}
	}
	more := ""
	if len(board.Nodes) > 5 {
		more = ", ..."
	}

	hasNotes := strings.TrimSpace(board.Meta.Notes) != ""
	return fmt.Sprintf("The board has %d modules and %d connections (%s%s). Project notes present: %v.",
		len(board.Nodes), len(board.Edges), strings.Join(preview, ", "), more, hasNotes)
}

// InsertReply copies an assistant reply into the board: into the selected
// node's notes when a node is selected, otherwise into the project notes.
// Empty replies and unknown node ids insert nothing.
func InsertReply(board *canvas.Board, selectedNodeID, reply string) bool {
	reply = strings.TrimSpace(reply)
	if board == nil || reply == "" {
		return false
	}
	if id := strings.TrimSpace(selectedNodeID); id != "" {
		node, ok := board.NodeByID(id)
		if !ok {
			return false
		}
		notes := node.Notes
		if notes != "" {
			notes += "\n\n"
		}
		board.SetNotes(id, notes+reply)
		return true
	}
	board.AppendProjectNotes(reply)
	return true
}
