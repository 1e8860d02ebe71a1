package searcher

import (
	"chessball/game"

	"golang.org/x/exp/slices"
)

type NodeStatus uint8

const (
	Pending NodeStatus = iota
	Lost               // the defending side loses against best play
	Safe               // the defending side has a witness move avoiding every known loss
)

func (s NodeStatus) String() string {
	switch s {
	case Lost:
		return "lost"
	case Safe:
		return "safe"
	}
	return "pending"
}

// Node is the search bookkeeping for one indexed position. Fields are written
// only by the goroutine that created the node or between rounds.
type Node struct {
	Position game.Position
	Depth    int
	Score    float64
	Parent   *Node
	// Move leads from Parent to this node in forward mode. In retrograde mode
	// it is the witness move of a Safe node.
	Move   game.MoveInfo
	Round  int
	Status NodeStatus
	seq    int
}

// Line returns the positions and moves from the search root to n.
func (n *Node) Line() ([]game.Position, []game.MoveInfo) {
	var positions []game.Position
	var moves []game.MoveInfo
	for cur := n; cur != nil; cur = cur.Parent {
		positions = append(positions, cur.Position)
		if cur.Parent != nil {
			moves = append(moves, cur.Move)
		}
	}
	slices.Reverse(positions)
	slices.Reverse(moves)
	return positions, moves
}
