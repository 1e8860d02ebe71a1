// meta/meta.go
package meta

import (
	"time"

	"chessball/game"
)

// GO_ROUTINES defines the number of search workers.
const GO_ROUTINES = 8

// NODE_BUDGET caps the positions a search may index.
const NODE_BUDGET = 1_000_000

// MAX_DEPTH bounds forward search plies and retrograde rounds.
const MAX_DEPTH = 40

// MAX_PLIES is the ply cap after which a played game is a draw.
const MAX_PLIES = 300

// MINIMAX_DEPTH is the search depth, in plies, of the minimax strategy.
const MINIMAX_DEPTH = 2

// DEADLINE is the default wall-clock budget of a search.
const DEADLINE = 5 * time.Minute

// DEFAULT_WEIGHTS are the heuristic weights used unless configured otherwise.
var DEFAULT_WEIGHTS = game.Weights{
	RowDistance:     10,
	ColumnDistance:  -1,
	OpponentPushers: 30,
	PlayerPushers:   30,
	OpponentThreat:  200,
	Mobility:        1,
	Control:         20,
	Vulnerable:      15,
	PushDistance:    20,
	Blockers:        8,
}
