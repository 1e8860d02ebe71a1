package game

import "math"

// Terminal scores dominate every feature combination.
const (
	WinScore  = -1e6
	LossScore = 1e6
)

// mobilityCap scales the move count difference to roughly [-1, 1].
const mobilityCap = 60.0

// Weights combines the position features into a single score seen from the
// Player's side: the lower the score, the safer the Player.
type Weights struct {
	RowDistance     float64 `mapstructure:"row_distance"`
	ColumnDistance  float64 `mapstructure:"column_distance"`
	OpponentPushers float64 `mapstructure:"opponent_pushers"`
	PlayerPushers   float64 `mapstructure:"player_pushers"`
	OpponentThreat  float64 `mapstructure:"opponent_threat"`
	Mobility        float64 `mapstructure:"mobility"`
	Control         float64 `mapstructure:"control"`
	Vulnerable      float64 `mapstructure:"vulnerable"`
	PushDistance    float64 `mapstructure:"push_distance"`
	Blockers        float64 `mapstructure:"blockers"`
}

// Features are the raw, roughly normalized inputs of Weights.Score.
type Features struct {
	RowDistance     float64 // ball advance towards the Opponent goal, in [-1, 1]
	ColumnDistance  float64 // ball distance from the centre column, in [0, 1]
	OpponentPushers float64 // share of the 8 neighbours of the ball from which Opponent can push
	PlayerPushers   float64
	OpponentThreat  float64 // 1 if Opponent, given the move, wins at once
	Mobility        float64 // Opponent moves minus Player moves, scaled
	Control         float64 // Opponent minus Player pieces next to the ball, over 8
	Vulnerable      float64 // Player minus Opponent pieces a defender could tackle now, over 4
	PushDistance    float64 // Opponent minus Player closeness to its goal in pushes, in [-1, 1]
	Blockers        float64 // Opponent pieces on the Player's way minus Player pieces on the Opponent's, over 4
}

// Score evaluates p for the Player. Decided positions get WinScore or
// LossScore; a stalemate scores 0.
func (w Weights) Score(p Position) float64 {
	switch p.IsTerminal() {
	case PlayerWins:
		return WinScore
	case OpponentWins:
		return LossScore
	case Draw:
		return 0
	}
	f := Evaluate(p)
	return w.RowDistance*f.RowDistance +
		w.ColumnDistance*f.ColumnDistance +
		w.OpponentPushers*f.OpponentPushers -
		w.PlayerPushers*f.PlayerPushers +
		w.OpponentThreat*f.OpponentThreat +
		w.Mobility*f.Mobility +
		w.Control*f.Control +
		w.Vulnerable*f.Vulnerable +
		w.PushDistance*f.PushDistance +
		w.Blockers*f.Blockers
}

// Evaluate extracts the heuristic features of a non-terminal position.
func Evaluate(p Position) Features {
	r := p.rules
	center := r.Center()
	var f Features

	half := float64(r.Height-1) / 2
	f.RowDistance = (float64(p.ball.Row) - half) / half
	f.ColumnDistance = math.Abs(float64(p.ball.Col-center.Col)) / float64(r.Width/2)

	f.OpponentPushers = float64(countPushers(p, Opponent)) / float64(len(Directions))
	f.PlayerPushers = float64(countPushers(p, Player)) / float64(len(Directions))

	asOpponent := p.WithToMove(Opponent)
	for _, t := range PossibleMoves(asOpponent) {
		if t.Position.goalOutcome() == OpponentWins {
			f.OpponentThreat = 1
			break
		}
	}

	own := len(PossibleMoves(p.WithToMove(Player)))
	enemy := len(PossibleMoves(asOpponent))
	f.Mobility = float64(enemy-own) / mobilityCap

	f.Control = float64(neighbours(p, Opponent)-neighbours(p, Player)) / float64(len(Directions))
	f.Vulnerable = float64(tackleable(p, Player)-tackleable(p, Opponent)) / piecesPerSide
	f.PushDistance = pushCloseness(p, Opponent) - pushCloseness(p, Player)
	f.Blockers = float64(blockers(p, Player)-blockers(p, Opponent)) / piecesPerSide
	return f
}

// countPushers counts the pieces of side that could push the ball right now.
func countPushers(p Position, side Side) int {
	n := 0
	for _, id := range sidePieces(side) {
		for _, d := range Directions {
			if _, ok := pushForward(p, id, d); ok {
				n++
			}
		}
	}
	return n
}

const piecesPerSide = 4.0

// neighbours counts the pieces of side on the cells around the ball.
func neighbours(p Position, side Side) int {
	n := 0
	for _, d := range Directions {
		if id, ok := p.PieceAt(p.ball.Add(d)); ok && id.Side() == side {
			n++
		}
	}
	return n
}

// tackleable counts the pieces of side that a defender of the other side could
// tackle right now. A piece open to two tackles counts once.
func tackleable(p Position, side Side) int {
	var hit [NumPieces]bool
	n := 0
	for _, id := range sidePieces(side.Other()) {
		if id.Type() != Defender {
			continue
		}
		for _, d := range Directions {
			if _, ok := tackleForward(p, id, d); !ok {
				continue
			}
			victim, _ := p.PieceAt(p.pieces[id].Add(d))
			if !hit[victim] {
				hit[victim] = true
				n++
			}
		}
	}
	return n
}

// pushCloseness is 1 with the ball on the goal row of side and 0 with the
// ball on the far row. A piece of side ready to push the ball straight
// towards the goal takes half a row off the distance.
func pushCloseness(p Position, side Side) float64 {
	r := p.rules
	forward := Direction{DRow: -1}
	if side == Opponent {
		forward = Direction{DRow: 1}
	}
	dist := math.Abs(float64(r.GoalRow(side) - p.ball.Row))
	if id, ok := p.PieceAt(p.ball.Sub(forward)); ok && id.Side() == side {
		if _, ok := pushForward(p, id, forward); ok {
			dist -= 0.5
		}
	}
	return 1 - max(dist, 0)/float64(r.Height-1)
}

// blockers counts the pieces of the other side on the rows strictly between
// the ball and the goal row of side.
func blockers(p Position, side Side) int {
	lo, hi := p.ball.Row, p.rules.GoalRow(side)
	if lo > hi {
		lo, hi = hi, lo
	}
	n := 0
	for _, id := range sidePieces(side.Other()) {
		if row := p.pieces[id].Row; row > lo && row < hi {
			n++
		}
	}
	return n
}
