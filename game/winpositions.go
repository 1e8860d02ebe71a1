package game

import "iter"

// WinPositions lazily enumerates the positions a push has just decided for
// winner: the ball on winner's goal row and, where the ball came from, a piece
// of the side not to move whose former cell is empty. Boards nobody could have
// reached are left out, and every position is yielded once. The sequence is
// still huge on real boards, so callers stop it early.
func WinPositions(rules Rules, winner Side) iter.Seq[Position] {
	return func(yield func(Position) bool) {
		if rules.Validate() != nil {
			return
		}
		row := rules.GoalRow(winner)
		for col := int8(1); col < rules.Width-1; col++ {
			ball := Cell{Row: row, Col: col}
			for _, mover := range [...]Side{Player, Opponent} {
				for di, d := range Directions {
					via, origin, ok := pushOrigin(rules, ball, d)
					if !ok {
						continue
					}
					// Only the first direction explaining a board yields it.
					emit := func(q Position) bool {
						q.normalize()
						if firstPush(q) != di {
							return true
						}
						return yield(q)
					}
					for _, kind := range [...]PieceType{Attacker, Defender} {
						pusher := pieceID(mover, kind, 0)
						p := Position{rules: rules, ball: ball, toMove: mover.Other()}
						p.pieces[pusher] = via
						used := cellBit(rules, ball) | cellBit(rules, via) | cellBit(rules, origin)
						if !placePartner(&p, pusher, used, emit) {
							return
						}
					}
				}
			}
		}
	}
}

// pushOrigin returns where the ball and the pusher stood before a push in
// direction d left the ball on ball.
func pushOrigin(rules Rules, ball Cell, d Direction) (via, origin Cell, ok bool) {
	via = ball.Sub(d)
	origin = via.Sub(d)
	if !rules.InBounds(origin) || rules.ForbiddenBallColumn(via.Col) {
		return via, origin, false
	}
	if via.Row == rules.GoalRow(Player) || via.Row == rules.GoalRow(Opponent) {
		return via, origin, false
	}
	return via, origin, true
}

// firstPush returns the index of the first direction in which a push by the
// side not to move could have produced p, or -1.
func firstPush(p Position) int {
	mover := p.toMove.Other()
	for i, d := range Directions {
		via, origin, ok := pushOrigin(p.rules, p.ball, d)
		if !ok {
			continue
		}
		if id, ok := p.PieceAt(via); ok && id.Side() == mover && p.empty(origin) {
			return i
		}
	}
	return -1
}

func cellBit(rules Rules, c Cell) uint64 {
	return uint64(1) << rules.index(c)
}

// placePartner puts the second piece of the pusher's pair on every free cell
// and fills the other pairs.
func placePartner(p *Position, pusher PieceID, used uint64, yield func(Position) bool) bool {
	var pairs []PieceID
	for id := PieceID(0); id < NumPieces; id += 2 {
		if id != pusher {
			pairs = append(pairs, id)
		}
	}
	for k := 0; k < p.rules.Cells(); k++ {
		if used&(1<<k) != 0 {
			continue
		}
		p.pieces[pusher+1] = p.rules.cell(k)
		if !placePairs(p, pairs, used|1<<k, yield) {
			return false
		}
	}
	return true
}

// placePairs fills every pair in pairs with each choice of two free cells in
// increasing index order.
func placePairs(p *Position, pairs []PieceID, used uint64, yield func(Position) bool) bool {
	if len(pairs) == 0 {
		return yield(*p)
	}
	first := pairs[0]
	n := p.rules.Cells()
	for i := 0; i < n; i++ {
		if used&(1<<i) != 0 {
			continue
		}
		for j := i + 1; j < n; j++ {
			if used&(1<<j) != 0 {
				continue
			}
			p.pieces[first] = p.rules.cell(i)
			p.pieces[first+1] = p.rules.cell(j)
			if !placePairs(p, pairs[1:], used|1<<i|1<<j, yield) {
				return false
			}
		}
	}
	return true
}
