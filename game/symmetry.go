package game

// Key is an exact, collision-free encoding of a position under fixed rules:
// nine 6-bit cell indexes (pieces in ID order, then the ball) and the side to
// move in bit 54.
type Key uint64

const (
	cellBits = 6
	sideBit  = (NumPieces + 1) * cellBits
)

func (p Position) Key() Key {
	var k Key
	for i, c := range p.pieces {
		k |= Key(p.rules.index(c)) << (i * cellBits)
	}
	k |= Key(p.rules.index(p.ball)) << (NumPieces * cellBits)
	k |= Key(p.toMove) << sideBit
	return k
}

// Position rebuilds the position encoded by k.
func (k Key) Position(rules Rules) Position {
	const mask = 1<<cellBits - 1
	p := Position{rules: rules}
	for i := range p.pieces {
		p.pieces[i] = rules.cell(int(k >> (i * cellBits) & mask))
	}
	p.ball = rules.cell(int(k >> (NumPieces * cellBits) & mask))
	p.toMove = Side(k >> sideBit & 1)
	return p
}

// Mirror reflects the position across the vertical axis. The rules are
// symmetric under this reflection, so p and Mirror(p) have the same value.
func Mirror(p Position) Position {
	q := p
	for i, c := range p.pieces {
		q.pieces[i] = p.rules.mirror(c)
	}
	q.ball = p.rules.mirror(p.ball)
	q.normalize()
	return q
}

// Canonicalize returns the representative of p's symmetry class: whichever of
// p and its mirror image has the smaller key. It is idempotent.
func Canonicalize(p Position) Position {
	m := Mirror(p)
	if m.Key() < p.Key() {
		return m
	}
	return p
}

func CanonicalKey(p Position) Key {
	return Canonicalize(p).Key()
}
