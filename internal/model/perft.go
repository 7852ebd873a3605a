package model

// Perft counts the legal move sequences of the given depth from the current
// position. The board is restored before it returns.
func (b *Board) Perft(depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	var nodes uint64
	for _, from := range b.squaresOf(b.turn) {
		for _, to := range b.LegalMoves(from) {
			if depth == 1 {
				nodes++
				continue
			}
			undo := b.apply(from, to)
			nodes += b.Perft(depth - 1)
			undo()
		}
	}
	return nodes
}

// PerftDivide returns the node count below each root move, keyed "e2e4".
func (b *Board) PerftDivide(depth int) map[string]uint64 {
	div := make(map[string]uint64)
	if depth <= 0 {
		return div
	}
	for _, from := range b.squaresOf(b.turn) {
		for _, to := range b.LegalMoves(from) {
			undo := b.apply(from, to)
			div[from.String()+to.String()] = b.Perft(depth - 1)
			undo()
		}
	}
	return div
}

// apply plays an already validated move and returns a function restoring the
// previous position, including the moved flag and the turn.
func (b *Board) apply(from, to Square) func() {
	moving, captured := b.At(from), b.At(to)
	hadMoved, turn := moving.HasMoved, b.turn
	b.Place(to, moving)
	b.Place(from, nil)
	moving.HasMoved = true
	b.switchTurn()
	return func() {
		b.Place(from, moving)
		b.Place(to, captured)
		moving.HasMoved = hadMoved
		b.turn = turn
	}
}
