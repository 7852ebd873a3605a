package model

var (
	rookDirs   = []Square{{Row: 1, Col: 0}, {Row: -1, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: -1}}
	bishopDirs = []Square{{Row: 1, Col: 1}, {Row: 1, Col: -1}, {Row: -1, Col: 1}, {Row: -1, Col: -1}}
	queenDirs  = append(append([]Square{}, rookDirs...), bishopDirs...)
	knightDirs = []Square{
		{Row: 2, Col: 1}, {Row: 2, Col: -1}, {Row: -2, Col: 1}, {Row: -2, Col: -1},
		{Row: 1, Col: 2}, {Row: 1, Col: -2}, {Row: -1, Col: 2}, {Row: -1, Col: -2},
	}
	kingDirs = queenDirs
)

// Moves returns the pseudo-legal destinations of p standing on from. Whether
// the move would leave the own king in check is not considered here.
func (p *Piece) Moves(from Square, b *Board) []Square {
	switch p.Type {
	case Pawn:
		return p.pawnMoves(from, b)
	case Rook:
		return p.slidingMoves(from, b, rookDirs)
	case Bishop:
		return p.slidingMoves(from, b, bishopDirs)
	case Queen:
		return p.slidingMoves(from, b, queenDirs)
	case Knight:
		return p.stepMoves(from, b, knightDirs)
	case King:
		return p.stepMoves(from, b, kingDirs)
	default:
		return nil
	}
}

func (p *Piece) forward() int {
	if p.Color == White {
		return -1
	}
	return 1
}

func (p *Piece) pawnMoves(from Square, b *Board) []Square {
	moves := []Square{}
	dir := p.forward()

	one := from.offset(dir, 0)
	if one.InBounds() && b.At(one) == nil {
		moves = append(moves, one)
		two := from.offset(2*dir, 0)
		if !p.HasMoved && two.InBounds() && b.At(two) == nil {
			moves = append(moves, two)
		}
	}
	for _, dc := range []int{-1, 1} {
		target := from.offset(dir, dc)
		if !target.InBounds() {
			continue
		}
		if occupant := b.At(target); occupant != nil && occupant.Color != p.Color {
			moves = append(moves, target)
		}
	}
	return moves
}

func (p *Piece) slidingMoves(from Square, b *Board, dirs []Square) []Square {
	moves := []Square{}
	for _, dir := range dirs {
		target := from.offset(dir.Row, dir.Col)
		for target.InBounds() {
			occupant := b.At(target)
			if occupant == nil {
				moves = append(moves, target)
			} else if occupant.Color != p.Color {
				moves = append(moves, target)
				break
			} else {
				break
			}
			target = target.offset(dir.Row, dir.Col)
		}
	}
	return moves
}

func (p *Piece) stepMoves(from Square, b *Board, dirs []Square) []Square {
	moves := []Square{}
	for _, dir := range dirs {
		target := from.offset(dir.Row, dir.Col)
		if !target.InBounds() {
			continue
		}
		if occupant := b.At(target); occupant == nil || occupant.Color != p.Color {
			moves = append(moves, target)
		}
	}
	return moves
}

func containsSquare(squares []Square, sq Square) bool {
	for _, s := range squares {
		if s == sq {
			return true
		}
	}
	return false
}
