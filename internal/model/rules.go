package model

// Status is the state of the side to move, recomputed from scratch after
// every move.
type Status string

const (
	StatusActive    Status = "active"
	StatusCheck     Status = "check"
	StatusCheckmate Status = "checkmate"
	StatusStalemate Status = "stalemate"
)

func (s Status) Terminal() bool {
	return s == StatusCheckmate || s == StatusStalemate
}

// speculate moves the piece on from to to, evaluates fn and restores both
// cells before returning, whatever fn does.
func (b *Board) speculate(from, to Square, fn func() bool) bool {
	moving, captured := b.At(from), b.At(to)
	defer func() {
		b.Place(from, moving)
		b.Place(to, captured)
	}()
	b.Place(to, moving)
	b.Place(from, nil)
	return fn()
}

// IsValidMove reports whether the side to move may play start->end: the start
// square holds one of its pieces, end is among that piece's moves and the
// move does not leave its own king attacked. The board is unchanged
// afterwards.
func (b *Board) IsValidMove(start, end Square) bool {
	if !start.InBounds() || !end.InBounds() {
		return false
	}
	p := b.At(start)
	if p == nil || p.Color != b.turn {
		return false
	}
	return b.isLegal(start, end, p)
}

func (b *Board) isLegal(from, to Square, p *Piece) bool {
	if !containsSquare(p.Moves(from, b), to) {
		return false
	}
	return !b.leavesKingInCheck(from, to, p.Color)
}

func (b *Board) leavesKingInCheck(from, to Square, color Color) bool {
	return b.speculate(from, to, func() bool {
		return b.IsInCheck(color)
	})
}

// MakeMove plays start->end if it is valid, marks the piece as moved and
// passes the turn. It returns false and changes nothing otherwise.
func (b *Board) MakeMove(start, end Square) bool {
	if !b.IsValidMove(start, end) {
		return false
	}
	p := b.At(start)
	b.Place(end, p)
	b.Place(start, nil)
	p.HasMoved = true
	b.switchTurn()
	return true
}

// IsInCheck reports whether the king of color is attacked. A board without
// that king is never in check.
func (b *Board) IsInCheck(color Color) bool {
	king, ok := b.findKing(color)
	if !ok {
		return false
	}
	return b.isAttacked(king, color.Opposite())
}

func (b *Board) isAttacked(sq Square, by Color) bool {
	for _, from := range b.squaresOf(by) {
		if containsSquare(b.At(from).Moves(from, b), sq) {
			return true
		}
	}
	return false
}

// HasLegalMove reports whether any piece of color has a move that leaves its
// king safe. It ignores whose turn it is.
func (b *Board) HasLegalMove(color Color) bool {
	for _, from := range b.squaresOf(color) {
		p := b.At(from)
		for _, to := range p.Moves(from, b) {
			if !b.leavesKingInCheck(from, to, color) {
				return true
			}
		}
	}
	return false
}

// IsCheckmate reports whether color is in check with no move escaping it.
func (b *Board) IsCheckmate(color Color) bool {
	if !b.IsInCheck(color) {
		return false
	}
	return !b.HasLegalMove(color)
}

// IsStalemate reports whether color is not in check and has no legal move.
func (b *Board) IsStalemate(color Color) bool {
	if b.IsInCheck(color) {
		return false
	}
	return !b.HasLegalMove(color)
}

// Status classifies the position for color.
func (b *Board) Status(color Color) Status {
	inCheck := b.IsInCheck(color)
	hasMove := b.HasLegalMove(color)
	switch {
	case inCheck && !hasMove:
		return StatusCheckmate
	case !hasMove:
		return StatusStalemate
	case inCheck:
		return StatusCheck
	default:
		return StatusActive
	}
}

// LegalMoves returns the legal destinations of the piece on from. It is empty
// when the square is empty or holds a piece of the side not to move.
func (b *Board) LegalMoves(from Square) []Square {
	if !from.InBounds() {
		return nil
	}
	p := b.At(from)
	if p == nil || p.Color != b.turn {
		return nil
	}
	legal := []Square{}
	for _, to := range p.Moves(from, b) {
		if !b.leavesKingInCheck(from, to, p.Color) {
			legal = append(legal, to)
		}
	}
	return legal
}
