package model

// MoveRequest is a move submitted by a player, with squares already
// translated from their labels.
type MoveRequest struct {
	From Square `json:"from"`
	To   Square `json:"to"`
}

type Ply struct {
	Piece         Piece  `json:"piece"`
	From          Square `json:"from"`
	To            Square `json:"to"`
	CapturedPiece *Piece `json:"capturedPiece"`
	Notation      string `json:"notation"`
}

// Move pairs a white ply with the black reply. Games loaded with black to
// move start with a Move that has no white ply.
type Move struct {
	WhitePly *Ply `json:"whitePly"`
	BlackPly *Ply `json:"blackPly"`
}

type SimpleMove struct {
	From Square `json:"from"`
	To   Square `json:"to"`
}

// coordinateNotation writes a move as its two square labels, e.g. "e2e4".
func coordinateNotation(from, to Square) string {
	return from.String() + to.String()
}
