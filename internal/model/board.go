package model

type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

type Color string

const (
	White Color = "white"
	Black Color = "black"
)

func (c Color) Opposite() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) Valid() bool {
	return c == White || c == Black
}

// Piece is owned by exactly one board cell. Moving a piece relocates the
// same pointer; it is never copied while on the board.
type Piece struct {
	Type     PieceType `json:"type"`
	Color    Color     `json:"color"`
	HasMoved bool      `json:"hasMoved"`
}

func NewPiece(t PieceType, c Color) *Piece {
	return &Piece{Type: t, Color: c}
}

// Board is an 8x8 grid indexed [row][col]. Black starts on rows 0-1 and
// white on rows 6-7. A Board is not safe for concurrent use: even the
// legality queries mutate the grid while they speculate.
type Board struct {
	grid [8][8]*Piece
	turn Color
}

// NewBoard returns an empty board with white to move.
func NewBoard() *Board {
	return &Board{turn: White}
}

// NewStandardBoard returns a board set up in the starting position.
func NewStandardBoard() *Board {
	b := NewBoard()
	b.Setup()
	return b
}

var backRank = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// Setup clears the board and places both armies in the starting position.
func (b *Board) Setup() {
	b.grid = [8][8]*Piece{}
	for col := 0; col < 8; col++ {
		b.grid[0][col] = NewPiece(backRank[col], Black)
		b.grid[1][col] = NewPiece(Pawn, Black)
		b.grid[6][col] = NewPiece(Pawn, White)
		b.grid[7][col] = NewPiece(backRank[col], White)
	}
	b.turn = White
}

// At returns the piece on sq, or nil when the square is empty.
func (b *Board) At(sq Square) *Piece {
	return b.grid[sq.Row][sq.Col]
}

// Place puts p on sq, replacing whatever was there. It is meant for building
// positions; gameplay goes through MakeMove.
func (b *Board) Place(sq Square, p *Piece) {
	b.grid[sq.Row][sq.Col] = p
}

func (b *Board) Turn() Color {
	return b.turn
}

func (b *Board) SetTurn(c Color) {
	b.turn = c
}

// Grid returns a copy of the grid with copied pieces, safe to hand to a
// renderer or encoder.
func (b *Board) Grid() [8][8]*Piece {
	var out [8][8]*Piece
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if p := b.grid[row][col]; p != nil {
				cp := *p
				out[row][col] = &cp
			}
		}
	}
	return out
}

// Clone returns an independent deep copy of the board.
func (b *Board) Clone() *Board {
	return &Board{grid: b.Grid(), turn: b.turn}
}

func (b *Board) switchTurn() {
	b.turn = b.turn.Opposite()
}

// findKing scans the grid for the king of the given color.
func (b *Board) findKing(color Color) (Square, bool) {
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			p := b.grid[row][col]
			if p != nil && p.Type == King && p.Color == color {
				return Square{Row: row, Col: col}, true
			}
		}
	}
	return Square{}, false
}

// squaresOf lists the squares holding pieces of the given color.
func (b *Board) squaresOf(color Color) []Square {
	squares := make([]Square, 0, 16)
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if p := b.grid[row][col]; p != nil && p.Color == color {
				squares = append(squares, Square{Row: row, Col: col})
			}
		}
	}
	return squares
}
