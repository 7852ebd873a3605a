// Package fen converts boards to and from Forsyth-Edwards Notation using
// notnil/chess for the parsing and the piece-placement encoding.
package fen

import (
	"errors"
	"fmt"

	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/notnil/chess"
)

// StartPos is the standard starting position.
const StartPos = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w - - 0 1"

var ErrInvalidFEN = errors.New("invalid fen")

var (
	toChessType = map[model.PieceType]chess.PieceType{
		model.King:   chess.King,
		model.Queen:  chess.Queen,
		model.Rook:   chess.Rook,
		model.Bishop: chess.Bishop,
		model.Knight: chess.Knight,
		model.Pawn:   chess.Pawn,
	}
	fromChessType = map[chess.PieceType]model.PieceType{
		chess.King:   model.King,
		chess.Queen:  model.Queen,
		chess.Rook:   model.Rook,
		chess.Bishop: model.Bishop,
		chess.Knight: model.Knight,
		chess.Pawn:   model.Pawn,
	}
)

// toChessSquare maps a grid square to a chess.Square. Row 0 is rank 8.
func toChessSquare(sq model.Square) chess.Square {
	return chess.NewSquare(chess.File(sq.Col), chess.Rank(7-sq.Row))
}

func fromChessSquare(sq chess.Square) model.Square {
	return model.Square{Row: 7 - int(sq.Rank()), Col: int(sq.File())}
}

func toChessColor(c model.Color) chess.Color {
	if c == model.Black {
		return chess.Black
	}
	return chess.White
}

// Encode writes the board as a FEN string. Castling and en-passant fields are
// always "-" since neither rule is played.
func Encode(b *model.Board) string {
	squares := make(map[chess.Square]chess.Piece)
	grid := b.Grid()
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			p := grid[row][col]
			if p == nil {
				continue
			}
			sq := toChessSquare(model.Square{Row: row, Col: col})
			squares[sq] = chess.NewPiece(toChessType[p.Type], toChessColor(p.Color))
		}
	}
	turn := "w"
	if b.Turn() == model.Black {
		turn = "b"
	}
	return fmt.Sprintf("%s %s - - 0 1", chess.NewBoard(squares).String(), turn)
}

// Decode builds a board from a FEN string. Pawns found off their home rank
// are marked as moved, which is exact since pawns never move backwards.
func Decode(s string) (*model.Board, error) {
	opt, err := chess.FEN(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFEN, err)
	}
	pos := chess.NewGame(opt).Position()
	board := model.NewBoard()
	for sq, pc := range pos.Board().SquareMap() {
		if pc == chess.NoPiece {
			continue
		}
		t, ok := fromChessType[pc.Type()]
		if !ok {
			return nil, fmt.Errorf("%w: unknown piece on %s", ErrInvalidFEN, sq)
		}
		color := model.White
		if pc.Color() == chess.Black {
			color = model.Black
		}
		at := fromChessSquare(sq)
		p := model.NewPiece(t, color)
		if t == model.Pawn {
			p.HasMoved = !onHomeRank(at, color)
		}
		board.Place(at, p)
	}
	if pos.Turn() == chess.Black {
		board.SetTurn(model.Black)
	}
	return board, nil
}

func onHomeRank(sq model.Square, c model.Color) bool {
	if c == model.White {
		return sq.Row == 6
	}
	return sq.Row == 1
}
