package main

import (
	"fmt"
	"io"

	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/fatih/color"
)

var (
	lightSquare = color.New(color.BgHiWhite, color.FgBlack)
	darkSquare  = color.New(color.BgGreen, color.FgBlack)
)

var letters = map[model.PieceType]string{
	model.King:   "K",
	model.Queen:  "Q",
	model.Rook:   "R",
	model.Bishop: "B",
	model.Knight: "N",
	model.Pawn:   "P",
}

// symbol is the piece letter, upper case for white and lower case for black.
func symbol(p *model.Piece) string {
	if p == nil {
		return " "
	}
	s := letters[p.Type]
	if p.Color == model.Black {
		s = string(s[0] + 'a' - 'A')
	}
	return s
}

func render(out io.Writer, board *model.Board) {
	grid := board.Grid()
	for row := 0; row < 8; row++ {
		fmt.Fprintf(out, "%d ", 8-row)
		for col := 0; col < 8; col++ {
			square := lightSquare
			if (row+col)%2 == 1 {
				square = darkSquare
			}
			fmt.Fprint(out, square.Sprint(" "+symbol(grid[row][col])+" "))
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintln(out, "   a  b  c  d  e  f  g  h")
}
