// Command chesscli is a hot-seat game in the terminal. Moves are entered as
// two square labels, e.g. "e2 e4".
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/benbeisheim/chessrules-backend/internal/fen"
	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/fatih/color"
)

func main() {
	position := flag.String("fen", "", "start from this FEN instead of the initial position")
	noColor := flag.Bool("no-color", false, "disable colored output")
	flag.Parse()

	log.SetFlags(0)
	log.SetPrefix("chesscli: ")
	if *noColor {
		color.NoColor = true
	}

	board := model.NewStandardBoard()
	if *position != "" {
		b, err := fen.Decode(*position)
		if err != nil {
			log.Fatal(err)
		}
		board = b
	}

	play(board, os.Stdin, os.Stdout)
}

// play runs the read-move-report loop until the game ends or in is exhausted.
func play(board *model.Board, in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)
	render(out, board)
	for {
		fmt.Fprintf(out, "%s to move> ", board.Turn())
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return
		}
		fields := strings.Fields(scanner.Text())
		switch {
		case len(fields) == 0:
			continue
		case fields[0] == "quit":
			return
		case fields[0] == "fen":
			fmt.Fprintln(out, fen.Encode(board))
			continue
		case fields[0] == "moves" && len(fields) == 2:
			listMoves(out, board, fields[1])
			continue
		case len(fields) != 2:
			fmt.Fprintln(out, `enter a move as "e2 e4", "moves e2", "fen" or "quit"`)
			continue
		}

		from, err := model.ParseSquare(fields[0])
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		to, err := model.ParseSquare(fields[1])
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		if !board.MakeMove(from, to) {
			fmt.Fprintf(out, "illegal move %s %s\n", from, to)
			continue
		}
		render(out, board)

		side := board.Turn()
		switch {
		case board.IsCheckmate(side):
			fmt.Fprintf(out, "%s is in checkmate! %s wins.\n", side, side.Opposite())
			return
		case board.IsStalemate(side):
			fmt.Fprintf(out, "%s is stalemated. Draw.\n", side)
			return
		case board.IsInCheck(side):
			fmt.Fprintf(out, "%s is in check!\n", side)
		}
	}
}

func listMoves(out io.Writer, board *model.Board, label string) {
	from, err := model.ParseSquare(label)
	if err != nil {
		fmt.Fprintln(out, err)
		return
	}
	labels := []string{}
	for _, sq := range board.LegalMoves(from) {
		labels = append(labels, sq.String())
	}
	fmt.Fprintf(out, "%s: %s\n", from, strings.Join(labels, " "))
}
