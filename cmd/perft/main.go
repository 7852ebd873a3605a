// Command perft counts legal move sequences with the rules core and can
// cross-check the count against dragontoothmg.
//
// Castling, en-passant and promotion are not played by the rules core, so the
// oracle only agrees on positions and depths where none of them can occur.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/benbeisheim/chessrules-backend/internal/fen"
	"github.com/dylhunn/dragontoothmg"
)

func main() {
	position := flag.String("fen", fen.StartPos, "FEN string (defaults to initial position)")
	depth := flag.Int("depth", 0, "Perft depth (required)")
	divide := flag.Bool("divide", false, "Print per-move node counts at root")
	oracle := flag.Bool("oracle", false, "Cross-check the node count with dragontoothmg")
	flag.Parse()

	if *depth <= 0 {
		fmt.Fprintln(os.Stderr, "-depth must be > 0")
		os.Exit(2)
	}

	board, err := fen.Decode(*position)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fen: %v\n", err)
		os.Exit(2)
	}

	if *divide {
		div := board.PerftDivide(*depth)
		moves := make([]string, 0, len(div))
		for m := range div {
			moves = append(moves, m)
		}
		sort.Strings(moves)
		var sum uint64
		for _, m := range moves {
			fmt.Printf("%s: %d\n", m, div[m])
			sum += div[m]
		}
		fmt.Printf("Total: %d\n", sum)
		return
	}

	start := time.Now()
	nodes := board.Perft(*depth)
	elapsed := time.Since(start)
	fmt.Printf("depth %d \tnodes %d \t%s\n", *depth, nodes, elapsed)

	if *oracle {
		ref := dragontoothmg.ParseFen(*position)
		want := oraclePerft(&ref, *depth)
		if want != nodes {
			fmt.Printf("MISMATCH: dragontoothmg counts %d\n", want)
			os.Exit(1)
		}
		fmt.Println("dragontoothmg agrees")
	}
}

func oraclePerft(b *dragontoothmg.Board, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	moves := b.GenerateLegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		undo := b.Apply(m)
		nodes += oraclePerft(b, depth-1)
		undo()
	}
	return nodes
}
