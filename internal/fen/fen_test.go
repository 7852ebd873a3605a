package fen

import (
	"errors"
	"testing"

	"github.com/benbeisheim/chessrules-backend/internal/model"
)

func TestEncodeStartingPosition(t *testing.T) {
	if got := Encode(model.NewStandardBoard()); got != StartPos {
		t.Fatalf("expected %q, got %q", StartPos, got)
	}
}

func TestDecodeStartingPosition(t *testing.T) {
	b, err := Decode(StartPos)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := model.NewStandardBoard()
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			sq := model.Square{Row: row, Col: col}
			got, exp := b.At(sq), want.At(sq)
			if (got == nil) != (exp == nil) {
				t.Fatalf("%s: got %v, want %v", sq, got, exp)
			}
			if got != nil && (got.Type != exp.Type || got.Color != exp.Color || got.HasMoved) {
				t.Fatalf("%s: got %+v, want %+v", sq, *got, *exp)
			}
		}
	}
	if b.Turn() != model.White {
		t.Fatalf("expected white to move")
	}
	if n := b.Perft(2); n != 400 {
		t.Fatalf("perft(2) from decoded board: got %d", n)
	}
}

func TestDecodeFoolsMate(t *testing.T) {
	b, err := Decode("rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !b.IsCheckmate(model.White) {
		t.Fatalf("expected white to be checkmated")
	}
	if got := b.Status(model.White); got != model.StatusCheckmate {
		t.Fatalf("expected checkmate status, got %s", got)
	}
}

func TestDecodeBlackToMove(t *testing.T) {
	b, err := Decode("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b.Turn() != model.Black {
		t.Fatalf("expected black to move")
	}
	if !b.IsStalemate(model.Black) {
		t.Fatalf("expected stalemate")
	}
}

func TestDecodeMarksAdvancedPawnsMoved(t *testing.T) {
	b, err := Decode("4k3/8/8/3p4/4P3/8/P7/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	tests := []struct {
		label string
		moved bool
	}{
		{"a2", false},
		{"e4", true},
		{"d5", true},
	}
	for _, tt := range tests {
		p := b.At(model.MustParseSquare(tt.label))
		if p == nil || p.Type != model.Pawn {
			t.Fatalf("%s: expected pawn, got %v", tt.label, p)
		}
		if p.HasMoved != tt.moved {
			t.Errorf("%s: HasMoved = %v, want %v", tt.label, p.HasMoved, tt.moved)
		}
	}
	// An advanced pawn only gets the single step.
	moves := b.LegalMoves(model.MustParseSquare("e4"))
	if len(moves) != 2 {
		t.Fatalf("e4: expected push and capture, got %v", moves)
	}
}

func TestDecodeInvalid(t *testing.T) {
	for _, s := range []string{
		"",
		"not a fen",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w - - 0 1",
		"rnbqkbnr/pppppppp/9/8/8/8/PPPPPPPP/RNBQKBNR w - - 0 1",
	} {
		if _, err := Decode(s); !errors.Is(err, ErrInvalidFEN) {
			t.Errorf("Decode(%q): expected ErrInvalidFEN, got %v", s, err)
		}
	}
}

func TestRoundTripAfterMoves(t *testing.T) {
	b := model.NewStandardBoard()
	for _, m := range [][2]string{{"e2", "e4"}, {"e7", "e5"}, {"g1", "f3"}} {
		if !b.MakeMove(model.MustParseSquare(m[0]), model.MustParseSquare(m[1])) {
			t.Fatalf("%s%s rejected", m[0], m[1])
		}
	}
	const want = "rnbqkbnr/pppp1ppp/8/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R b - - 0 1"
	got := Encode(b)
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	decoded, err := Decode(got)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if again := Encode(decoded); again != got {
		t.Fatalf("round trip changed the position: %q", again)
	}
}
