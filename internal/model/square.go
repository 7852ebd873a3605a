package model

import "fmt"

// Square addresses a board cell. Row 0 is rank 8, col 0 is file a.
type Square struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (s Square) InBounds() bool {
	return s.Row >= 0 && s.Row < 8 && s.Col >= 0 && s.Col < 8
}

func (s Square) offset(dr, dc int) Square {
	return Square{Row: s.Row + dr, Col: s.Col + dc}
}

// String renders the square as a label such as "e2".
func (s Square) String() string {
	return fmt.Sprintf("%c%d", 'a'+s.Col, 8-s.Row)
}

// ParseSquare translates a label such as "e2" into a Square. Anything outside
// files a-h and ranks 1-8 is rejected with ErrInvalidSquare.
func ParseSquare(label string) (Square, error) {
	if len(label) != 2 {
		return Square{}, fmt.Errorf("%w: %q", ErrInvalidSquare, label)
	}
	file, rank := label[0], label[1]
	if file < 'a' || file > 'h' || rank < '1' || rank > '8' {
		return Square{}, fmt.Errorf("%w: %q", ErrInvalidSquare, label)
	}
	return Square{Row: 8 - int(rank-'0'), Col: int(file - 'a')}, nil
}

// MustParseSquare is ParseSquare for labels known to be valid.
func MustParseSquare(label string) Square {
	sq, err := ParseSquare(label)
	if err != nil {
		panic(err)
	}
	return sq
}
