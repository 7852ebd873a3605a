package model

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/benbeisheim/chessrules-backend/internal/ws"
)

func newSeatedGame(t *testing.T) *Game {
	t.Helper()
	g := NewGame("g1", 10*time.Minute)
	if color, err := g.AddPlayer(Player{ID: "alice", Name: "alice"}); err != nil || color != White {
		t.Fatalf("add alice: color %s, err %v", color, err)
	}
	if color, err := g.AddPlayer(Player{ID: "bob", Name: "bob"}); err != nil || color != Black {
		t.Fatalf("add bob: color %s, err %v", color, err)
	}
	return g
}

func move(from, to string) MoveRequest {
	return MoveRequest{From: sq(from), To: sq(to)}
}

func TestAddPlayer(t *testing.T) {
	g := newSeatedGame(t)

	if _, err := g.AddPlayer(Player{ID: "carol"}); !errors.Is(err, ErrGameFull) {
		t.Fatalf("expected ErrGameFull, got %v", err)
	}
	color, err := g.AddPlayer(Player{ID: "bob"})
	if err != nil || color != Black {
		t.Fatalf("rejoin: color %s, err %v", color, err)
	}
	if !g.IsPlayerInGame("alice") || g.IsPlayerInGame("carol") {
		t.Fatalf("unexpected membership")
	}
	if g.CanSpectate() {
		t.Fatalf("full game should not accept spectators")
	}
}

func TestNewPlayerGetsName(t *testing.T) {
	p := NewPlayer("id-1")
	if p.ID != "id-1" || p.Name == "" {
		t.Fatalf("unexpected player %+v", p)
	}
}

func TestGameMakeMoveErrors(t *testing.T) {
	tests := []struct {
		name   string
		player string
		move   MoveRequest
		want   error
	}{
		{"wrong player", "bob", move("e2", "e4"), ErrNotYourTurn},
		{"stranger", "carol", move("e2", "e4"), ErrNotYourTurn},
		{"empty square", "alice", move("e4", "e5"), ErrNoPiece},
		{"opponent piece", "alice", move("e7", "e5"), ErrNotYourTurn},
		{"illegal", "alice", move("e2", "e5"), ErrIllegalMove},
		{"out of bounds", "alice", MoveRequest{From: sq("e2"), To: Square{Row: 9, Col: 4}}, ErrInvalidSquare},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newSeatedGame(t)
			if err := g.MakeMove(tt.player, tt.move); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			st := g.State()
			if st.ToMove != White || len(st.MoveHistory) != 0 {
				t.Fatalf("rejected move changed state: %+v", st)
			}
		})
	}
}

func TestGameFoolsMate(t *testing.T) {
	g := newSeatedGame(t)
	plies := []struct {
		player   string
		from, to string
	}{
		{"alice", "f2", "f3"},
		{"bob", "e7", "e5"},
		{"alice", "g2", "g4"},
		{"bob", "d8", "h4"},
	}
	for _, p := range plies {
		if err := g.MakeMove(p.player, move(p.from, p.to)); err != nil {
			t.Fatalf("%s %s%s: %v", p.player, p.from, p.to, err)
		}
	}

	st := g.State()
	if st.Status != StatusCheckmate || !st.IsCheck {
		t.Fatalf("expected checkmate, got %s (check %v)", st.Status, st.IsCheck)
	}
	if st.Winner != Black {
		t.Fatalf("expected black to win, got %q", st.Winner)
	}
	if len(st.MoveHistory) != 2 || st.MoveHistory[1].BlackPly.Notation != "d8h4" {
		t.Fatalf("unexpected history %+v", st.MoveHistory)
	}
	if st.LastMove == nil || st.LastMove.To != sq("h4") {
		t.Fatalf("unexpected last move %+v", st.LastMove)
	}
	if err := g.MakeMove("alice", move("a2", "a3")); !errors.Is(err, ErrGameOver) {
		t.Fatalf("expected ErrGameOver, got %v", err)
	}
	if moves := g.LegalMoves(sq("a2")); len(moves) != 0 {
		t.Fatalf("expected no moves after mate, got %v", labels(moves))
	}
}

func TestGameRecordsCaptures(t *testing.T) {
	g := newSeatedGame(t)
	for _, m := range []struct{ p, from, to string }{
		{"alice", "e2", "e4"},
		{"bob", "d7", "d5"},
		{"alice", "e4", "d5"},
	} {
		if err := g.MakeMove(m.p, move(m.from, m.to)); err != nil {
			t.Fatalf("%s%s: %v", m.from, m.to, err)
		}
	}
	st := g.State()
	if len(st.CapturedPieces.White) != 1 || st.CapturedPieces.White[0].Type != Pawn {
		t.Fatalf("expected white to have captured a pawn, got %+v", st.CapturedPieces)
	}
	taken := st.MoveHistory[1].WhitePly.CapturedPiece
	if taken == nil || taken.Color != Black {
		t.Fatalf("expected captured black piece on the ply, got %+v", taken)
	}
}

func TestGameStateIsACopy(t *testing.T) {
	g := newSeatedGame(t)
	st := g.State()
	st.Board[6][4].HasMoved = true
	st.Board[6][4] = nil

	again := g.State()
	if p := again.Board[6][4]; p == nil || p.HasMoved {
		t.Fatalf("mutating a state copy leaked into the game: %+v", p)
	}
}

func TestGameTimeout(t *testing.T) {
	g := newSeatedGame(t)
	if err := g.MakeMove("alice", move("e2", "e4")); err != nil {
		t.Fatalf("e2e4: %v", err)
	}

	start := time.Now()
	g.blackClock.mu.Lock()
	g.blackClock.lastStarted = start
	g.blackClock.now = func() time.Time { return start.Add(11 * time.Minute) }
	g.blackClock.mu.Unlock()

	if err := g.MakeMove("bob", move("e7", "e5")); !errors.Is(err, ErrGameOver) {
		t.Fatalf("expected ErrGameOver, got %v", err)
	}
	st := g.State()
	if st.Status != StatusTimeout || st.Winner != White {
		t.Fatalf("expected white to win on time, got %s/%s", st.Status, st.Winner)
	}
	if g.State().Board[1][4] == nil {
		t.Fatalf("flagged move was applied")
	}
}

func TestGameFromStalematePosition(t *testing.T) {
	b := newPosition(Black, map[string]*Piece{
		"h8": NewPiece(King, Black),
		"f7": NewPiece(Queen, White),
		"g6": NewPiece(King, White),
	})
	g := NewGameFromBoard("s", b, time.Minute)
	if got := g.Status(); got != StatusStalemate {
		t.Fatalf("expected stalemate, got %s", got)
	}
}

func TestSnapshotRestore(t *testing.T) {
	g := newSeatedGame(t)
	if err := g.MakeMove("alice", move("e2", "e4")); err != nil {
		t.Fatalf("e2e4: %v", err)
	}

	restored := RestoreGame(g.Snapshot())
	st := restored.State()
	if st.ToMove != Black {
		t.Fatalf("expected black to move, got %s", st.ToMove)
	}
	if st.Players.White.ID != "alice" || st.Players.Black.ID != "bob" {
		t.Fatalf("players lost: %+v", st.Players)
	}
	if len(st.MoveHistory) != 1 {
		t.Fatalf("history lost: %+v", st.MoveHistory)
	}
	if err := restored.MakeMove("bob", move("e7", "e5")); err != nil {
		t.Fatalf("e7e5 after restore: %v", err)
	}
	if g.State().ToMove != Black {
		t.Fatalf("restored game shares state with the original")
	}
}

func TestClock(t *testing.T) {
	now := time.Unix(0, 0)
	c := NewClock(time.Minute)
	c.now = func() time.Time { return now }

	c.Start()
	now = now.Add(20 * time.Second)
	if got := c.TimeLeft(); got != 40*time.Second {
		t.Fatalf("running clock: got %s", got)
	}
	if got := c.Stop(); got != 40*time.Second {
		t.Fatalf("stopped clock: got %s", got)
	}
	now = now.Add(time.Hour)
	if c.Expired() {
		t.Fatalf("stopped clock kept running")
	}
}

func TestQueue(t *testing.T) {
	q := NewQueue()
	if _, _, ok := q.NextPair(); ok {
		t.Fatalf("empty queue produced a pair")
	}
	for _, id := range []string{"a", "b", "c"} {
		if err := q.AddPlayer(Player{ID: id}); err != nil {
			t.Fatalf("add %s: %v", id, err)
		}
	}
	if err := q.AddPlayer(Player{ID: "a"}); !errors.Is(err, ErrAlreadyQueued) {
		t.Fatalf("expected ErrAlreadyQueued, got %v", err)
	}
	p1, p2, ok := q.NextPair()
	if !ok || p1.ID != "a" || p2.ID != "b" {
		t.Fatalf("unexpected pair %s %s", p1.ID, p2.ID)
	}
	if !q.Remove("c") || q.Size() != 0 {
		t.Fatalf("expected c removed")
	}
}

type recordingConn struct {
	seqs []uint64
}

func (r *recordingConn) WriteJSON(v any) error {
	msg := v.(ws.Message)
	var st GameState
	if err := json.Unmarshal(msg.Payload, &st); err != nil {
		return err
	}
	r.seqs = append(r.seqs, st.Seq)
	return nil
}

func TestBroadcastSequence(t *testing.T) {
	g := newSeatedGame(t)
	if seq := g.State().Seq; seq != 0 {
		t.Fatalf("expected seq 0 before any move, got %d", seq)
	}
	if err := g.MakeMove("alice", move("e2", "e4")); err != nil {
		t.Fatalf("e2e4: %v", err)
	}
	if err := g.MakeMove("bob", move("e7", "e5")); err != nil {
		t.Fatalf("e7e5: %v", err)
	}
	if seq := g.State().Seq; seq != 2 {
		t.Fatalf("expected seq 2 after two moves, got %d", seq)
	}
}

func TestSendSkipsStaleStates(t *testing.T) {
	gc := NewGameConnections()
	conn := &recordingConn{}
	if !gc.add("alice", conn) {
		t.Fatalf("add alice")
	}
	if gc.add("alice", &recordingConn{}) {
		t.Fatalf("second connection for alice was accepted")
	}

	gc.send(GameState{ID: "g", Seq: 2})
	gc.send(GameState{ID: "g", Seq: 1})
	gc.send(GameState{ID: "g", Seq: 3})

	if len(conn.seqs) != 2 || conn.seqs[0] != 2 || conn.seqs[1] != 3 {
		t.Fatalf("expected states 2 then 3, got %v", conn.seqs)
	}
}

func TestRestoreIgnoresUnknownWinner(t *testing.T) {
	g := newSeatedGame(t)
	snap := g.Snapshot()
	snap.Winner = "purple"
	if w := RestoreGame(snap).State().Winner; w != "" {
		t.Fatalf("expected no winner, got %q", w)
	}

	snap.Winner = Black
	if w := RestoreGame(snap).State().Winner; w != Black {
		t.Fatalf("expected black winner, got %q", w)
	}
}
