package model

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/benbeisheim/chessrules-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
)

// StatusTimeout ends a game whose mover ran out of time. The board itself
// never produces it.
const StatusTimeout Status = "timeout"

// stateWriter is the part of *websocket.Conn used to push states.
type stateWriter interface {
	WriteJSON(v any) error
}

// gameConn remembers the newest state sequence written to a connection.
type gameConn struct {
	conn stateWriter
	seq  uint64
}

// The connections for a specific game
type GameConnections struct {
	connections map[string]*gameConn // playerID -> connection
	mu          sync.Mutex
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]*gameConn),
	}
}

func (gc *GameConnections) add(playerID string, conn stateWriter) bool {
	gc.mu.Lock()
	defer gc.mu.Unlock()

	if _, exists := gc.connections[playerID]; exists {
		return false
	}
	gc.connections[playerID] = &gameConn{conn: conn}
	return true
}

// Game is one session around a Board. Every board access happens under mu,
// including the read-only queries, because legality checks mutate the grid
// while they speculate.
type Game struct {
	ID          string
	mu          sync.Mutex
	board       *Board
	players     Players
	history     []Move
	captured    CapturedPieces
	lastMove    *SimpleMove
	status      Status
	winner      Color
	whiteClock  *Clock
	blackClock  *Clock
	seq         uint64 // bumped on every broadcast
	connections *GameConnections
}

type GameState struct {
	ID             string         `json:"id"`
	Seq            uint64         `json:"seq"`
	Board          [8][8]*Piece   `json:"board"`
	ToMove         Color          `json:"toMove"`
	MoveHistory    []Move         `json:"moveHistory"`
	CapturedPieces CapturedPieces `json:"capturedPieces"`
	IsCheck        bool           `json:"isCheck"`
	Status         Status         `json:"status"`
	Winner         Color          `json:"winner,omitempty"`
	Players        Players        `json:"players"`
	LastMove       *SimpleMove    `json:"lastMove"`
}

// CapturedPieces lists the pieces each side has taken.
type CapturedPieces struct {
	White []Piece `json:"white"`
	Black []Piece `json:"black"`
}

func newCapturedPieces() CapturedPieces {
	return CapturedPieces{
		White: make([]Piece, 0),
		Black: make([]Piece, 0),
	}
}

// NewGame starts a game from the standard position.
func NewGame(id string, clock time.Duration) *Game {
	return NewGameFromBoard(id, NewStandardBoard(), clock)
}

// NewGameFromBoard starts a game from an arbitrary position. The game takes
// ownership of board.
func NewGameFromBoard(id string, board *Board, clock time.Duration) *Game {
	g := &Game{
		ID:          id,
		board:       board,
		history:     make([]Move, 0),
		captured:    newCapturedPieces(),
		whiteClock:  NewClock(clock),
		blackClock:  NewClock(clock),
		connections: NewGameConnections(),
	}
	g.players.White.Color = White
	g.players.Black.Color = Black
	g.status = board.Status(board.Turn())
	g.syncClocks()
	return g
}

// AddPlayer seats a player, white first. A player already seated gets the
// same color back.
func (g *Game) AddPlayer(player Player) (Color, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if color, ok := g.players.colorOf(player.ID); ok {
		return color, nil
	}
	for _, color := range []Color{White, Black} {
		seat := g.players.seat(color)
		if seat.ID == "" {
			seat.ID = player.ID
			seat.Name = player.Name
			log.Printf("game %s: %s (%s) seated as %s", g.ID, player.ID, player.Name, color)
			return color, nil
		}
	}
	return "", ErrGameFull
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, ok := g.players.colorOf(playerID)
	return ok
}

// CanSpectate reports whether a connection that is not seated may still
// attach. Spectators are only allowed while a seat is open.
func (g *Game) CanSpectate() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.canSpectate()
}

func (g *Game) canSpectate() bool {
	return g.players.White.ID == "" || g.players.Black.ID == ""
}

// MakeMove plays a move for playerID. The board is unchanged when an error
// is returned; a mover found out of time loses the game instead.
func (g *Game) MakeMove(playerID string, move MoveRequest) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.status.Terminal() || g.status == StatusTimeout {
		return ErrGameOver
	}
	if !move.From.InBounds() || !move.To.InBounds() {
		return fmt.Errorf("%w: out of bounds", ErrInvalidSquare)
	}
	mover := g.board.Turn()
	if color, ok := g.players.colorOf(playerID); !ok || color != mover {
		return ErrNotYourTurn
	}
	piece := g.board.At(move.From)
	if piece == nil {
		return ErrNoPiece
	}
	if piece.Color != mover {
		return ErrNotYourTurn
	}
	if !g.board.IsValidMove(move.From, move.To) {
		return ErrIllegalMove
	}

	if g.clockOf(mover).Stop() <= 0 {
		g.status = StatusTimeout
		g.winner = mover.Opposite()
		g.syncClocks()
		g.broadcast()
		return ErrGameOver
	}

	ply := Ply{
		Piece:    *piece,
		From:     move.From,
		To:       move.To,
		Notation: coordinateNotation(move.From, move.To),
	}
	if target := g.board.At(move.To); target != nil {
		captured := *target
		ply.CapturedPiece = &captured
	}

	if !g.board.MakeMove(move.From, move.To) {
		// IsValidMove just succeeded under the same lock.
		return ErrIllegalMove
	}

	g.record(mover, ply)
	g.clockOf(mover.Opposite()).Start()

	toMove := g.board.Turn()
	g.status = g.board.Status(toMove)
	if g.status == StatusCheckmate {
		g.winner = mover
	}
	g.syncClocks()
	g.broadcast()
	return nil
}

func (g *Game) record(mover Color, ply Ply) {
	if ply.CapturedPiece != nil {
		switch mover {
		case White:
			g.captured.White = append(g.captured.White, *ply.CapturedPiece)
		case Black:
			g.captured.Black = append(g.captured.Black, *ply.CapturedPiece)
		}
	}

	last := len(g.history) - 1
	if mover == White || last < 0 || g.history[last].BlackPly != nil {
		entry := Move{}
		if mover == White {
			entry.WhitePly = &ply
		} else {
			entry.BlackPly = &ply
		}
		g.history = append(g.history, entry)
	} else {
		g.history[last].BlackPly = &ply
	}
	g.lastMove = &SimpleMove{From: ply.From, To: ply.To}
}

func (g *Game) clockOf(c Color) *Clock {
	if c == White {
		return g.whiteClock
	}
	return g.blackClock
}

func (g *Game) syncClocks() {
	g.players.White.TimeLeft = g.whiteClock.deciseconds()
	g.players.Black.TimeLeft = g.blackClock.deciseconds()
}

// LegalMoves returns the legal destinations of the piece on from.
func (g *Game) LegalMoves(from Square) []Square {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.status.Terminal() || g.status == StatusTimeout {
		return []Square{}
	}
	return g.board.LegalMoves(from)
}

func (g *Game) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.status
}

func (g *Game) State() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.state()
}

// state builds a deep copy, so the result stays valid after the lock is
// released.
func (g *Game) state() GameState {
	g.syncClocks()
	history := make([]Move, len(g.history))
	for i, m := range g.history {
		history[i] = Move{WhitePly: copyPly(m.WhitePly), BlackPly: copyPly(m.BlackPly)}
	}
	var lastMove *SimpleMove
	if g.lastMove != nil {
		lm := *g.lastMove
		lastMove = &lm
	}
	return GameState{
		ID:          g.ID,
		Seq:         g.seq,
		Board:       g.board.Grid(),
		ToMove:      g.board.Turn(),
		MoveHistory: history,
		CapturedPieces: CapturedPieces{
			White: append(make([]Piece, 0, len(g.captured.White)), g.captured.White...),
			Black: append(make([]Piece, 0, len(g.captured.Black)), g.captured.Black...),
		},
		IsCheck:  g.status == StatusCheck || g.status == StatusCheckmate,
		Status:   g.status,
		Winner:   g.winner,
		Players:  g.players,
		LastMove: lastMove,
	}
}

func copyPly(p *Ply) *Ply {
	if p == nil {
		return nil
	}
	cp := *p
	if p.CapturedPiece != nil {
		captured := *p.CapturedPiece
		cp.CapturedPiece = &captured
	}
	return &cp
}

// Snapshot is everything needed to rebuild a game after a restart.
type Snapshot struct {
	ID        string
	Board     *Board
	Players   Players
	History   []Move
	Captured  CapturedPieces
	LastMove  *SimpleMove
	Status    Status
	Winner    Color
	WhiteTime time.Duration
	BlackTime time.Duration
}

func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	st := g.state()
	return Snapshot{
		ID:        g.ID,
		Board:     g.board.Clone(),
		Players:   st.Players,
		History:   st.MoveHistory,
		Captured:  st.CapturedPieces,
		LastMove:  st.LastMove,
		Status:    g.status,
		Winner:    g.winner,
		WhiteTime: g.whiteClock.TimeLeft(),
		BlackTime: g.blackClock.TimeLeft(),
	}
}

// RestoreGame rebuilds a game from a snapshot. Clocks come back stopped.
func RestoreGame(s Snapshot) *Game {
	g := NewGameFromBoard(s.ID, s.Board, s.WhiteTime)
	g.blackClock = NewClock(s.BlackTime)
	g.players = s.Players
	g.players.White.Color = White
	g.players.Black.Color = Black
	if s.History != nil {
		g.history = s.History
	}
	if s.Captured.White != nil {
		g.captured.White = s.Captured.White
	}
	if s.Captured.Black != nil {
		g.captured.Black = s.Captured.Black
	}
	g.lastMove = s.LastMove
	if s.Status == StatusTimeout {
		g.status = s.Status
	}
	if s.Winner.Valid() {
		g.winner = s.Winner
	}
	g.syncClocks()
	return g
}

func (g *Game) RegisterConnection(playerID string, conn *websocket.Conn) error {
	g.mu.Lock()
	isAuthorized := g.players.White.ID == playerID || g.players.Black.ID == playerID || g.canSpectate()
	state := g.state()
	g.mu.Unlock()

	if !isAuthorized {
		return ErrNotInGame
	}

	if !g.connections.add(playerID, conn) {
		// If we already have a healthy connection, keep it and reject the new one
		conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "Connection already exists"),
		)
		conn.Close()
		return nil
	}
	log.Printf("game %s: registered connection for player %s", g.ID, playerID)

	go g.connections.send(state)
	return nil
}

func (g *Game) UnregisterConnection(playerID string) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	if _, exists := g.connections.connections[playerID]; exists {
		log.Printf("game %s: unregistering connection for player %s", g.ID, playerID)
		delete(g.connections.connections, playerID)
	}
}

// broadcast must be called with g.mu held; it copies the state and sends it
// in the background.
func (g *Game) broadcast() {
	g.seq++
	state := g.state()
	go g.connections.send(state)
}

// send writes state to every connection. Writes are serialized by mu since a
// websocket connection supports a single concurrent writer. A state older
// than the last one a connection received is skipped.
func (gc *GameConnections) send(state GameState) {
	msg, err := ws.NewMessage(ws.MessageTypeGameState, state)
	if err != nil {
		log.Printf("game %s: marshal state: %v", state.ID, err)
		return
	}

	gc.mu.Lock()
	defer gc.mu.Unlock()
	for playerID, c := range gc.connections {
		if state.Seq < c.seq {
			continue
		}
		if err := c.conn.WriteJSON(msg); err != nil {
			log.Printf("game %s: send state to %s: %v", state.ID, playerID, err)
			delete(gc.connections, playerID)
			continue
		}
		c.seq = state.Seq
	}
}
