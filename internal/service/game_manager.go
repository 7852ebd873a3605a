// service/game_manager.go
package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/benbeisheim/chessrules-backend/internal/fen"
	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/store"
	"github.com/benbeisheim/chessrules-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameExists   = errors.New("game already exists")
)

// GameStore is the persistence the manager needs. *store.Store satisfies it.
type GameStore interface {
	SaveGame(rec store.Record) error
	LoadGame(id string) (store.Record, error)
	ListGames() ([]store.Record, error)
}

type ManagerConfig struct {
	Store         GameStore // optional
	Clock         time.Duration
	MatchInterval time.Duration
}

type GameManager struct {
	games            map[string]*model.Game
	queue            *model.Queue
	matchingChannels map[string]chan string
	store            GameStore
	clock            time.Duration
	mu               sync.RWMutex
	stop             chan struct{}
	stopOnce         sync.Once
}

func NewGameManager(cfg ManagerConfig) *GameManager {
	if cfg.Clock <= 0 {
		cfg.Clock = 10 * time.Minute
	}
	if cfg.MatchInterval <= 0 {
		cfg.MatchInterval = time.Second
	}
	gm := &GameManager{
		games:            make(map[string]*model.Game),
		queue:            model.NewQueue(),
		matchingChannels: make(map[string]chan string),
		store:            cfg.Store,
		clock:            cfg.Clock,
		stop:             make(chan struct{}),
	}

	go gm.processMatchmaking(cfg.MatchInterval)

	return gm
}

// Close stops the matchmaking processor.
func (gm *GameManager) Close() {
	gm.stopOnce.Do(func() { close(gm.stop) })
}

// Restore loads every persisted game into memory.
func (gm *GameManager) Restore() (int, error) {
	if gm.store == nil {
		return 0, nil
	}
	records, err := gm.store.ListGames()
	if err != nil {
		return 0, fmt.Errorf("list games: %w", err)
	}

	gm.mu.Lock()
	defer gm.mu.Unlock()
	restored := 0
	for _, rec := range records {
		game, err := gameFromRecord(rec)
		if err != nil {
			log.Printf("skipping stored game %s: %v", rec.ID, err)
			continue
		}
		gm.games[rec.ID] = game
		restored++
	}
	return restored, nil
}

func (gm *GameManager) RegisterMatchmakingChannel(playerID string, ch chan string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	// Remove any previous channel first so nothing else writes to it.
	if existingCh, exists := gm.matchingChannels[playerID]; exists {
		delete(gm.matchingChannels, playerID)
		close(existingCh)
	}
	gm.matchingChannels[playerID] = ch
	return nil
}

// UnregisterMatchmakingChannel drops ch and dequeues the player, unless ch
// was already replaced by a newer connection.
func (gm *GameManager) UnregisterMatchmakingChannel(playerID string, ch chan string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	// The creator of the channel is responsible for closing it.
	if current, ok := gm.matchingChannels[playerID]; ok && current != ch {
		return
	}
	delete(gm.matchingChannels, playerID)
	gm.queue.Remove(playerID)
}

func (gm *GameManager) processMatchmaking(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-gm.stop:
			return
		case <-ticker.C:
			gm.matchPlayers()
		}
	}
}

// matchPlayers pairs queued players until fewer than two remain.
func (gm *GameManager) matchPlayers() {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	for {
		player1, player2, ok := gm.queue.NextPair()
		if !ok {
			return
		}

		gameID := uuid.New().String()
		game := model.NewGame(gameID, gm.clock)
		p1Color, err := game.AddPlayer(player1)
		if err != nil {
			log.Printf("matchmaking: add %s to %s: %v", player1.ID, gameID, err)
			continue
		}
		p2Color, err := game.AddPlayer(player2)
		if err != nil {
			log.Printf("matchmaking: add %s to %s: %v", player2.ID, gameID, err)
			continue
		}
		gm.games[gameID] = game
		gm.persist(game)

		notified1 := gm.notifyMatch(player1.ID, ws.MatchFoundEvent{GameID: gameID, Color: string(p1Color)})
		notified2 := gm.notifyMatch(player2.ID, ws.MatchFoundEvent{GameID: gameID, Color: string(p2Color)})
		if !notified1 || !notified2 {
			log.Printf("matchmaking: failed to notify all players of game %s", gameID)
		}
	}
}

// notifyMatch sends the event and retires the player's channel. gm.mu must be
// held.
func (gm *GameManager) notifyMatch(playerID string, event ws.MatchFoundEvent) bool {
	ch, ok := gm.matchingChannels[playerID]
	if !ok {
		return false
	}
	msg, err := ws.NewMessage(ws.MessageTypeMatchFound, event)
	if err != nil {
		log.Printf("matchmaking: marshal event: %v", err)
		return false
	}
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("matchmaking: marshal message: %v", err)
		return false
	}

	select {
	case ch <- string(data):
		delete(gm.matchingChannels, playerID)
		close(ch)
		return true
	default:
		return false
	}
}

func (gm *GameManager) CreateGame(gameID string, board *model.Board) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return ErrGameExists
	}
	if board == nil {
		board = model.NewStandardBoard()
	}
	game := model.NewGameFromBoard(gameID, board, gm.clock)
	gm.games[gameID] = game
	gm.persist(game)
	return nil
}

// GetGame returns the game from memory, falling back to the store for games
// persisted by another process or dropped from memory.
func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	game, exists := gm.games[gameID]
	gm.mu.RUnlock()
	if exists {
		return game, nil
	}
	if gm.store == nil {
		return nil, ErrGameNotFound
	}

	rec, err := gm.store.LoadGame(gameID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load game %s: %w", gameID, err)
	}
	loaded, err := gameFromRecord(rec)
	if err != nil {
		return nil, fmt.Errorf("load game %s: %w", gameID, err)
	}

	gm.mu.Lock()
	defer gm.mu.Unlock()
	if game, exists := gm.games[gameID]; exists {
		return game, nil
	}
	gm.games[gameID] = loaded
	return loaded, nil
}

func (gm *GameManager) AddPlayerToGame(gameID string, playerID string) (model.Color, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return "", err
	}
	color, err := game.AddPlayer(model.NewPlayer(playerID))
	if err != nil {
		return "", err
	}
	gm.persist(game)
	return color, nil
}

func (gm *GameManager) JoinMatchmaking(playerID string) error {
	return gm.queue.AddPlayer(model.NewPlayer(playerID))
}

func (gm *GameManager) GetGameState(gameID string) (model.GameState, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return game.State(), nil
}

func (gm *GameManager) LegalMoves(gameID string, from model.Square) ([]model.Square, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return game.LegalMoves(from), nil
}

// MakeMove plays the move and persists the game. Games are locked
// individually, so moves in different games do not wait on each other.
func (gm *GameManager) MakeMove(gameID string, playerID string, move model.MoveRequest) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	moveErr := game.MakeMove(playerID, move)
	if moveErr == nil || game.Status() == model.StatusTimeout {
		gm.persist(game)
	}
	return moveErr
}

func (gm *GameManager) RegisterConnection(gameID string, playerID string, conn *websocket.Conn) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.RegisterConnection(playerID, conn)
}

func (gm *GameManager) UnregisterConnection(gameID string, playerID string) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return
	}
	game.UnregisterConnection(playerID)
}

// persist saves the game if a store is configured. Failures are logged; the
// in-memory game stays authoritative.
func (gm *GameManager) persist(game *model.Game) {
	if gm.store == nil {
		return
	}
	if err := gm.store.SaveGame(recordFromGame(game)); err != nil {
		log.Printf("persist game %s: %v", game.ID, err)
	}
}

func recordFromGame(game *model.Game) store.Record {
	snap := game.Snapshot()
	return store.Record{
		ID:        snap.ID,
		FEN:       fen.Encode(snap.Board),
		Status:    snap.Status,
		Winner:    snap.Winner,
		Players:   snap.Players,
		History:   snap.History,
		Captured:  snap.Captured,
		LastMove:  snap.LastMove,
		WhiteTime: snap.WhiteTime,
		BlackTime: snap.BlackTime,
	}
}

func gameFromRecord(rec store.Record) (*model.Game, error) {
	board, err := fen.Decode(rec.FEN)
	if err != nil {
		return nil, err
	}
	return model.RestoreGame(model.Snapshot{
		ID:        rec.ID,
		Board:     board,
		Players:   rec.Players,
		History:   rec.History,
		Captured:  rec.Captured,
		LastMove:  rec.LastMove,
		Status:    rec.Status,
		Winner:    rec.Winner,
		WhiteTime: rec.WhiteTime,
		BlackTime: rec.BlackTime,
	}), nil
}
