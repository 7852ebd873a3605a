// Package store persists games in BadgerDB so they survive a restart.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/dgraph-io/badger/v4"
)

const gamePrefix = "game:"

var ErrNotFound = errors.New("game not found in store")

// Record is the persisted form of a game. The position is kept as FEN.
type Record struct {
	ID        string               `json:"id"`
	FEN       string               `json:"fen"`
	Status    model.Status         `json:"status"`
	Winner    model.Color          `json:"winner,omitempty"`
	Players   model.Players        `json:"players"`
	History   []model.Move         `json:"history"`
	Captured  model.CapturedPieces `json:"captured"`
	LastMove  *model.SimpleMove    `json:"lastMove"`
	WhiteTime time.Duration        `json:"whiteTime"`
	BlackTime time.Duration        `json:"blackTime"`
	UpdatedAt time.Time            `json:"updatedAt"`
}

type Options struct {
	// Dir is the database directory. Ignored when InMemory is set.
	Dir      string
	InMemory bool
}

// Store wraps BadgerDB for persistent storage
type Store struct {
	db *badger.DB
}

func Open(o Options) (*Store, error) {
	opts := badger.DefaultOptions(o.Dir)
	if o.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func gameKey(id string) []byte {
	return []byte(gamePrefix + id)
}

func (s *Store) SaveGame(rec Record) error {
	if rec.ID == "" {
		return errors.New("save game: empty id")
	}
	rec.UpdatedAt = time.Now()

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(gameKey(rec.ID), data)
	})
}

func (s *Store) LoadGame(id string) (Record, error) {
	var rec Record
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gameKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	return rec, err
}

// ListGames returns every stored game in key order.
func (s *Store) ListGames() ([]Record, error) {
	records := []Record{}
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(gamePrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var rec Record
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return err
			}
			records = append(records, rec)
		}
		return nil
	})
	return records, err
}

func (s *Store) DeleteGame(id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(gameKey(id))
	})
}
