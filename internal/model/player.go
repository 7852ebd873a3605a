package model

import (
	petname "github.com/dustinkirkland/golang-petname"
)

type Player struct {
	ID   string
	Name string
}

// NewPlayer gives the player a generated display name such as "wise-otter".
func NewPlayer(id string) Player {
	return Player{ID: id, Name: petname.Generate(2, "-")}
}

type ClientPlayer struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Color    Color  `json:"color"`
	TimeLeft int    `json:"timeLeft"`
}

type Players struct {
	White ClientPlayer `json:"white"`
	Black ClientPlayer `json:"black"`
}

func (p *Players) seat(c Color) *ClientPlayer {
	if c == White {
		return &p.White
	}
	return &p.Black
}

// colorOf returns the seat a player occupies.
func (p *Players) colorOf(playerID string) (Color, bool) {
	switch {
	case playerID == "":
		return "", false
	case p.White.ID == playerID:
		return White, true
	case p.Black.ID == playerID:
		return Black, true
	}
	return "", false
}
