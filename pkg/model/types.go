package model

import "time"

type GameState string

const (
	StateWaiting GameState = "WAITING"
	StatePlaying GameState = "PLAYING"
	StateEnded   GameState = "ENDED"
)

type Player struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
	Turn  bool   `json:"turn,omitempty"`
}

type Game struct {
	ID      int       `json:"id"`
	Type    string    `json:"type"`
	State   GameState `json:"state"`
	Players []Player  `json:"players,omitempty"`
	Created time.Time `json:"created"`
	Version int       `json:"version"`
}

// Terminal reports whether no further moves can be made.
func (g Game) Terminal() bool { return g.State == StateEnded }

type MoveStatus string

const (
	MoveUnverified MoveStatus = "UNVERIFIED"
	MoveVerified   MoveStatus = "VERIFIED"
	MoveMoved      MoveStatus = "MOVED"
	MoveInvalid    MoveStatus = "INVALID"
	MoveEvaluated  MoveStatus = "EVALUATED"
)

type Move struct {
	ID       int        `json:"id"`
	GameID   int        `json:"game_id"`
	Player   string     `json:"player"`
	Position string     `json:"position"`
	Status   MoveStatus `json:"status"`
}

// Same reports whether two moves place the same player at the same position,
// ignoring bookkeeping fields.
func (m Move) Same(o Move) bool {
	return m.Player == o.Player && m.Position == o.Position
}

type SuggestionStatus string

const (
	SuggestionUnevaluated SuggestionStatus = "UNEVALUATED"
	SuggestionEvaluated   SuggestionStatus = "EVALUATED"
	SuggestionAccept      SuggestionStatus = "ACCEPT"
	SuggestionReject      SuggestionStatus = "REJECT"
)

// Suggestion is a move proposed by one participant to another.
type Suggestion struct {
	Move      Move             `json:"move"`
	Suggestor string           `json:"suggestor"`
	Status    SuggestionStatus `json:"status"`
}
