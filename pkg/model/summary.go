package model

import "time"

// Summary is the lightweight view of a game sent to the lobby audience.
type Summary struct {
	GameID  int       `json:"game_id"`
	Type    string    `json:"type"`
	State   GameState `json:"state"`
	Players []string  `json:"players,omitempty"`
	Created time.Time `json:"created"`
}

func Summarize(g Game) Summary {
	s := Summary{
		GameID:  g.ID,
		Type:    g.Type,
		State:   g.State,
		Created: g.Created,
	}
	if len(g.Players) > 0 {
		s.Players = make([]string, 0, len(g.Players))
		for _, p := range g.Players {
			s.Players = append(s.Players, p.Name)
		}
	}
	return s
}
