package runner

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lzyats/multigame-notify-go/pkg/model"
	"github.com/lzyats/multigame-notify-go/pkg/notify"
)

// Occurrence kinds accepted on the queue.
const (
	KindCreate       = "create"
	KindJoin         = "join"
	KindDestroy      = "destroy"
	KindBegin        = "begin"
	KindPlayerChange = "player_change"
	KindMoveComplete = "move_complete"
	KindStateChange  = "state_change"
	KindGameChange   = "game_change"
	KindEnd          = "end"
)

var kinds = map[string]bool{
	KindCreate: true, KindJoin: true, KindDestroy: true,
	KindBegin: true, KindPlayerChange: true, KindMoveComplete: true,
	KindStateChange: true, KindGameChange: true, KindEnd: true,
}

// Occurrence is something that happened to a game, as queued by the game
// server for the notifier.
type Occurrence struct {
	Kind    string      `json:"kind"`
	Game    *model.Game `json:"game"`
	Move    *model.Move `json:"move,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
}

func EncodeOccurrence(o Occurrence) (string, error) {
	if err := o.validate(); err != nil {
		return "", err
	}
	b, err := json.Marshal(o)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func DecodeOccurrence(payload string) (Occurrence, error) {
	var o Occurrence
	if err := json.Unmarshal([]byte(payload), &o); err != nil {
		return Occurrence{}, err
	}
	o.Kind = strings.ToLower(strings.TrimSpace(o.Kind))
	if err := o.validate(); err != nil {
		return Occurrence{}, err
	}
	return o, nil
}

func (o Occurrence) validate() error {
	if !kinds[o.Kind] {
		return fmt.Errorf("occurrence: unknown kind %q: %w", o.Kind, notify.ErrInvalidArgument)
	}
	if o.Game == nil {
		return fmt.Errorf("occurrence %s: missing game: %w", o.Kind, notify.ErrInvalidArgument)
	}
	if o.Kind == KindMoveComplete && o.Move == nil {
		return fmt.Errorf("occurrence %s: missing move: %w", o.Kind, notify.ErrInvalidArgument)
	}
	return nil
}
