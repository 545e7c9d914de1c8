package event

import "fmt"

// Family separates in-game events from lobby notifications.
// A message is tagged with exactly one family.
type Family int

const (
	FamilyUnknown Family = iota
	FamilyGame
	FamilyNotification
)

func (f Family) String() string {
	switch f {
	case FamilyGame:
		return "GAME"
	case FamilyNotification:
		return "NOTIFICATION"
	default:
		return "UNKNOWN"
	}
}

// GameEvent is a game-lifecycle fact addressed to in-game subscribers.
type GameEvent string

const (
	GameCreate       GameEvent = "CREATE"
	GamePlayerJoin   GameEvent = "PLAYER_JOIN"
	GameDestroy      GameEvent = "DESTROY"
	GameBegin        GameEvent = "BEGIN"
	GamePlayerChange GameEvent = "PLAYER_CHANGE"
	GameMoveComplete GameEvent = "MOVE_COMPLETE"
	GameStateChange  GameEvent = "STATE_CHANGE"
	GameChange       GameEvent = "GAME_CHANGE"
	GameEnd          GameEvent = "END"
)

var gameEvents = []GameEvent{
	GameCreate, GamePlayerJoin, GameDestroy, GameBegin, GamePlayerChange,
	GameMoveComplete, GameStateChange, GameChange, GameEnd,
}

// NotificationEvent is a lobby-facing summary of a game fact.
type NotificationEvent string

const (
	NotificationCreate  NotificationEvent = "CREATE"
	NotificationJoin    NotificationEvent = "JOIN"
	NotificationDestroy NotificationEvent = "DESTROY"
)

var notificationEvents = []NotificationEvent{
	NotificationCreate, NotificationJoin, NotificationDestroy,
}

// Event holds exactly one GameEvent or one NotificationEvent.
// The zero value belongs to neither family.
type Event struct {
	family Family
	name   string
}

func Game(e GameEvent) Event { return Event{family: FamilyGame, name: string(e)} }

func Notification(e NotificationEvent) Event {
	return Event{family: FamilyNotification, name: string(e)}
}

func (e Event) Family() Family { return e.family }

// Name is the bare event name, e.g. "CREATE".
func (e Event) Name() string { return e.name }

func (e Event) IsZero() bool { return e.family == FamilyUnknown }

func (e Event) String() string {
	if e.IsZero() {
		return "UNKNOWN"
	}
	return e.family.String() + "/" + e.name
}

func ParseGameEvent(s string) (GameEvent, error) {
	for _, e := range gameEvents {
		if string(e) == s {
			return e, nil
		}
	}
	return "", fmt.Errorf("event: unknown game event %q", s)
}

func ParseNotificationEvent(s string) (NotificationEvent, error) {
	for _, e := range notificationEvents {
		if string(e) == s {
			return e, nil
		}
	}
	return "", fmt.Errorf("event: unknown notification event %q", s)
}
