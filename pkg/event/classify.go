package event

// Message property keys.
const (
	PropGameID            = "GAME_ID"
	PropGameEvent         = "GAME_EVENT"
	PropNotificationID    = "NOTIFICATION_ID"
	PropNotificationEvent = "NOTIFICATION_EVENT"
	PropMessageID         = "MESSAGE_ID"
	PropTraceID           = "TRACE_ID"
)

// Classification is the family of an event plus the property keys a
// message for it carries.
type Classification struct {
	Family   Family
	IDKey    string
	EventKey string
}

// Classify reports the property keys for e. ok is false for the zero Event,
// in which case no classification properties are attached.
func Classify(e Event) (c Classification, ok bool) {
	switch e.family {
	case FamilyGame:
		return Classification{Family: FamilyGame, IDKey: PropGameID, EventKey: PropGameEvent}, true
	case FamilyNotification:
		return Classification{Family: FamilyNotification, IDKey: PropNotificationID, EventKey: PropNotificationEvent}, true
	default:
		return Classification{}, false
	}
}
