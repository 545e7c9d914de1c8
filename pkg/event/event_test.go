package event

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		ev       Event
		wantOK   bool
		family   Family
		idKey    string
		eventKey string
	}{
		{"game create", Game(GameCreate), true, FamilyGame, PropGameID, PropGameEvent},
		{"game move", Game(GameMoveComplete), true, FamilyGame, PropGameID, PropGameEvent},
		{"notification join", Notification(NotificationJoin), true, FamilyNotification, PropNotificationID, PropNotificationEvent},
		{"zero", Event{}, false, FamilyUnknown, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := Classify(tt.ev)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if c.Family != tt.family || c.IDKey != tt.idKey || c.EventKey != tt.eventKey {
				t.Errorf("Classify(%v) = %+v", tt.ev, c)
			}
		})
	}
}

func TestFamiliesAreDisjoint(t *testing.T) {
	g, _ := Classify(Game(GameCreate))
	n, _ := Classify(Notification(NotificationCreate))
	if g.IDKey == n.IDKey || g.EventKey == n.EventKey {
		t.Errorf("game and notification share keys: %+v %+v", g, n)
	}
	if Game(GameCreate) == Notification(NotificationCreate) {
		t.Error("CREATE in different families must not compare equal")
	}
}

func TestEventString(t *testing.T) {
	if got := Game(GameEnd).String(); got != "GAME/END" {
		t.Errorf("String() = %q", got)
	}
	if got := Notification(NotificationDestroy).String(); got != "NOTIFICATION/DESTROY" {
		t.Errorf("String() = %q", got)
	}
	if got := (Event{}).String(); got != "UNKNOWN" {
		t.Errorf("String() = %q", got)
	}
	if Game(GameBegin).Name() != "BEGIN" {
		t.Errorf("Name() = %q", Game(GameBegin).Name())
	}
}

func TestParse(t *testing.T) {
	for _, e := range gameEvents {
		got, err := ParseGameEvent(string(e))
		if err != nil || got != e {
			t.Errorf("ParseGameEvent(%q) = %q, %v", e, got, err)
		}
	}
	if _, err := ParseGameEvent("JOIN"); err == nil {
		t.Error("JOIN is not a game event")
	}
	if got, err := ParseNotificationEvent("JOIN"); err != nil || got != NotificationJoin {
		t.Errorf("ParseNotificationEvent(JOIN) = %q, %v", got, err)
	}
	if _, err := ParseNotificationEvent("BEGIN"); err == nil {
		t.Error("BEGIN is not a notification event")
	}
}
