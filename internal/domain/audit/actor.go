package audit

import (
	"encoding/json"
	"strings"
)

// Actor identifies who performed an action: a user, or the system itself.
// The zero value is the system actor.
type Actor struct {
	userID string
}

// System returns the actor for system-initiated actions.
func System() Actor {
	return Actor{}
}

// User returns an actor for the given user. A blank id yields System().
func User(id string) Actor {
	return Actor{userID: strings.TrimSpace(id)}
}

// UserID returns the acting user, if any.
func (a Actor) UserID() (string, bool) {
	return a.userID, a.userID != ""
}

// IsSystem reports whether no user performed the action.
func (a Actor) IsSystem() bool {
	return a.userID == ""
}

func (a Actor) String() string {
	if a.IsSystem() {
		return "system"
	}
	return a.userID
}

type actorJSON struct {
	Kind   string `json:"kind"`
	UserID string `json:"user_id,omitempty"`
}

// MarshalJSON encodes the actor as {"kind":"user","user_id":...} or {"kind":"system"}.
func (a Actor) MarshalJSON() ([]byte, error) {
	if a.IsSystem() {
		return json.Marshal(actorJSON{Kind: "system"})
	}
	return json.Marshal(actorJSON{Kind: "user", UserID: a.userID})
}

// UnmarshalJSON accepts the object form written by MarshalJSON.
func (a *Actor) UnmarshalJSON(data []byte) error {
	var raw actorJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*a = User(raw.UserID)
	return nil
}
