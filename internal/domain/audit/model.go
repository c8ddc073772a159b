package audit

import "time"

// Action names written by the case lifecycle outside the transition table.
const ActionCreated = "created"

// Entry is an immutable record of one action taken on a case.
type Entry struct {
	ID        int64          `json:"id"`
	CaseID    string         `json:"case_id"`
	Actor     Actor          `json:"actor"`
	Action    string         `json:"action"`
	Note      string         `json:"note,omitempty"`
	Metadata  map[string]any `json:"metadata"`
	CreatedAt time.Time      `json:"created_at"`
}
