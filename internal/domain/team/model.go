package team

import "time"

// Team is a group of people that acts on cases.
type Team struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Ref is the lightweight form of a team carried on cases and tasks.
type Ref struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Ref returns the reference form of the team.
func (t Team) Ref() Ref {
	return Ref{ID: t.ID, Name: t.Name}
}
