package team

import "errors"

var (
	// ErrTeamNotFound indicates no team has the requested name.
	ErrTeamNotFound = errors.New("team not found")
	// ErrInvalidInput indicates an empty team name.
	ErrInvalidInput = errors.New("invalid team input")
)
