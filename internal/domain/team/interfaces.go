package team

import "context"

// Repository provides persistence for teams.
type Repository interface {
	// Ensure returns the team with the given name, creating it if absent.
	Ensure(ctx context.Context, name string) (*Team, error)
	GetByName(ctx context.Context, name string) (*Team, error)
	List(ctx context.Context) ([]Team, error)
}
