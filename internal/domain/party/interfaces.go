package party

import "context"

// Repository upserts and reads providers and clients by unique name.
type Repository interface {
	// EnsureProvider returns the provider with the name, creating it if absent.
	EnsureProvider(ctx context.Context, name string) (*Provider, error)
	// EnsureClient returns the client with the name, creating it if absent.
	// Attributes only apply on creation.
	EnsureClient(ctx context.Context, client *Client) (*Client, error)
	GetProvider(ctx context.Context, id string) (*Provider, error)
	GetClient(ctx context.Context, id string) (*Client, error)
}
