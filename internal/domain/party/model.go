package party

import "time"

// Provider is the product provider a fee uplift is submitted to.
type Provider struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Client is the end client whose fee is being uplifted.
type Client struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	IOReference string    `json:"io_reference,omitempty"`
	ProviderID  *string   `json:"provider_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
