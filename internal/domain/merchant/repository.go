package merchant

import "context"

// Repository persists Merchant aggregates.
type Repository interface {
	Create(ctx context.Context, m *Merchant) error
	Update(ctx context.Context, m *Merchant) error
	GetByID(ctx context.Context, id uint) (*Merchant, error)
	GetByEmail(ctx context.Context, email string) (*Merchant, error)
}

// CredentialRepository persists APICredential aggregates.
type CredentialRepository interface {
	Create(ctx context.Context, c *APICredential) error
	Update(ctx context.Context, c *APICredential) error
	GetByPublicID(ctx context.Context, publicID string) (*APICredential, error)
	GetByID(ctx context.Context, merchantID, id uint) (*APICredential, error)
	List(ctx context.Context, merchantID uint) ([]*APICredential, error)
}
