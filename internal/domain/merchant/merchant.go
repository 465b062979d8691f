// Package merchant holds the Merchant and APICredential aggregates: the
// single principal that owns wallets, API credentials, and payment
// requests in this gateway.
package merchant

import (
	"fmt"
	"time"

	"paykript/internal/shared/biztime"
)

// Merchant is the top-level tenant. It carries its own dashboard login
// (email/password, for the JWT-authenticated routes) independent of the
// API credentials used by the create/query endpoints.
type Merchant struct {
	id           uint
	name         string
	email        string
	passwordHash string
	active       bool

	createdAt time.Time
	updatedAt time.Time
}

func NewMerchant(name, email, passwordHash string) (*Merchant, error) {
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if passwordHash == "" {
		return nil, fmt.Errorf("password hash is required")
	}
	now := biztime.NowUTC()
	return &Merchant{
		name:         name,
		email:        email,
		passwordHash: passwordHash,
		active:       true,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

func (m *Merchant) Deactivate() {
	m.active = false
	m.updatedAt = biztime.NowUTC()
}

func (m *Merchant) Activate() {
	m.active = true
	m.updatedAt = biztime.NowUTC()
}

func (m *Merchant) ID() uint             { return m.id }
func (m *Merchant) Name() string         { return m.name }
func (m *Merchant) Email() string        { return m.email }
func (m *Merchant) PasswordHash() string { return m.passwordHash }
func (m *Merchant) Active() bool         { return m.active }
func (m *Merchant) CreatedAt() time.Time { return m.createdAt }
func (m *Merchant) UpdatedAt() time.Time { return m.updatedAt }

func (m *Merchant) SetID(id uint) { m.id = id }

func ReconstructMerchant(id uint, name, email, passwordHash string, active bool, createdAt, updatedAt time.Time) *Merchant {
	return &Merchant{
		id:           id,
		name:         name,
		email:        email,
		passwordHash: passwordHash,
		active:       active,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}
