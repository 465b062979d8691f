package merchant

import (
	"fmt"
	"time"

	"paykript/internal/shared/biztime"
)

// APICredential authenticates the merchant-facing create/query endpoints.
// PublicID is transmitted in the clear; SecretHash never leaves this
// aggregate unhashed.
type APICredential struct {
	id         uint
	merchantID uint
	publicID   string
	secretHash string
	active     bool
	lastUsedAt *time.Time

	createdAt time.Time
	updatedAt time.Time
}

func NewAPICredential(merchantID uint, publicID, secretHash string) (*APICredential, error) {
	if merchantID == 0 {
		return nil, fmt.Errorf("merchant ID is required")
	}
	if publicID == "" {
		return nil, fmt.Errorf("public id is required")
	}
	if secretHash == "" {
		return nil, fmt.Errorf("secret hash is required")
	}
	now := biztime.NowUTC()
	return &APICredential{
		merchantID: merchantID,
		publicID:   publicID,
		secretHash: secretHash,
		active:     true,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

func (c *APICredential) Revoke() {
	c.active = false
	c.updatedAt = biztime.NowUTC()
}

// Touch records a successful authentication, updating last_used_at.
func (c *APICredential) Touch(at time.Time) {
	c.lastUsedAt = &at
	c.updatedAt = at
}

func (c *APICredential) ID() uint              { return c.id }
func (c *APICredential) MerchantID() uint      { return c.merchantID }
func (c *APICredential) PublicID() string      { return c.publicID }
func (c *APICredential) SecretHash() string    { return c.secretHash }
func (c *APICredential) Active() bool          { return c.active }
func (c *APICredential) LastUsedAt() *time.Time { return c.lastUsedAt }
func (c *APICredential) CreatedAt() time.Time  { return c.createdAt }
func (c *APICredential) UpdatedAt() time.Time  { return c.updatedAt }

func (c *APICredential) SetID(id uint) { c.id = id }

func ReconstructAPICredential(id, merchantID uint, publicID, secretHash string, active bool, lastUsedAt *time.Time, createdAt, updatedAt time.Time) *APICredential {
	return &APICredential{
		id:         id,
		merchantID: merchantID,
		publicID:   publicID,
		secretHash: secretHash,
		active:     active,
		lastUsedAt: lastUsedAt,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}
