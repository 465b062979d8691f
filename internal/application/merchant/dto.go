// Package merchant implements the merchant dashboard's use cases
// (registration, login) and the API-key Auth Gate (spec component 4.G).
// HTTP request routing, validation schemas, and JWT issuance mechanics are
// external collaborators per the core's scope; this package is where they
// are wired together.
package merchant

import "time"

// RegisterInput is the merchant self-registration request.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput is the merchant dashboard login request.
type LoginInput struct {
	Email    string
	Password string
}

// AuthResult carries the issued token pair alongside the merchant it
// belongs to, for the handler to shape into its response DTO.
type AuthResult struct {
	MerchantID   uint
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// CredentialResult is returned once, at issuance: the plaintext secret is
// never retrievable again afterward, matching the teacher's API-key pattern.
type CredentialResult struct {
	ID        uint
	PublicID  string
	Secret    string
	CreatedAt time.Time
}

// CredentialView is the safe, list-friendly projection of a credential —
// no secret, hashed or otherwise.
type CredentialView struct {
	ID         uint
	PublicID   string
	Active     bool
	LastUsedAt *time.Time
	CreatedAt  time.Time
}
