package merchant

// PasswordHasher hashes and verifies merchant dashboard login passwords.
// Satisfied by auth.BcryptPasswordHasher.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) error
}

// TokenPair is the access/refresh pair returned by JWTService.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// JWTService issues and verifies the merchant dashboard's bearer tokens.
// Satisfied by auth.JWTService.
type JWTService interface {
	Generate(merchantID uint) (*TokenPair, error)
	Refresh(refreshToken string) (*TokenPair, error)
}

// SecretHasher hashes and verifies API credential secrets in constant time.
// A separate port from PasswordHasher because the two may reasonably use
// different cost parameters; both are satisfied by auth.BcryptPasswordHasher
// in this gateway's wiring.
type SecretHasher interface {
	Hash(secret string) (string, error)
	Verify(secret, hash string) error
}
