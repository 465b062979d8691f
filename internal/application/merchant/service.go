package merchant

import (
	"context"
	"fmt"

	"paykript/internal/domain/merchant"
	apperrors "paykript/internal/shared/errors"
	"paykript/internal/shared/id"
	"paykript/internal/shared/logger"
)

const (
	publicIDLength = 24
	secretLength   = 32

	prefixPublicLive = "pk_live"
	prefixSecretLive = "sk_live"
)

// Service orchestrates merchant dashboard registration/login and API
// credential issuance. HTTP binding/validation and JWT signing mechanics
// live outside the core; Service depends only on the ports it needs.
type Service struct {
	merchants   merchant.Repository
	credentials merchant.CredentialRepository
	hasher      PasswordHasher
	secrets     SecretHasher
	jwt         JWTService
	logger      logger.Interface
}

func NewService(
	merchants merchant.Repository,
	credentials merchant.CredentialRepository,
	hasher PasswordHasher,
	secrets SecretHasher,
	jwt JWTService,
	log logger.Interface,
) *Service {
	return &Service{
		merchants:   merchants,
		credentials: credentials,
		hasher:      hasher,
		secrets:     secrets,
		jwt:         jwt,
		logger:      log,
	}
}

// Register creates a new merchant account. Email uniqueness is enforced by
// the store's unique index; a pre-check here gives a clean Conflict instead
// of surfacing the raw database error.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	existing, err := s.merchants.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing merchant: %w", err)
	}
	if existing != nil {
		return nil, apperrors.NewConflictError("email already registered")
	}

	passwordHash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	m, err := merchant.NewMerchant(in.Name, in.Email, passwordHash)
	if err != nil {
		return nil, err
	}

	if err := s.merchants.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to create merchant: %w", err)
	}

	s.logger.Infow("merchant registered", "merchant_id", m.ID(), "email", m.Email())

	return s.issueTokens(m.ID())
}

// Login verifies dashboard credentials and issues a fresh token pair.
func (s *Service) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	m, err := s.merchants.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up merchant: %w", err)
	}
	if m == nil || !m.Active() {
		return nil, apperrors.NewInvalidCredentialsError()
	}
	if err := s.hasher.Verify(in.Password, m.PasswordHash()); err != nil {
		return nil, apperrors.NewInvalidCredentialsError()
	}

	return s.issueTokens(m.ID())
}

// RefreshToken rotates a refresh token for a new access/refresh pair.
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (*AuthResult, error) {
	pair, err := s.jwt.Refresh(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}
	// The merchant ID isn't threaded back through TokenPair; callers that
	// need it decode the fresh access token themselves via JWTService.Verify
	// (the path the JWT auth middleware uses).
	return &AuthResult{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	}, nil
}

func (s *Service) issueTokens(merchantID uint) (*AuthResult, error) {
	pair, err := s.jwt.Generate(merchantID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue tokens: %w", err)
	}
	return &AuthResult{
		MerchantID:   merchantID,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	}, nil
}

// IssueCredential generates a fresh public_id/secret pair for the
// merchant-facing API-key endpoints. The plaintext secret is returned only
// here; the store only ever keeps its hash.
func (s *Service) IssueCredential(ctx context.Context, merchantID uint) (*CredentialResult, error) {
	publicID, err := id.GenerateWithPrefix(prefixPublicLive, publicIDLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate public id: %w", err)
	}
	secret, err := id.GenerateWithPrefix(prefixSecretLive, secretLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate secret: %w", err)
	}
	secretHash, err := s.secrets.Hash(secret)
	if err != nil {
		return nil, fmt.Errorf("failed to hash secret: %w", err)
	}

	cred, err := merchant.NewAPICredential(merchantID, publicID, secretHash)
	if err != nil {
		return nil, err
	}
	if err := s.credentials.Create(ctx, cred); err != nil {
		return nil, fmt.Errorf("failed to create credential: %w", err)
	}

	s.logger.Infow("api credential issued", "merchant_id", merchantID, "credential_id", cred.ID())

	return &CredentialResult{
		ID:        cred.ID(),
		PublicID:  cred.PublicID(),
		Secret:    secret,
		CreatedAt: cred.CreatedAt(),
	}, nil
}

// RevokeCredential deactivates a credential. Scoped to merchantID so a
// merchant cannot revoke another's key.
func (s *Service) RevokeCredential(ctx context.Context, merchantID, credentialID uint) error {
	cred, err := s.credentials.GetByID(ctx, merchantID, credentialID)
	if err != nil {
		return fmt.Errorf("failed to look up credential: %w", err)
	}
	if cred == nil {
		return apperrors.NewNotFoundError("credential not found")
	}
	cred.Revoke()
	return s.credentials.Update(ctx, cred)
}

// ListCredentials returns a merchant's credentials in the safe, secret-free
// projection.
func (s *Service) ListCredentials(ctx context.Context, merchantID uint) ([]CredentialView, error) {
	creds, err := s.credentials.List(ctx, merchantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list credentials: %w", err)
	}
	views := make([]CredentialView, 0, len(creds))
	for _, c := range creds {
		views = append(views, CredentialView{
			ID:         c.ID(),
			PublicID:   c.PublicID(),
			Active:     c.Active(),
			LastUsedAt: c.LastUsedAt(),
			CreatedAt:  c.CreatedAt(),
		})
	}
	return views, nil
}
