package merchant

import (
	"context"
	"strings"
	"time"

	"paykript/internal/domain/merchant"
	apperrors "paykript/internal/shared/errors"
)

// AuthGate implements spec component 4.G: verifying caller identity for the
// merchant-facing create/query endpoints via `Authorization: Bearer
// <public_id>:<secret>`. Every failure mode — malformed header, unknown
// public id, inactive credential, wrong secret — collapses to the same
// Unauthenticated error so none is distinguishable from the others.
type AuthGate struct {
	credentials merchant.CredentialRepository
	secrets     SecretHasher
}

func NewAuthGate(credentials merchant.CredentialRepository, secrets SecretHasher) *AuthGate {
	return &AuthGate{credentials: credentials, secrets: secrets}
}

// Authenticated carries the identity resolved from a valid API key.
type Authenticated struct {
	MerchantID   uint
	CredentialID uint
}

// Authenticate parses the Authorization header, looks up the credential,
// verifies it is active, and checks the secret in constant time. On
// success it updates last_used_at before returning.
func (g *AuthGate) Authenticate(ctx context.Context, authHeader string) (*Authenticated, error) {
	publicID, secret, ok := parseBearer(authHeader)
	if !ok {
		return nil, apperrors.NewUnauthenticatedError()
	}

	cred, err := g.credentials.GetByPublicID(ctx, publicID)
	if err != nil {
		return nil, apperrors.NewUnauthenticatedError()
	}
	if cred == nil || !cred.Active() {
		return nil, apperrors.NewUnauthenticatedError()
	}
	if err := g.secrets.Verify(secret, cred.SecretHash()); err != nil {
		return nil, apperrors.NewUnauthenticatedError()
	}

	cred.Touch(time.Now().UTC())
	if err := g.credentials.Update(ctx, cred); err != nil {
		return nil, apperrors.NewUnauthenticatedError()
	}

	return &Authenticated{MerchantID: cred.MerchantID(), CredentialID: cred.ID()}, nil
}

// parseBearer splits "Bearer <public_id>:<secret>" into its two parts. Any
// shape violation yields ok=false.
func parseBearer(header string) (publicID, secret string, ok bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", "", false
	}
	token := strings.TrimPrefix(header, prefix)
	parts := strings.SplitN(token, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
