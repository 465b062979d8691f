package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"paykript/internal/application/merchant"
	"paykript/internal/infrastructure/auth"
	"paykript/internal/shared/constants"
	"paykript/internal/shared/logger"
	"paykript/internal/shared/utils"
)

// AuthMiddleware guards the JWT-authenticated dashboard routes (§6's "JWT"
// column). Unlike the host codebase's user auth, a merchant carries no role
// or session-lookup indirection, so Verify's claims are all that is needed.
type AuthMiddleware struct {
	jwtService *auth.JWTService
	logger     logger.Interface
}

func NewAuthMiddleware(jwtService *auth.JWTService, log logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService, logger: log}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "missing authorization token")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := m.jwtService.Verify(parts[1])
		if err != nil {
			m.logger.Warnw("failed to verify token", "error", err)
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}
		if claims.TokenType != auth.TokenTypeAccess {
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid token type")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyMerchantID, claims.MerchantID)
		c.Next()
	}
}

// APIKeyMiddleware guards the merchant-facing create/query routes (§4.G,
// §6's "API key" column) behind merchant.AuthGate.
type APIKeyMiddleware struct {
	gate   *merchant.AuthGate
	logger logger.Interface
}

func NewAPIKeyMiddleware(gate *merchant.AuthGate, log logger.Interface) *APIKeyMiddleware {
	return &APIKeyMiddleware{gate: gate, logger: log}
}

func (m *APIKeyMiddleware) RequireAPIKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		authed, err := m.gate.Authenticate(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			utils.ErrorResponseWithError(c, err)
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyMerchantID, authed.MerchantID)
		c.Set(constants.ContextKeyCredentialID, authed.CredentialID)
		c.Next()
	}
}
