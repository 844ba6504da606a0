package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/alkinoy/10x-politico-sub002/internal/core/domain"
	"github.com/alkinoy/10x-politico-sub002/internal/infra/security"
)

// ErrorResponse matches the handlers.ErrorResponse structure
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// newErrorResponse creates an error response with trace ID
func newErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	return ErrorResponse{
		Error:   errorMsg,
		TraceID: GetTraceID(c),
	}
}

// RequireIdentity validates the Authorization header and stores the verified
// caller on the request context. Requests without a valid bearer token are
// rejected.
func RequireIdentity(verifier *security.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, errMsg := bearerToken(c)
		if errMsg != "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, newErrorResponse(c, errMsg))
			return
		}

		identity, err := verifier.Verify(token)
		if err != nil {
			switch {
			case errors.Is(err, security.ErrExpiredToken):
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					newErrorResponse(c, "access token expired"))
			case errors.Is(err, security.ErrInvalidToken):
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					newErrorResponse(c, "invalid access token"))
			default:
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					newErrorResponse(c, "authentication failed"))
			}
			return
		}

		storeIdentity(c, identity)
		c.Next()
	}
}

// OptionalIdentity extracts the caller identity when a valid bearer token is
// present and proceeds anonymously otherwise. A malformed or expired token on
// a read endpoint is treated as anonymous rather than rejected, so permission
// flags simply come back false.
func OptionalIdentity(verifier *security.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, errMsg := bearerToken(c)
		if errMsg == "" {
			if identity, err := verifier.Verify(token); err == nil {
				storeIdentity(c, identity)
			}
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, string) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", "missing authorization header"
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", "invalid authorization format: expected 'Bearer <token>'"
	}

	if !strings.EqualFold(parts[0], "Bearer") {
		return "", "invalid authorization format: must start with 'Bearer'"
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", "missing access token"
	}

	return token, ""
}

func storeIdentity(c *gin.Context, identity *domain.Identity) {
	c.Set(IdentityKey, identity)

	if reqCtx := GetRequestContext(c); reqCtx != nil {
		reqCtx.UserID = identity.UserID
	}
}

// GetIdentity retrieves the verified caller from context. A nil result means
// the request is anonymous.
func GetIdentity(c *gin.Context) *domain.Identity {
	value, exists := c.Get(IdentityKey)
	if !exists {
		return nil
	}

	if identity, ok := value.(*domain.Identity); ok {
		return identity
	}

	return nil
}
