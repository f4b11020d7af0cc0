package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/shared/auth"
	"jobboard-backend/internal/shared/server/respond"
)

const (
	userIDKey    = "userId"
	userRoleKey  = "userRole"
	userEmailKey = "userEmail"
	userNameKey  = "userName"
)

// ErrUnknownUser is returned by an IdentityResolver when the token subject no longer exists.
var ErrUnknownUser = errors.New("unknown user")

// Identity is the authenticated caller as stored in the request context.
type Identity struct {
	ID    string
	Name  string
	Email string
	Role  string
}

// TokenVerifier validates a bearer token.
type TokenVerifier interface {
	Verify(raw string) (auth.Claims, error)
}

// IdentityResolver loads the current user record for a token subject.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, userID string) (Identity, error)
}

// RequireAuth verifies the bearer token and loads the user it names.
// The role comes from the stored user, not from the token.
func RequireAuth(verifier TokenVerifier, resolver IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "No token, authorization denied")
			return
		}

		claims, err := verifier.Verify(raw)
		if err != nil {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "Token is not valid")
			return
		}

		identity, err := resolver.ResolveIdentity(c.Request.Context(), claims.Subject)
		if err != nil {
			if errors.Is(err, ErrUnknownUser) {
				respond.Error(c, http.StatusUnauthorized, "unauthorized", "Token is not valid")
				return
			}
			respond.Internal(c, "Server error", err)
			return
		}

		setIdentity(c, identity)
		c.Next()
	}
}

// RequireRole rejects callers whose role is not one of roles. Must run after RequireAuth.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		role := c.GetString(userRoleKey)
		if _, ok := allowed[role]; !ok {
			respond.Error(c, http.StatusForbidden, "forbidden", "Access denied. Insufficient permissions.")
			return
		}
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	header = strings.TrimSpace(header)
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	return token, token != ""
}

func setIdentity(c *gin.Context, id Identity) {
	c.Set(userIDKey, id.ID)
	c.Set(userRoleKey, id.Role)
	if id.Email != "" {
		c.Set(userEmailKey, id.Email)
	}
	if id.Name != "" {
		c.Set(userNameKey, id.Name)
	}
}

// IdentityFromContext returns the identity stored by RequireAuth.
func IdentityFromContext(c *gin.Context) (Identity, bool) {
	if c == nil {
		return Identity{}, false
	}
	id := c.GetString(userIDKey)
	if id == "" {
		return Identity{}, false
	}
	return Identity{
		ID:    id,
		Role:  c.GetString(userRoleKey),
		Email: c.GetString(userEmailKey),
		Name:  c.GetString(userNameKey),
	}, true
}

// UserIDFromContext fetches the user ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(userIDKey)
}
