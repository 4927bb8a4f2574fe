package middlewares

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shrustiadlak/digital-dear-diary/internal/auth"
)

// Small interfaces so tests can fake both collaborators easily.
type TokenVerifier interface {
	VerifySessionToken(token string) (*auth.Claims, error)
}

type SessionChecker interface {
	UserID(ctx context.Context, sid string) (string, error)
}

type AuthMiddleware struct {
	tokens   TokenVerifier
	sessions SessionChecker
}

func NewAuthMiddleware(tokens TokenVerifier, sessions SessionChecker) *AuthMiddleware {
	return &AuthMiddleware{
		tokens:   tokens,
		sessions: sessions,
	}
}

// resolve checks the session cookie against the token signature and the
// server-side registry. Both have to agree: a valid cookie whose session was
// revoked at logout no longer authenticates.
func (m *AuthMiddleware) resolve(c *gin.Context) (*auth.Claims, bool) {
	raw, err := c.Cookie(auth.CookieName)

	if err != nil || raw == "" {
		return nil, false
	}

	claims, err := m.tokens.VerifySessionToken(raw)

	if err != nil {
		return nil, false
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	userID, err := m.sessions.UserID(ctx, claims.SID)

	if err != nil || userID != claims.UserID {
		return nil, false
	}

	return claims, true
}

func (m *AuthMiddleware) setIdentity(c *gin.Context, claims *auth.Claims) {
	c.Set(CtxUserIDKey, claims.UserID)
	c.Set(CtxUsernameKey, claims.Username)
	c.Set(CtxSessionIDKey, claims.SID)
}

// RequirePage gates the HTML routes: anonymous clients get redirected to the
// login page instead of an error.
func (m *AuthMiddleware) RequirePage() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := m.resolve(c)

		if !ok {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		m.setIdentity(c, claims)
		c.Next()
	}
}

// RequireAPI gates the JSON routes: anonymous clients are refused outright.
func (m *AuthMiddleware) RequireAPI() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := m.resolve(c)

		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Authentication required",
			})
			return
		}

		m.setIdentity(c, claims)
		c.Next()
	}
}

// Optional stashes the identity when a valid session is present but lets
// anonymous requests through. The landing page uses it to decide between
// rendering and redirecting to the dashboard.
func (m *AuthMiddleware) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := m.resolve(c); ok {
			m.setIdentity(c, claims)
		}

		c.Next()
	}
}

// Helpers so handlers don't need to know the magic keys.

func CurrentUserID(c *gin.Context) (string, bool) {
	v, ok := c.Get(CtxUserIDKey)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

func CurrentUsername(c *gin.Context) (string, bool) {
	v, ok := c.Get(CtxUsernameKey)
	if !ok {
		return "", false
	}
	name, ok := v.(string)
	return name, ok
}

func CurrentSessionID(c *gin.Context) (string, bool) {
	v, ok := c.Get(CtxSessionIDKey)
	if !ok {
		return "", false
	}
	sid, ok := v.(string)
	return sid, ok
}
