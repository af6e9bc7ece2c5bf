package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"traitlens/internal/models"
	"traitlens/internal/services"
)

// Context keys set by SessionMiddleware.
const (
	ctxSession  = "session"
	ctxUserID   = "user_id"
	ctxUserRole = "user_role"
)

// SessionMiddleware decodes the session cookie into the request context.
// It never rejects; the role gates below decide what to do without one.
func SessionMiddleware(codec *services.SessionCodec) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(services.SessionCookie)
		if err == nil {
			if claims := codec.Decode(raw); claims != nil {
				c.Set(ctxSession, claims)
				c.Set(ctxUserID, claims.UserID)
				c.Set(ctxUserRole, claims.Role)
			}
		}
		c.Next()
	}
}

// protectedPrefixes maps page path prefixes to the role they require.
var protectedPrefixes = map[string]models.Role{
	"/student": models.RoleStudent,
	"/teacher": models.RoleTeacher,
}

// PageGate guards the role-scoped page prefixes. Requests without a
// decodable session are redirected to the login page with the intended
// path preserved; a wrong role redirects to login without detail.
func PageGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		var required models.Role
		needsAuth := false
		for prefix, role := range protectedPrefixes {
			if strings.HasPrefix(path, prefix) {
				required = role
				needsAuth = true
				break
			}
		}
		if !needsAuth {
			c.Next()
			return
		}

		claims := sessionClaims(c)
		if claims == nil {
			c.Redirect(http.StatusFound, "/login?next="+url.QueryEscape(path))
			c.Abort()
			return
		}
		if claims.Role != required {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRole gates API routes: 401 without a session, 403 on a role
// mismatch.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := sessionClaims(c)
		if claims == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "authentication required"})
			c.Abort()
			return
		}
		if claims.Role != role {
			c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "access denied"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CORSMiddleware allows the separately hosted frontend to call the API.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-Requested-With")
		c.Header("Access-Control-Allow-Credentials", "true")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// sessionClaims reads the decoded session from the context.
func sessionClaims(c *gin.Context) *services.SessionClaims {
	val, ok := c.Get(ctxSession)
	if !ok {
		return nil
	}
	claims, ok := val.(*services.SessionClaims)
	if !ok {
		return nil
	}
	return claims
}
