package services

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"traitlens/internal/models"
)

// SessionCookie is the name of the session cookie.
const SessionCookie = "psess"

// SessionClaims is the minimal identity claim carried by the cookie.
type SessionClaims struct {
	UserID uuid.UUID
	Role   models.Role
}

// SessionCodec encodes and decodes session claims. Tokens are
// HMAC-signed so a cookie holder cannot forge another identity.
type SessionCodec struct {
	secret []byte
	ttl    time.Duration
}

// NewSessionCodec creates a codec signing with the given secret. ttl
// bounds both the token and the cookie lifetime.
func NewSessionCodec(secret string, ttl time.Duration) *SessionCodec {
	return &SessionCodec{secret: []byte(secret), ttl: ttl}
}

// Encode signs the claims into a token string.
func (c *SessionCodec) Encode(claims SessionClaims) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid": claims.UserID.String(),
		"rol": string(claims.Role),
		"iat": now.Unix(),
		"exp": now.Add(c.ttl).Unix(),
	})
	return token.SignedString(c.secret)
}

// Decode parses a token back into claims. Malformed, expired or
// tampered input yields nil rather than an error.
func (c *SessionCodec) Decode(raw string) *SessionClaims {
	if raw == "" {
		return nil
	}
	token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return nil
	}
	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}
	uidStr, ok := mapClaims["uid"].(string)
	if !ok {
		return nil
	}
	uid, err := uuid.Parse(uidStr)
	if err != nil {
		return nil
	}
	rolStr, ok := mapClaims["rol"].(string)
	if !ok {
		return nil
	}
	role := models.Role(rolStr)
	if role != models.RoleStudent && role != models.RoleTeacher {
		return nil
	}
	return &SessionClaims{UserID: uid, Role: role}
}

// SetSession writes the session cookie on the response.
func (c *SessionCodec) SetSession(w http.ResponseWriter, claims SessionClaims) error {
	token, err := c.Encode(claims)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(c.ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// ClearSession removes the session cookie.
func (c *SessionCodec) ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
