package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"traitlens/internal/models"
	"traitlens/internal/services"
)

// AuthHandler serves registration, login, logout and session lookup.
type AuthHandler struct {
	auth     *services.AuthService
	sessions *services.SessionCodec
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(auth *services.AuthService, sessions *services.SessionCodec) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions}
}

// Register handles the role-branched registration payload.
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	result, err := h.auth.Register(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":      true,
		"role":    result.User.Role,
		"userId":  result.User.ID,
		"groupId": result.GroupID,
		"next":    result.Next,
	})
}

type loginReq struct {
	Role       models.Role `json:"role" binding:"required,oneof=student teacher"`
	Identifier string      `json:"identifier" binding:"required"`
	Password   string      `json:"password" binding:"required,min=8"`
}

// Login verifies credentials and sets the session cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	user, err := h.auth.Login(req.Role, req.Identifier, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.sessions.SetSession(c.Writer, services.SessionClaims{UserID: user.ID, Role: user.Role}); err != nil {
		respondError(c, err)
		return
	}

	next := "/student"
	if user.Role == models.RoleTeacher {
		next = "/teacher"
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "role": user.Role, "next": next})
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.sessions.ClearSession(c.Writer)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Me returns the current session and user, with the role-specific
// display name flattened for the frontend.
func (h *AuthHandler) Me(c *gin.Context) {
	claims := sessionClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "authentication required", "reason": "no-session"})
		return
	}

	user, err := h.auth.Me(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "authentication required", "reason": "user-not-found"})
		return
	}

	var firstName, lastName string
	switch {
	case user.Role == models.RoleTeacher && user.TeacherProfile != nil:
		firstName, lastName = user.TeacherProfile.FirstName, user.TeacherProfile.LastName
	case user.Role == models.RoleStudent && user.StudentProfile != nil:
		firstName, lastName = user.StudentProfile.FirstName, user.StudentProfile.LastName
	}

	c.JSON(http.StatusOK, gin.H{
		"ok": true,
		"session": gin.H{
			"uid": claims.UserID,
			"rol": claims.Role,
		},
		"user": gin.H{
			"id":        user.ID,
			"email":     user.Email,
			"role":      user.Role,
			"firstName": firstName,
			"lastName":  lastName,
		},
	})
}
