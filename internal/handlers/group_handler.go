package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"traitlens/internal/services"
)

// GroupHandler serves the public group listing and the teacher group
// management routes.
type GroupHandler struct {
	groups *services.GroupService
}

// NewGroupHandler creates a new group handler.
func NewGroupHandler(groups *services.GroupService) *GroupHandler {
	return &GroupHandler{groups: groups}
}

// PublicList returns all groups for the registration form. No session
// required.
func (h *GroupHandler) PublicList(c *gin.Context) {
	groups, err := h.groups.List()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "groups": groups})
}

// ListGroups returns the groups assigned to the current teacher.
func (h *GroupHandler) ListGroups(c *gin.Context) {
	claims := sessionClaims(c)

	groups, err := h.groups.ListForTeacher(claims.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "groups": groups})
}

type createGroupReq struct {
	Subject string `json:"subject" binding:"required"`
	Section string `json:"section"`
	Cohort  string `json:"cohort"`
}

// CreateGroup creates a group owned by the current teacher.
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	claims := sessionClaims(c)

	var req createGroupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	group, err := h.groups.Create(claims.UserID, req.Subject, req.Section, req.Cohort)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "group": group})
}

type joinTeacherGroupReq struct {
	GroupID uint `json:"groupId" binding:"required"`
}

// JoinGroup attaches the current teacher to an existing group.
func (h *GroupHandler) JoinGroup(c *gin.Context) {
	claims := sessionClaims(c)

	var req joinTeacherGroupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	group, err := h.groups.Join(claims.UserID, req.GroupID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "group": group})
}

// parseGroupID reads the :id path parameter.
func parseGroupID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid group id"})
		return 0, false
	}
	return uint(id), true
}

// parseStudentID reads the :studentId path parameter.
func parseStudentID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("studentId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid student id"})
		return uuid.Nil, false
	}
	return id, true
}
