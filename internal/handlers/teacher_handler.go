package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"traitlens/internal/services"
)

// TeacherHandler serves the teacher aggregation views.
type TeacherHandler struct {
	groups *services.GroupService
}

// NewTeacherHandler creates a new teacher handler.
func NewTeacherHandler(groups *services.GroupService) *TeacherHandler {
	return &TeacherHandler{groups: groups}
}

// GroupStudents returns the roster and per-trait level tally for one
// group. Teachers only see groups they are assigned to.
func (h *TeacherHandler) GroupStudents(c *gin.Context) {
	claims := sessionClaims(c)

	groupID, ok := parseGroupID(c)
	if !ok {
		return
	}

	roster, err := h.groups.Roster(claims.UserID, groupID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":       true,
		"group":    roster.Group,
		"students": roster.Students,
		"summary":  roster.Summary,
	})
}

// StudentDetail returns the full trait scores and recommendations of one
// student within a group.
func (h *TeacherHandler) StudentDetail(c *gin.Context) {
	claims := sessionClaims(c)

	groupID, ok := parseGroupID(c)
	if !ok {
		return
	}
	studentID, ok := parseStudentID(c)
	if !ok {
		return
	}

	detail, err := h.groups.StudentDetail(claims.UserID, groupID, studentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":              true,
		"group":           detail.Group,
		"student":         detail.Student,
		"profile":         detail.Profile,
		"recommendations": detail.Recommendations,
	})
}
