package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"traitlens/internal/services"
)

// StudentHandler serves the student-side questionnaire and enrollment
// routes.
type StudentHandler struct {
	questionnaires *services.QuestionnaireService
	enrollments    *services.EnrollmentService
}

// NewStudentHandler creates a new student handler.
func NewStudentHandler(questionnaires *services.QuestionnaireService, enrollments *services.EnrollmentService) *StudentHandler {
	return &StudentHandler{questionnaires: questionnaires, enrollments: enrollments}
}

// QuestionnaireStatus reports whether the student already answered the
// active questionnaire.
func (h *StudentHandler) QuestionnaireStatus(c *gin.Context) {
	claims := sessionClaims(c)

	status, err := h.questionnaires.Status(claims.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

type submitReq struct {
	Answers map[string]int `json:"answers" binding:"required"`
}

// SubmitQuestionnaire validates and scores the 30 answers. The response
// is sent once the profile is stored; recommendation sourcing continues
// in the background.
func (h *StudentHandler) SubmitQuestionnaire(c *gin.Context) {
	claims := sessionClaims(c)

	var req submitReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	result, err := h.questionnaires.Submit(c.Request.Context(), claims.UserID, req.Answers)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":         true,
		"responseId": result.ResponseID,
		"profileId":  result.ProfileID,
		"message":    "Cuestionario guardado correctamente. Tus resultados están procesándose.",
	})
}

type joinGroupReq struct {
	GroupID uint `json:"groupId" binding:"required"`
}

// JoinGroup enrolls the student in another group, carrying over an
// existing profile when there is one.
func (h *StudentHandler) JoinGroup(c *gin.Context) {
	claims := sessionClaims(c)

	var req joinGroupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	result, err := h.enrollments.JoinGroup(claims.UserID, req.GroupID)
	if err != nil {
		respondError(c, err)
		return
	}

	message := "Te has unido a la materia. Tu perfil y recomendaciones se generarán cuando contestes el cuestionario."
	if result.Cloned {
		message = "Te has unido a la materia y se ha asociado tu perfil y recomendaciones existentes."
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":      true,
		"group":   result.Group,
		"cloned":  result.Cloned,
		"message": message,
	})
}
