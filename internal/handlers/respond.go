package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"traitlens/internal/services"
)

// respondError maps service errors onto the standardized JSON envelope.
// Unclassified errors become an opaque 500; the original error only goes
// to the server log.
func respondError(c *gin.Context, err error) {
	var missingErr *services.MissingAnswersError
	if errors.As(err, &missingErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"ok":               false,
			"error":            "questionnaire answers are incomplete",
			"missingQuestions": missingErr.Missing,
		})
		return
	}

	var predictorErr *services.PredictorError
	if errors.As(err, &predictorErr) {
		log.Printf("predictor error: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": "failed to score the questionnaire"})
		return
	}

	switch {
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrAlreadyEnrolled),
		errors.Is(err, services.ErrAlreadyAnswered),
		errors.Is(err, services.ErrNotEnrolled):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, services.ErrNotAssigned):
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, services.ErrNoActiveQuestionnaire):
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
	default:
		log.Printf("internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal server error"})
	}
}
