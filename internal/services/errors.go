package services

import (
	"errors"
	"fmt"
)

// Sentinel errors the handlers map to HTTP status codes.
var (
	ErrNotFound              = errors.New("not found")
	ErrInvalidInput          = errors.New("invalid input")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrAlreadyEnrolled       = errors.New("student already enrolled in this group")
	ErrAlreadyAnswered       = errors.New("questionnaire already answered")
	ErrNoActiveQuestionnaire = errors.New("no active questionnaire configured")
	ErrNotEnrolled           = errors.New("student has no group assigned")
	ErrNotAssigned           = errors.New("teacher is not assigned to this group")
)

// MissingAnswersError reports which question texts were left unanswered.
type MissingAnswersError struct {
	Missing []string
}

func (e *MissingAnswersError) Error() string {
	return fmt.Sprintf("questionnaire is missing %d answers", len(e.Missing))
}

// PredictorError wraps a failure of the synchronous trait predictor so
// handlers can answer with 502.
type PredictorError struct {
	Err error
}

func (e *PredictorError) Error() string { return fmt.Sprintf("predictor failure: %v", e.Err) }
func (e *PredictorError) Unwrap() error { return e.Err }
