package models

import (
	"time"

	"github.com/google/uuid"
)

// Trait is one of the measured personality dimensions. Emotional
// stability and openness exist in the schema but the current predictor
// never populates them.
type Trait string

const (
	TraitExtraversion       Trait = "extraversion"
	TraitAgreeableness      Trait = "agreeableness"
	TraitConscientiousness  Trait = "conscientiousness"
	TraitEmotionalStability Trait = "emotional_stability"
	TraitOpenness           Trait = "openness"
)

// Level is the categorical bucket derived from a trait score.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// Questionnaire is a versioned definition of the 30-item inventory.
// Routes only ever look at the one marked active.
type Questionnaire struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Version   string    `json:"version" gorm:"uniqueIndex;not null"`
	Active    bool      `json:"active" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
}

// Response is the raw 30-answer submission for one questionnaire by one
// student. RawAnswers stores the JSON document with both the ordered
// array and the by-question map.
type Response struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	QuestionnaireID uint      `json:"questionnaire_id" gorm:"not null;uniqueIndex:idx_questionnaire_student"`
	StudentID       uuid.UUID `json:"student_id" gorm:"type:text;not null;uniqueIndex:idx_questionnaire_student"`
	RawAnswers      string    `json:"raw_answers" gorm:"type:text"`
	EvaluatedAt     time.Time `json:"evaluated_at"`

	Questionnaire Questionnaire `json:"-" gorm:"foreignKey:QuestionnaireID"`
	Student       User          `json:"-" gorm:"foreignKey:StudentID"`
}

// Profile is the derived trait record. It is owned by exactly one
// Response but scoped to a course group, so cloning a profile into a new
// group creates a second row sharing the same Response.
type Profile struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	ResponseID uint `json:"response_id" gorm:"not null;index"`
	GroupID    uint `json:"group_id" gorm:"not null;index"`

	ExtraversionScore       *float64 `json:"extraversion_score"`
	AgreeablenessScore      *float64 `json:"agreeableness_score"`
	ConscientiousnessScore  *float64 `json:"conscientiousness_score"`
	EmotionalStabilityScore *float64 `json:"emotional_stability_score"`
	OpennessScore           *float64 `json:"openness_score"`

	ExtraversionLevel       *Level `json:"extraversion_level" gorm:"type:text"`
	AgreeablenessLevel      *Level `json:"agreeableness_level" gorm:"type:text"`
	ConscientiousnessLevel  *Level `json:"conscientiousness_level" gorm:"type:text"`
	EmotionalStabilityLevel *Level `json:"emotional_stability_level" gorm:"type:text"`
	OpennessLevel           *Level `json:"openness_level" gorm:"type:text"`

	ModelVersion string    `json:"model_version"`
	CreatedAt    time.Time `json:"created_at"`

	Response        Response         `json:"-" gorm:"foreignKey:ResponseID"`
	Group           CourseGroup      `json:"-" gorm:"foreignKey:GroupID"`
	Recommendations []Recommendation `json:"recommendations,omitempty" gorm:"foreignKey:ProfileID"`
}

// Recommendation is one per-trait block of strategy text attached to a
// profile.
type Recommendation struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ProfileID uint      `json:"profile_id" gorm:"not null;index"`
	Trait     Trait     `json:"trait" gorm:"type:text;not null"`
	Strategy  string    `json:"strategy" gorm:"type:text"`
	SoftSkill *string   `json:"soft_skill"`
	Source    *string   `json:"source"`
	CreatedAt time.Time `json:"created_at"`

	Profile Profile `json:"-" gorm:"foreignKey:ProfileID"`
}
