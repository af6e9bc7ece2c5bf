package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"traitlens/internal/models"
	"traitlens/internal/repository"
	"traitlens/pkg/predictor"
	"traitlens/pkg/recommender"
)

// RecommendationSource tags recommendation rows produced by the
// workflow engine.
const RecommendationSource = "rag-n8n-v1"

// QuestionnaireService handles intake of the 30-item inventory and the
// materialization of trait profiles.
type QuestionnaireService struct {
	questRepo   repository.QuestionnaireRepository
	groupRepo   repository.GroupRepository
	profileRepo repository.ProfileRepository
	predictor   *predictor.Client
	recommender *recommender.Client
}

// NewQuestionnaireService creates a new questionnaire service.
func NewQuestionnaireService(
	questRepo repository.QuestionnaireRepository,
	groupRepo repository.GroupRepository,
	profileRepo repository.ProfileRepository,
	predictorClient *predictor.Client,
	recommenderClient *recommender.Client,
) *QuestionnaireService {
	return &QuestionnaireService{
		questRepo:   questRepo,
		groupRepo:   groupRepo,
		profileRepo: profileRepo,
		predictor:   predictorClient,
		recommender: recommenderClient,
	}
}

// StatusResult reports whether the student already answered the active
// questionnaire.
type StatusResult struct {
	Answered    bool       `json:"answered"`
	ResponseID  *uint      `json:"responseId,omitempty"`
	EvaluatedAt *time.Time `json:"evaluatedAt,omitempty"`
	Reason      string     `json:"reason,omitempty"`
}

// Status looks up the active questionnaire and the student's response to
// it.
func (s *QuestionnaireService) Status(studentID uuid.UUID) (*StatusResult, error) {
	questionnaire, err := s.questRepo.GetActive()
	if err == gorm.ErrRecordNotFound {
		return &StatusResult{Answered: false, Reason: "no-active-questionnaire"}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up active questionnaire: %w", err)
	}

	response, err := s.questRepo.GetResponse(questionnaire.ID, studentID)
	if err == gorm.ErrRecordNotFound {
		return &StatusResult{Answered: false}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up response: %w", err)
	}
	return &StatusResult{Answered: true, ResponseID: &response.ID, EvaluatedAt: &response.EvaluatedAt}, nil
}

// SubmitResult is returned once the profile is persisted. Recommendation
// sourcing still runs in the background at that point.
type SubmitResult struct {
	ResponseID uint `json:"responseId"`
	ProfileID  uint `json:"profileId"`
}

// Submit validates the answers, scores them through the predictor and
// persists the raw response plus the derived profile for the student's
// group. The recommendation workflow is fired afterwards without being
// awaited.
func (s *QuestionnaireService) Submit(ctx context.Context, studentID uuid.UUID, answers map[string]int) (*SubmitResult, error) {
	missing := missingQuestions(answers)
	if len(missing) > 0 {
		return nil, &MissingAnswersError{Missing: missing}
	}

	questionnaire, err := s.questRepo.GetActive()
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNoActiveQuestionnaire
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up active questionnaire: %w", err)
	}

	if _, err := s.questRepo.GetResponse(questionnaire.ID, studentID); err == nil {
		return nil, ErrAlreadyAnswered
	} else if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to look up response: %w", err)
	}

	enrollment, err := s.groupRepo.FirstEnrollmentByStudent(studentID)
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotEnrolled
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up enrollment: %w", err)
	}

	ordered := make([]int, len(QuestionKeys))
	for i, key := range QuestionKeys {
		ordered[i] = answers[key]
	}

	pred, err := s.predictor.Predict(ctx, &predictor.Request{
		Answers:         ordered,
		StudentID:       studentID.String(),
		QuestionnaireID: questionnaire.ID,
	})
	if err != nil {
		return nil, &PredictorError{Err: err}
	}

	raw, err := json.Marshal(map[string]interface{}{
		"ordered":    ordered,
		"byQuestion": answers,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode raw answers: %w", err)
	}

	response := &models.Response{
		QuestionnaireID: questionnaire.ID,
		StudentID:       studentID,
		RawAnswers:      string(raw),
		EvaluatedAt:     time.Now(),
	}
	if err := s.questRepo.CreateResponse(response); err != nil {
		return nil, fmt.Errorf("failed to save response: %w", err)
	}

	modelVersion := pred.ModelVersion
	if modelVersion == "" {
		modelVersion = "v1.0"
	}

	profile := &models.Profile{
		ResponseID:             response.ID,
		GroupID:                enrollment.GroupID,
		ExtraversionScore:      pred.Extraversion,
		AgreeablenessScore:     pred.Agreeableness,
		ConscientiousnessScore: pred.Conscientiousness,
		// Emotional stability and openness stay null: the current
		// predictor does not compute them.
		ExtraversionLevel:      resolveLevel(pred.Levels["extraversion"], pred.Extraversion),
		AgreeablenessLevel:     resolveLevel(pred.Levels["agreeableness"], pred.Agreeableness),
		ConscientiousnessLevel: resolveLevel(pred.Levels["conscientiousness"], pred.Conscientiousness),
		ModelVersion:           modelVersion,
	}
	if err := s.profileRepo.Create(profile); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	// Fire and forget: the submission succeeds no matter what the
	// workflow does.
	go s.sourceRecommendations(studentID, profile)

	return &SubmitResult{ResponseID: response.ID, ProfileID: profile.ID}, nil
}

// sourceRecommendations calls the workflow engine and persists one
// recommendation row per trait with usable content. Every failure is
// logged and swallowed.
func (s *QuestionnaireService) sourceRecommendations(studentID uuid.UUID, profile *models.Profile) {
	if !s.recommender.Enabled() {
		log.Printf("recommendations: workflow URL not configured, skipping profile %d", profile.ID)
		return
	}

	req := &recommender.Request{
		StudentID: studentID.String(),
		ProfileID: profile.ID,
		GroupID:   profile.GroupID,
		Traits: map[string]recommender.TraitInput{
			string(models.TraitExtraversion):      {Score: profile.ExtraversionScore, Level: levelString(profile.ExtraversionLevel)},
			string(models.TraitConscientiousness): {Score: profile.ConscientiousnessScore, Level: levelString(profile.ConscientiousnessLevel)},
			string(models.TraitAgreeableness):     {Score: profile.AgreeablenessScore, Level: levelString(profile.AgreeablenessLevel)},
		},
	}

	payload, err := s.recommender.Generate(context.Background(), req)
	if err != nil {
		log.Printf("recommendations: workflow call failed for profile %d: %v", profile.ID, err)
		return
	}

	source := RecommendationSource
	var rows []models.Recommendation
	for _, trait := range []models.Trait{models.TraitExtraversion, models.TraitAgreeableness, models.TraitConscientiousness} {
		recs := payload[string(trait)].Recommendations
		if len(recs) == 0 {
			continue
		}
		rows = append(rows, models.Recommendation{
			ProfileID: profile.ID,
			Trait:     trait,
			Strategy:  strings.Join(recs, "\n\n"),
			Source:    &source,
		})
	}

	if len(rows) == 0 {
		log.Printf("recommendations: workflow returned no usable content for profile %d", profile.ID)
		return
	}
	if err := s.profileRepo.CreateRecommendations(rows); err != nil {
		log.Printf("recommendations: failed to save rows for profile %d: %v", profile.ID, err)
	}
}

// missingQuestions lists the canonical question texts absent from the
// submitted answers, in canonical order.
func missingQuestions(answers map[string]int) []string {
	var missing []string
	for _, key := range QuestionKeys {
		if _, ok := answers[key]; !ok {
			missing = append(missing, key)
		}
	}
	return missing
}

// resolveLevel prefers the predictor-supplied categorical level and
// falls back to score thresholds.
func resolveLevel(raw string, score *float64) *models.Level {
	if level := ParseLevel(raw); level != nil {
		return level
	}
	return LevelFromScore(score)
}

// ParseLevel maps raw predictor levels such as "BAJO", "medio" or
// "Alto" onto the categorical buckets by case-insensitive prefix.
func ParseLevel(raw string) *models.Level {
	v := strings.ToLower(strings.TrimSpace(raw))
	var level models.Level
	switch {
	case strings.HasPrefix(v, "baj"):
		level = models.LevelLow
	case strings.HasPrefix(v, "med"):
		level = models.LevelMedium
	case strings.HasPrefix(v, "alt"):
		level = models.LevelHigh
	default:
		return nil
	}
	return &level
}

// LevelFromScore buckets a numeric trait score: below 20 is low, below
// 30 medium, 30 and above high.
func LevelFromScore(score *float64) *models.Level {
	if score == nil {
		return nil
	}
	var level models.Level
	switch {
	case *score < 20:
		level = models.LevelLow
	case *score < 30:
		level = models.LevelMedium
	default:
		level = models.LevelHigh
	}
	return &level
}

func levelString(level *models.Level) *string {
	if level == nil {
		return nil
	}
	s := string(*level)
	return &s
}
