package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"traitlens/internal/models"
	"traitlens/internal/repository"
	"traitlens/pkg/predictor"
	"traitlens/pkg/recommender"
)

func TestLevelFromScore(t *testing.T) {
	cases := []struct {
		score float64
		want  models.Level
	}{
		{0, models.LevelLow},
		{19, models.LevelLow},
		{19.9, models.LevelLow},
		{20, models.LevelMedium},
		{29, models.LevelMedium},
		{29.9, models.LevelMedium},
		{30, models.LevelHigh},
		{40, models.LevelHigh},
	}
	for _, tc := range cases {
		score := tc.score
		got := LevelFromScore(&score)
		if assert.NotNil(t, got, "score %v", tc.score) {
			assert.Equal(t, tc.want, *got, "score %v", tc.score)
		}
	}
	assert.Nil(t, LevelFromScore(nil))
}

func TestParseLevel(t *testing.T) {
	cases := []struct {
		raw  string
		want *models.Level
	}{
		{"bajo", levelPtr(models.LevelLow)},
		{"BAJO", levelPtr(models.LevelLow)},
		{"  Medio ", levelPtr(models.LevelMedium)},
		{"MEDIO", levelPtr(models.LevelMedium)},
		{"alto", levelPtr(models.LevelHigh)},
		{"Alta", levelPtr(models.LevelHigh)},
		{"", nil},
		{"unknown", nil},
	}
	for _, tc := range cases {
		got := ParseLevel(tc.raw)
		if tc.want == nil {
			assert.Nil(t, got, "raw %q", tc.raw)
		} else if assert.NotNil(t, got, "raw %q", tc.raw) {
			assert.Equal(t, *tc.want, *got, "raw %q", tc.raw)
		}
	}
}

func levelPtr(l models.Level) *models.Level { return &l }

func TestMissingQuestions(t *testing.T) {
	answers := fullAnswers(3)
	delete(answers, QuestionKeys[0])
	delete(answers, QuestionKeys[12])

	missing := missingQuestions(answers)
	assert.Equal(t, []string{QuestionKeys[0], QuestionKeys[12]}, missing)

	assert.Empty(t, missingQuestions(fullAnswers(1)))
}

func TestSubmitPersistsResponseAndProfile(t *testing.T) {
	db := newTestDB(t)
	student := createTestStudent(t, db, "ana")
	group := createTestGroup(t, db, "Cálculo")
	createTestQuestionnaire(t, db)
	assert.NoError(t, db.Create(&models.Enrollment{GroupID: group.ID, StudentID: student.ID}).Error)

	predictorSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req predictor.Request
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Len(t, req.Answers, 30)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"extraversion":      35.0,
			"agreeableness":     25.0,
			"conscientiousness": 10.0,
			"levels":            map[string]string{"extraversion": "ALTO"},
			"model_version":     "big5-v2",
		})
	}))
	defer predictorSrv.Close()

	svc := NewQuestionnaireService(
		repository.NewQuestionnaireRepository(db),
		repository.NewGroupRepository(db),
		repository.NewProfileRepository(db),
		predictor.NewClient(predictorSrv.URL),
		recommender.NewClient(""), // disabled
	)

	result, err := svc.Submit(context.Background(), student.ID, fullAnswers(4))
	assert.NoError(t, err)
	assert.NotZero(t, result.ResponseID)
	assert.NotZero(t, result.ProfileID)

	var profile models.Profile
	assert.NoError(t, db.First(&profile, "id = ?", result.ProfileID).Error)
	assert.Equal(t, group.ID, profile.GroupID)
	assert.Equal(t, result.ResponseID, profile.ResponseID)
	assert.Equal(t, "big5-v2", profile.ModelVersion)
	// Predictor-sent level wins over the threshold bucket.
	assert.Equal(t, models.LevelHigh, *profile.ExtraversionLevel)
	// Threshold fallback for the rest.
	assert.Equal(t, models.LevelMedium, *profile.AgreeablenessLevel)
	assert.Equal(t, models.LevelLow, *profile.ConscientiousnessLevel)
	// Traits the model does not compute stay null.
	assert.Nil(t, profile.EmotionalStabilityScore)
	assert.Nil(t, profile.OpennessLevel)
}

func TestSubmitRejectsIncompleteAnswers(t *testing.T) {
	db := newTestDB(t)
	student := createTestStudent(t, db, "luis")

	svc := NewQuestionnaireService(
		repository.NewQuestionnaireRepository(db),
		repository.NewGroupRepository(db),
		repository.NewProfileRepository(db),
		predictor.NewClient("http://127.0.0.1:0"),
		recommender.NewClient(""),
	)

	answers := fullAnswers(3)
	delete(answers, QuestionKeys[5])
	delete(answers, QuestionKeys[6])

	_, err := svc.Submit(context.Background(), student.ID, answers)
	var missingErr *MissingAnswersError
	if assert.ErrorAs(t, err, &missingErr) {
		assert.Equal(t, []string{QuestionKeys[5], QuestionKeys[6]}, missingErr.Missing)
	}
}

func TestSubmitRejectsSecondSubmission(t *testing.T) {
	db := newTestDB(t)
	student := createTestStudent(t, db, "eva")
	group := createTestGroup(t, db, "Física")
	q := createTestQuestionnaire(t, db)
	assert.NoError(t, db.Create(&models.Enrollment{GroupID: group.ID, StudentID: student.ID}).Error)
	createTestProfile(t, db, student.ID, q.ID, group.ID)

	svc := NewQuestionnaireService(
		repository.NewQuestionnaireRepository(db),
		repository.NewGroupRepository(db),
		repository.NewProfileRepository(db),
		predictor.NewClient("http://127.0.0.1:0"),
		recommender.NewClient(""),
	)

	_, err := svc.Submit(context.Background(), student.ID, fullAnswers(2))
	assert.ErrorIs(t, err, ErrAlreadyAnswered)
}

func TestSubmitRequiresEnrollment(t *testing.T) {
	db := newTestDB(t)
	student := createTestStudent(t, db, "sol")
	createTestQuestionnaire(t, db)

	svc := NewQuestionnaireService(
		repository.NewQuestionnaireRepository(db),
		repository.NewGroupRepository(db),
		repository.NewProfileRepository(db),
		predictor.NewClient("http://127.0.0.1:0"),
		recommender.NewClient(""),
	)

	_, err := svc.Submit(context.Background(), student.ID, fullAnswers(3))
	assert.ErrorIs(t, err, ErrNotEnrolled)
}

func TestSubmitPredictorFailure(t *testing.T) {
	db := newTestDB(t)
	student := createTestStudent(t, db, "rey")
	group := createTestGroup(t, db, "Química")
	createTestQuestionnaire(t, db)
	assert.NoError(t, db.Create(&models.Enrollment{GroupID: group.ID, StudentID: student.ID}).Error)

	predictorSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model offline", http.StatusInternalServerError)
	}))
	defer predictorSrv.Close()

	svc := NewQuestionnaireService(
		repository.NewQuestionnaireRepository(db),
		repository.NewGroupRepository(db),
		repository.NewProfileRepository(db),
		predictor.NewClient(predictorSrv.URL),
		recommender.NewClient(""),
	)

	_, err := svc.Submit(context.Background(), student.ID, fullAnswers(3))
	var predErr *PredictorError
	assert.ErrorAs(t, err, &predErr)

	// Nothing persisted on predictor failure.
	var count int64
	db.Model(&models.Response{}).Count(&count)
	assert.Zero(t, count)
}

func TestSourceRecommendationsPersistsRows(t *testing.T) {
	db := newTestDB(t)
	student := createTestStudent(t, db, "mia")
	group := createTestGroup(t, db, "Historia")
	q := createTestQuestionnaire(t, db)
	profile := createTestProfile(t, db, student.ID, q.ID, group.ID)

	workflowSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The workflow answers with its JSON wrapped in an output string.
		inner := `{"extraversion":{"recommendations":["Habla primero","Escucha después"]},"agreeableness":{"recommendations":["Colabora"]},"conscientiousness":{"recommendations":[]}}`
		json.NewEncoder(w).Encode(map[string]string{"output": inner})
	}))
	defer workflowSrv.Close()

	svc := NewQuestionnaireService(
		repository.NewQuestionnaireRepository(db),
		repository.NewGroupRepository(db),
		repository.NewProfileRepository(db),
		predictor.NewClient(""),
		recommender.NewClient(workflowSrv.URL),
	)

	svc.sourceRecommendations(student.ID, profile)

	var rows []models.Recommendation
	assert.NoError(t, db.Where("profile_id = ?", profile.ID).Order("id ASC").Find(&rows).Error)
	if assert.Len(t, rows, 2) {
		assert.Equal(t, models.TraitExtraversion, rows[0].Trait)
		assert.Equal(t, "Habla primero\n\nEscucha después", rows[0].Strategy)
		assert.Equal(t, RecommendationSource, *rows[0].Source)
		assert.Equal(t, models.TraitAgreeableness, rows[1].Trait)
	}
}

func TestSourceRecommendationsSwallowsFailure(t *testing.T) {
	db := newTestDB(t)
	student := createTestStudent(t, db, "leo")
	group := createTestGroup(t, db, "Arte")
	q := createTestQuestionnaire(t, db)
	profile := createTestProfile(t, db, student.ID, q.ID, group.ID)

	workflowSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "workflow down", http.StatusBadGateway)
	}))
	defer workflowSrv.Close()

	svc := NewQuestionnaireService(
		repository.NewQuestionnaireRepository(db),
		repository.NewGroupRepository(db),
		repository.NewProfileRepository(db),
		predictor.NewClient(""),
		recommender.NewClient(workflowSrv.URL),
	)

	// Must not panic and must not persist anything.
	svc.sourceRecommendations(student.ID, profile)

	var count int64
	db.Model(&models.Recommendation{}).Count(&count)
	assert.Zero(t, count)
}
