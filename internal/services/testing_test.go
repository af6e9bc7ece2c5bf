package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"traitlens/internal/models"
)

var testDBCounter int

// newTestDB opens a fresh in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	testDBCounter++
	dsn := fmt.Sprintf("file:services_test_%d?mode=memory&cache=shared", testDBCounter)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.StudentProfile{},
		&models.TeacherProfile{},
		&models.CourseGroup{},
		&models.TeacherAssignment{},
		&models.Enrollment{},
		&models.Questionnaire{},
		&models.Response{},
		&models.Profile{},
		&models.Recommendation{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func createTestStudent(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	user := &models.User{ID: uuid.New(), Email: name + "@test.edu", PasswordHash: "x", Role: models.RoleStudent}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create student: %v", err)
	}
	profile := &models.StudentProfile{
		ID: uuid.New(), UserID: user.ID,
		FirstName: name, LastName: "Test", EnrollmentNumber: "B-" + name,
	}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("failed to create student profile: %v", err)
	}
	return user
}

func createTestGroup(t *testing.T, db *gorm.DB, subject string) *models.CourseGroup {
	t.Helper()
	group := &models.CourseGroup{Subject: subject, Section: "7BM1", Cohort: "2025"}
	if err := db.Create(group).Error; err != nil {
		t.Fatalf("failed to create group: %v", err)
	}
	return group
}

func createTestProfile(t *testing.T, db *gorm.DB, studentID uuid.UUID, questionnaireID, groupID uint) *models.Profile {
	t.Helper()
	response := &models.Response{
		QuestionnaireID: questionnaireID,
		StudentID:       studentID,
		RawAnswers:      `{"ordered":[]}`,
		EvaluatedAt:     time.Now(),
	}
	if err := db.Create(response).Error; err != nil {
		t.Fatalf("failed to create response: %v", err)
	}
	score := 25.0
	level := models.LevelMedium
	profile := &models.Profile{
		ResponseID:         response.ID,
		GroupID:            groupID,
		ExtraversionScore:  &score,
		ExtraversionLevel:  &level,
		AgreeablenessScore: &score,
		AgreeablenessLevel: &level,
		ModelVersion:       "v1.0",
	}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}
	return profile
}

func createTestQuestionnaire(t *testing.T, db *gorm.DB) *models.Questionnaire {
	t.Helper()
	q := &models.Questionnaire{Version: "v1", Active: true}
	if err := db.Create(q).Error; err != nil {
		t.Fatalf("failed to create questionnaire: %v", err)
	}
	return q
}

// fullAnswers answers every canonical question with the given rating.
func fullAnswers(rating int) map[string]int {
	answers := make(map[string]int, len(QuestionKeys))
	for _, key := range QuestionKeys {
		answers[key] = rating
	}
	return answers
}
