package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"traitlens/internal/models"
	"traitlens/internal/repository"
	"traitlens/internal/services"
	"traitlens/pkg/predictor"
	"traitlens/pkg/recommender"
)

var testDBCounter int

type testApp struct {
	db     *gorm.DB
	codec  *services.SessionCodec
	router *gin.Engine
}

// newTestApp wires the full stack against a fresh in-memory database.
// predictorURL and recommenderURL point at httptest fakes (or are empty).
func newTestApp(t *testing.T, predictorURL, recommenderURL string) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	testDBCounter++
	dsn := fmt.Sprintf("file:handlers_test_%d?mode=memory&cache=shared", testDBCounter)
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

	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	questRepo := repository.NewQuestionnaireRepository(db)
	profileRepo := repository.NewProfileRepository(db)

	codec := services.NewSessionCodec("test-secret", 7*24*time.Hour)
	authService := services.NewAuthService(userRepo, groupRepo)
	groupService := services.NewGroupService(groupRepo, userRepo, profileRepo)
	questionnaireService := services.NewQuestionnaireService(
		questRepo, groupRepo, profileRepo,
		predictor.NewClient(predictorURL),
		recommender.NewClient(recommenderURL),
	)
	enrollmentService := services.NewEnrollmentService(db, groupRepo, profileRepo)

	router := NewRouter(
		codec,
		NewAuthHandler(authService, codec),
		NewGroupHandler(groupService),
		NewStudentHandler(questionnaireService, enrollmentService),
		NewTeacherHandler(groupService),
	)

	return &testApp{db: db, codec: codec, router: router}
}

// request performs a JSON request against the router, optionally with a
// session cookie for the given user.
func (a *testApp) request(t *testing.T, method, path string, body interface{}, as *models.User) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	if as != nil {
		token, err := a.codec.Encode(services.SessionClaims{UserID: as.ID, Role: as.Role})
		if err != nil {
			t.Fatalf("failed to encode session: %v", err)
		}
		req.AddCookie(&http.Cookie{Name: services.SessionCookie, Value: token})
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
	return body
}

func (a *testApp) createStudent(t *testing.T, name string) *models.User {
	t.Helper()
	user := &models.User{ID: uuid.New(), Email: name + "@test.edu", PasswordHash: "x", Role: models.RoleStudent}
	if err := a.db.Create(user).Error; err != nil {
		t.Fatalf("failed to create student: %v", err)
	}
	profile := &models.StudentProfile{
		ID: uuid.New(), UserID: user.ID,
		FirstName: name, LastName: "Test", EnrollmentNumber: "B-" + name,
	}
	if err := a.db.Create(profile).Error; err != nil {
		t.Fatalf("failed to create student profile: %v", err)
	}
	return user
}

func (a *testApp) createTeacher(t *testing.T, name string) *models.User {
	t.Helper()
	user := &models.User{ID: uuid.New(), Email: name + "@test.edu", PasswordHash: "x", Role: models.RoleTeacher}
	if err := a.db.Create(user).Error; err != nil {
		t.Fatalf("failed to create teacher: %v", err)
	}
	profile := &models.TeacherProfile{
		ID: uuid.New(), UserID: user.ID,
		FirstName: name, LastName: "Test", EmployeeNumber: "E-" + name,
	}
	if err := a.db.Create(profile).Error; err != nil {
		t.Fatalf("failed to create teacher profile: %v", err)
	}
	return user
}

func (a *testApp) createGroup(t *testing.T, subject string) *models.CourseGroup {
	t.Helper()
	group := &models.CourseGroup{Subject: subject, Section: "7BM1", Cohort: "2025"}
	if err := a.db.Create(group).Error; err != nil {
		t.Fatalf("failed to create group: %v", err)
	}
	return group
}

func (a *testApp) enroll(t *testing.T, group *models.CourseGroup, student *models.User) {
	t.Helper()
	if err := a.db.Create(&models.Enrollment{GroupID: group.ID, StudentID: student.ID}).Error; err != nil {
		t.Fatalf("failed to enroll: %v", err)
	}
}

func (a *testApp) assign(t *testing.T, group *models.CourseGroup, teacher *models.User) {
	t.Helper()
	if err := a.db.Create(&models.TeacherAssignment{TeacherID: teacher.ID, GroupID: group.ID}).Error; err != nil {
		t.Fatalf("failed to assign teacher: %v", err)
	}
}

func (a *testApp) activeQuestionnaire(t *testing.T) *models.Questionnaire {
	t.Helper()
	q := &models.Questionnaire{Version: "v1", Active: true}
	if err := a.db.Create(q).Error; err != nil {
		t.Fatalf("failed to create questionnaire: %v", err)
	}
	return q
}

// fullAnswers answers every canonical question with the given rating.
func fullAnswers(rating int) map[string]int {
	answers := make(map[string]int, len(services.QuestionKeys))
	for _, key := range services.QuestionKeys {
		answers[key] = rating
	}
	return answers
}
