package main

import (
	"fmt"
	"log"

	"traitlens/internal/config"
	"traitlens/internal/handlers"
	"traitlens/internal/repository"
	"traitlens/internal/services"
	"traitlens/pkg/database"
	"traitlens/pkg/predictor"
	"traitlens/pkg/recommender"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewDatabase(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Repositories
	userRepo := repository.NewUserRepository(db.DB)
	groupRepo := repository.NewGroupRepository(db.DB)
	questRepo := repository.NewQuestionnaireRepository(db.DB)
	profileRepo := repository.NewProfileRepository(db.DB)

	// A fresh database needs an active questionnaire before students can
	// answer anything.
	if _, err := questRepo.EnsureActive(cfg.QuestionnaireVersion); err != nil {
		log.Fatalf("Failed to ensure active questionnaire: %v", err)
	}

	// Outbound clients
	predictorClient := predictor.NewClient(cfg.PredictorURL)
	recommenderClient := recommender.NewClient(cfg.RecommendationsURL)

	// Services
	sessionCodec := services.NewSessionCodec(cfg.SessionSecret, cfg.SessionTTL)
	authService := services.NewAuthService(userRepo, groupRepo)
	groupService := services.NewGroupService(groupRepo, userRepo, profileRepo)
	questionnaireService := services.NewQuestionnaireService(questRepo, groupRepo, profileRepo, predictorClient, recommenderClient)
	enrollmentService := services.NewEnrollmentService(db.DB, groupRepo, profileRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, sessionCodec)
	groupHandler := handlers.NewGroupHandler(groupService)
	studentHandler := handlers.NewStudentHandler(questionnaireService, enrollmentService)
	teacherHandler := handlers.NewTeacherHandler(groupService)

	router := handlers.NewRouter(sessionCodec, authHandler, groupHandler, studentHandler, teacherHandler)

	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	log.Printf("Starting traitlens server on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
