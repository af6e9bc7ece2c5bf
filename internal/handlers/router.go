package handlers

import (
	"github.com/gin-gonic/gin"

	"traitlens/internal/models"
	"traitlens/internal/services"
)

// NewRouter assembles the gin engine with all middleware and routes.
func NewRouter(
	codec *services.SessionCodec,
	authHandler *AuthHandler,
	groupHandler *GroupHandler,
	studentHandler *StudentHandler,
	teacherHandler *TeacherHandler,
) *gin.Engine {
	router := gin.Default()

	router.Use(CORSMiddleware())
	router.Use(SessionMiddleware(codec))
	router.Use(PageGate())

	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
		auth.GET("/me", authHandler.Me)
	}

	api.GET("/public/groups", groupHandler.PublicList)

	student := api.Group("/student")
	student.Use(RequireRole(models.RoleStudent))
	{
		student.GET("/questionnaire/status", studentHandler.QuestionnaireStatus)
		student.POST("/questionnaire", studentHandler.SubmitQuestionnaire)
		student.POST("/groups/join", studentHandler.JoinGroup)
	}

	teacher := api.Group("/teacher")
	teacher.Use(RequireRole(models.RoleTeacher))
	{
		teacher.GET("/groups", groupHandler.ListGroups)
		teacher.POST("/groups", groupHandler.CreateGroup)
		teacher.POST("/groups/join", groupHandler.JoinGroup)
		teacher.GET("/groups/:id/students", teacherHandler.GroupStudents)
		teacher.GET("/groups/:id/students/:studentId", teacherHandler.StudentDetail)
	}

	return router
}
