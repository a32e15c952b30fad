package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/hossein5161/exam/internal/config"
	"github.com/hossein5161/exam/internal/models"
	"github.com/hossein5161/exam/internal/repositories"
	"github.com/hossein5161/exam/internal/services"
	"github.com/hossein5161/exam/internal/utils"
)

type HandlerManager struct {
	authHandler    *AuthHandler
	userHandler    *UserHandler
	courseHandler  *CourseHandler
	examHandler    *ExamHandler
	authMiddleware *CasdoorAuthMiddleware
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
	casdoorConfig config.CasdoorConfig,
	userRepo repositories.UserRepository,
) *HandlerManager {
	authMiddleware := NewCasdoorAuthMiddleware(casdoorConfig, userRepo)

	return &HandlerManager{
		authHandler:    NewAuthHandler(serviceManager.User(), serviceManager.PasswordReset(), serviceManager.Notification(), logger),
		userHandler:    NewUserHandler(serviceManager.User(), serviceManager.Report(), serviceManager.Notification(), logger),
		courseHandler:  NewCourseHandler(serviceManager.Course(), serviceManager.Report(), logger),
		examHandler:    NewExamHandler(serviceManager.Exam(), logger),
		authMiddleware: authMiddleware,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")

	// Public routes: registration, second-role requests, password reset
	auth := v1.Group("/auth")
	{
		auth.POST("/register", hm.authHandler.Register)
		auth.POST("/add-role", hm.authHandler.AddRole)
		auth.POST("/forgot-password", hm.authHandler.ForgotPassword)
		auth.POST("/verify-reset-code", hm.authHandler.VerifyResetCode)
		auth.POST("/reset-password", hm.authHandler.ResetPassword)
	}

	// Authenticated routes
	authed := v1.Group("")
	authed.Use(hm.authMiddleware.AuthMiddleware())
	{
		// User management - Admins only
		users := authed.Group("/users")
		users.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin))
		{
			users.GET("", hm.userHandler.ListUsers)
			users.GET("/search", hm.userHandler.SearchUsers)
			users.GET("/pending", hm.userHandler.ListPendingUsers)
			users.GET("/export", hm.userHandler.ExportUsers)
			users.GET("/:id", hm.userHandler.GetUser)
			users.PUT("/:id", hm.userHandler.UpdateUser)
			users.DELETE("/:id", hm.userHandler.DeleteUser)
			users.POST("/:id/approve", hm.userHandler.ApproveUser)
			users.POST("/:id/reject", hm.userHandler.RejectUser)
			users.PUT("/:id/roles", hm.userHandler.ChangeUserRoles)
		}

		// Course management
		courses := authed.Group("/courses")
		{
			// View courses - all authenticated users
			courses.GET("", hm.courseHandler.ListCourses)
			courses.GET("/:id", hm.courseHandler.GetCourse)
			courses.GET("/:id/participants", hm.courseHandler.GetParticipants)

			// Modify courses and enrollment - Admins only
			courses.POST("", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.courseHandler.CreateCourse)
			courses.PUT("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.courseHandler.UpdateCourse)
			courses.DELETE("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.courseHandler.DeleteCourse)
			courses.PUT("/:id/teacher/:user_id", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.courseHandler.AssignTeacher)
			courses.POST("/:id/students/:user_id", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.courseHandler.AddStudent)
			courses.DELETE("/:id/students/:user_id", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.courseHandler.RemoveStudent)
			courses.GET("/:id/roster/export", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.courseHandler.ExportRoster)
		}

		// Exam management - Teachers and Admins
		exams := authed.Group("/exams")
		exams.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher, models.RoleAdmin))
		{
			exams.POST("", hm.examHandler.CreateExam)
			exams.GET("/mine", hm.examHandler.ListMyExams)
			exams.GET("/:id", hm.examHandler.GetExam)
			exams.PUT("/:id", hm.examHandler.UpdateExam)
			exams.DELETE("/:id", hm.examHandler.DeleteExam)
			exams.GET("/course/:course_id", hm.examHandler.ListExamsByCourse)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "exam-admin-service",
		})
	})
}
