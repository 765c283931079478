package api

import (
	"net/http"
	"time"

	"fitstudio/server/internal/domain"
	"fitstudio/server/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Services is everything the HTTP layer calls into.
type Services struct {
	Auth      service.AuthService
	Users     service.UserService
	Workouts  service.WorkoutService
	Exercises service.ExerciseService
	Sessions  service.SessionService
	Payments  service.PaymentService
	Progress  service.ProgressService
	Dashboard service.DashboardService
}

// NewRouter builds an engine with the standard middleware chain. An empty
// origin list disables CORS.
func NewRouter(log *zap.Logger, allowedOrigins []string) *gin.Engine {
	if log == nil {
		log = zap.NewNop()
	}
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), RequestLogger(log))
	if len(allowedOrigins) > 0 {
		router.Use(CORS(allowedOrigins))
	}
	return router
}

// SetupRoutes mounts the /api/v1 surface. loc is the zone date-only query
// parameters are read in.
func SetupRoutes(router *gin.Engine, svc Services, loc *time.Location) {
	authHandler := NewAuthHandler(svc.Auth, svc.Users)
	studentHandler := NewStudentHandler(svc.Users)
	workoutHandler := NewWorkoutHandler(svc.Workouts)
	exerciseHandler := NewExerciseHandler(svc.Exercises)
	scheduleHandler := NewScheduleHandler(svc.Sessions, loc)
	paymentHandler := NewPaymentHandler(svc.Payments, loc)
	progressHandler := NewProgressHandler(svc.Progress, loc)
	dashboardHandler := NewDashboardHandler(svc.Dashboard)

	trainerOnly := RoleMiddleware(domain.RoleTrainer)
	studentOnly := RoleMiddleware(domain.RoleStudent)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(AuthMiddleware(svc.Auth))
	{
		protected.GET("/me", authHandler.Me)
		protected.PATCH("/me", authHandler.UpdateMe)
		protected.POST("/me/password", authHandler.ChangePassword)

		protected.GET("/dashboard", dashboardHandler.GetDashboard)

		studentGroup := protected.Group("/students")
		{
			studentGroup.GET("", trainerOnly, studentHandler.ListStudents)
			studentGroup.GET("/:id", studentHandler.GetStudent)
		}

		workoutGroup := protected.Group("/workouts")
		{
			// Students get their assigned workouts with completion state.
			workoutGroup.GET("", workoutHandler.ListWorkouts)
			workoutGroup.POST("", trainerOnly, workoutHandler.CreateWorkout)
			workoutGroup.GET("/:id", workoutHandler.GetWorkout)
			workoutGroup.PATCH("/:id", trainerOnly, workoutHandler.UpdateWorkout)
			workoutGroup.DELETE("/:id", trainerOnly, workoutHandler.DeleteWorkout)

			workoutGroup.POST("/:id/assign", trainerOnly, workoutHandler.AssignWorkout)
			workoutGroup.GET("/:id/assignments", workoutHandler.ListAssignments)
			workoutGroup.POST("/:id/complete", workoutHandler.CompleteWorkout)

			workoutGroup.GET("/:id/exercises", workoutHandler.GetWorkoutExercises)
			workoutGroup.POST("/:id/exercises", trainerOnly, workoutHandler.AddExercise)
			workoutGroup.DELETE("/:id/exercises/:entryId", trainerOnly, workoutHandler.RemoveExercise)
		}

		exerciseGroup := protected.Group("/exercises")
		exerciseGroup.Use(trainerOnly)
		{
			exerciseGroup.GET("", exerciseHandler.GetTrainerExercises)
			exerciseGroup.POST("", exerciseHandler.CreateExercise)
			exerciseGroup.GET("/:id", exerciseHandler.GetExercise)
			exerciseGroup.PATCH("/:id", exerciseHandler.UpdateExercise)
			exerciseGroup.DELETE("/:id", exerciseHandler.DeleteExercise)
		}

		scheduleGroup := protected.Group("/schedule")
		{
			scheduleGroup.GET("", scheduleHandler.ListSessions)
			scheduleGroup.POST("", trainerOnly, scheduleHandler.CreateSession)
			scheduleGroup.GET("/:id", scheduleHandler.GetSession)
			scheduleGroup.PATCH("/:id", trainerOnly, scheduleHandler.UpdateSession)
			scheduleGroup.POST("/:id/cancel", trainerOnly, scheduleHandler.CancelSession)
			scheduleGroup.POST("/:id/complete", trainerOnly, scheduleHandler.CompleteSession)
		}

		paymentGroup := protected.Group("/payments")
		{
			paymentGroup.GET("", paymentHandler.ListPayments)
			paymentGroup.POST("", trainerOnly, paymentHandler.CreatePayment)
			paymentGroup.GET("/:id", paymentHandler.GetPayment)
			paymentGroup.PATCH("/:id", trainerOnly, paymentHandler.UpdatePaymentStatus)
		}

		progressGroup := protected.Group("/progress")
		{
			progressGroup.GET("", progressHandler.ListProgress)
			progressGroup.POST("", studentOnly, progressHandler.RecordProgress)
		}
	}
}
