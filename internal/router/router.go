package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/fastygo/hunter/api/handler"
)

type Handlers struct {
	Profile     *apiHandler.ProfileHandler
	Task        *apiHandler.TaskHandler
	Workout     *apiHandler.WorkoutHandler
	Leaderboard *apiHandler.LeaderboardHandler
	Health      *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Protected routes
	r.GET("/api/v1/profile", authMiddleware(handlers.Profile.GetProfile))
	r.PUT("/api/v1/profile", authMiddleware(handlers.Profile.UpdateProfile))
	r.GET("/api/v1/profile/summary", authMiddleware(handlers.Profile.Summary))
	r.GET("/api/v1/profile/history", authMiddleware(handlers.Profile.History))

	r.GET("/api/v1/tasks", authMiddleware(handlers.Task.GetTasks))
	r.POST("/api/v1/tasks", authMiddleware(handlers.Task.CreateTask))
	r.POST("/api/v1/tasks/{id}/toggle", authMiddleware(handlers.Task.ToggleTask))
	r.DELETE("/api/v1/tasks/{id}", authMiddleware(handlers.Task.DeleteTask))

	r.GET("/api/v1/workouts", authMiddleware(handlers.Workout.GetWorkouts))
	r.POST("/api/v1/workouts", authMiddleware(handlers.Workout.LogWorkout))

	r.GET("/api/v1/leaderboard", authMiddleware(handlers.Leaderboard.Top))
	r.GET("/api/v1/leaderboard/me", authMiddleware(handlers.Leaderboard.Me))

	return r
}
