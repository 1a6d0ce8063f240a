package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/roomly/backend/api/handler"
)

type Handlers struct {
	Auth      *apiHandler.AuthHandler
	Profile   *apiHandler.ProfileHandler
	Apartment *apiHandler.ApartmentHandler
	Board     *apiHandler.BoardHandler
	Rating    *apiHandler.RatingHandler
	Events    *apiHandler.EventsHandler
	Health    *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Auth routes
	r.POST("/api/v1/auth/signup", handlers.Auth.SignUp)
	r.POST("/api/v1/auth/signin", handlers.Auth.SignIn)
	r.POST("/api/v1/auth/signout", authMiddleware(handlers.Auth.SignOut))

	// Protected routes
	r.GET("/api/v1/profile", authMiddleware(handlers.Profile.GetProfile))
	r.PUT("/api/v1/profile", authMiddleware(handlers.Profile.UpdateProfile))

	r.GET("/api/v1/apartments", authMiddleware(handlers.Apartment.List))
	r.POST("/api/v1/apartments", authMiddleware(handlers.Apartment.Create))
	r.POST("/api/v1/apartments/join", authMiddleware(handlers.Apartment.Join))
	r.GET("/api/v1/apartments/{id}", authMiddleware(handlers.Apartment.Get))
	r.PUT("/api/v1/apartments/{id}/code", authMiddleware(handlers.Apartment.SetCode))
	r.GET("/api/v1/apartments/{id}/members", authMiddleware(handlers.Apartment.Roster))

	r.GET("/api/v1/apartments/{id}/tasks", authMiddleware(handlers.Board.ListTasks))
	r.POST("/api/v1/apartments/{id}/tasks", authMiddleware(handlers.Board.CreateTask))
	r.POST("/api/v1/apartments/{id}/tasks/batch", authMiddleware(handlers.Board.CreateTasks))
	r.POST("/api/v1/apartments/{id}/tasks/distribute", authMiddleware(handlers.Board.DistributeTasks))
	r.POST("/api/v1/apartments/{id}/tasks/{itemID}/toggle", authMiddleware(handlers.Board.ToggleTask))
	r.PUT("/api/v1/apartments/{id}/tasks/{itemID}/assignee", authMiddleware(handlers.Board.AssignTask))

	r.GET("/api/v1/apartments/{id}/expenses", authMiddleware(handlers.Board.ListExpenses))
	r.POST("/api/v1/apartments/{id}/expenses", authMiddleware(handlers.Board.CreateExpense))
	r.POST("/api/v1/apartments/{id}/expenses/{itemID}/toggle", authMiddleware(handlers.Board.ToggleExpense))
	r.PUT("/api/v1/apartments/{id}/expenses/{itemID}/payer", authMiddleware(handlers.Board.AssignExpense))

	r.POST("/api/v1/ratings", authMiddleware(handlers.Rating.Create))
	r.GET("/api/v1/users/{id}/ratings", authMiddleware(handlers.Rating.ListForUser))
	r.DELETE("/api/v1/users/{id}/ratings", authMiddleware(handlers.Rating.Delete))

	r.GET("/api/v1/apartments/{id}/events", authMiddleware(handlers.Events.Recent))
	r.GET("/api/v1/apartments/{id}/events/stream", authMiddleware(handlers.Events.Stream))

	return r
}
