package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/taskmasters/taskmasters-api/internal/config"
	"github.com/taskmasters/taskmasters-api/internal/handlers"
	"github.com/taskmasters/taskmasters-api/internal/middleware"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	categoryHandler *handlers.CategoryHandler,
	taskHandler *handlers.TaskHandler,
	pomodoroHandler *handlers.PomodoroHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth — public routes get a stricter rate limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/verify/:token", authHandler.VerifyEmail)

	api.Get("/auth/profile", middleware.JWTProtected(cfg), authHandler.Profile)

	categories := api.Group("/categories", middleware.JWTProtected(cfg))
	categories.Post("/", categoryHandler.Create)
	categories.Get("/", categoryHandler.List)
	categories.Post("/defaults", categoryHandler.SeedDefaults)
	categories.Get("/:id", categoryHandler.Get)
	categories.Put("/:id", categoryHandler.Update)
	categories.Delete("/:id", categoryHandler.Delete)
	categories.Get("/:id/tasks", categoryHandler.Tasks)

	tasks := api.Group("/tasks", middleware.JWTProtected(cfg))
	tasks.Post("/", taskHandler.Create)
	tasks.Get("/", taskHandler.List)
	tasks.Get("/:id", taskHandler.Get)
	tasks.Put("/:id", taskHandler.Update)
	tasks.Patch("/:id/toggle", taskHandler.Toggle)
	tasks.Delete("/:id", taskHandler.Delete)

	pomodoros := api.Group("/pomodoros", middleware.JWTProtected(cfg))
	pomodoros.Post("/", pomodoroHandler.Record)
	pomodoros.Get("/today", pomodoroHandler.Today)
	pomodoros.Get("/week", pomodoroHandler.Week)
	pomodoros.Get("/stats", pomodoroHandler.Stats)
	pomodoros.Get("/range", pomodoroHandler.Range)
	pomodoros.Put("/goal", pomodoroHandler.UpdateGoal)
	pomodoros.Delete("/:id", pomodoroHandler.Delete)

	// Admin panel (protected + admin required)
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.AdminRequired(cfg))
	admin.Get("/users", authHandler.ListUsers)
}
