package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/catalog"
	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/config"
	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	Health    *handlers.HealthHandler
	Tasks     *handlers.TaskHandler
	Templates *handlers.TemplateHandler
	Spendings *handlers.SpendingHandler
	Calendar  *handlers.CalendarHandler
	Diet      *handlers.DietHandler
	Admin     *handlers.AdminHandler
}

// NewHandlers wires services and handlers over one database.
func NewHandlers(db *gorm.DB, cfg *config.Config, cat *catalog.Catalog, clock handlers.Clock) Handlers {
	authService := services.NewAuthService(db, cfg, cat)
	days := services.NewDailyTaskService(db)

	return Handlers{
		Auth:      handlers.NewAuthHandler(authService, cfg, clock),
		Health:    handlers.NewHealthHandler(db),
		Tasks:     handlers.NewTaskHandler(days, services.NewCompletionService(db), clock),
		Templates: handlers.NewTemplateHandler(services.NewTemplateService(db, cat)),
		Spendings: handlers.NewSpendingHandler(services.NewSpendingService(db, days, cat), clock),
		Calendar:  handlers.NewCalendarHandler(services.NewCalendarService(days), clock),
		Diet:      handlers.NewDietHandler(services.NewDietService(db)),
		Admin:     handlers.NewAdminHandler(authService),
	}
}

// module is one feature mounted under its own prefix. Each gets its own
// group so the session middleware never leaks onto public routes.
type module struct {
	prefix   string
	register func(r fiber.Router)
}

func Setup(app *fiber.App, cfg *config.Config, db *gorm.DB, h Handlers) {
	api := app.Group("/api")

	api.Use(rateLimit(cfg.RateLimitPerMinute))

	api.Get("/health", h.Health.Check)

	// Public auth endpoints get a stricter limit.
	auth := api.Group("/auth")
	auth.Use(rateLimit(cfg.AuthRateLimitPerMinute))
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.Refresh)
	auth.Post("/logout", h.Auth.Logout)
	auth.Get("/me", h.Auth.Me)
	auth.Delete("/account", middleware.JWTProtected(cfg), h.Auth.DeleteAccount)

	modules := []module{
		{"/tasks", func(r fiber.Router) {
			r.Get("/today", h.Tasks.Today)
			r.Get("/by-date", h.Tasks.ByDate)
			r.Post("/", h.Tasks.Create)
			r.Get("/:id", h.Tasks.Get)
			r.Patch("/:id", h.Tasks.Update)
			r.Delete("/:id", h.Tasks.Delete)
		}},
		{"/task-completions", func(r fiber.Router) {
			r.Patch("/:id", h.Tasks.SetCompletion)
		}},
		{"/task-templates", func(r fiber.Router) {
			r.Get("/", h.Templates.List)
			r.Post("/", h.Templates.Create)
			r.Post("/reorder", h.Templates.Reorder)
			r.Patch("/:id", h.Templates.Update)
			r.Delete("/:id", h.Templates.Delete)
		}},
		{"/spendings", func(r fiber.Router) {
			r.Get("/", h.Spendings.List)
			r.Get("/categories", h.Spendings.Categories)
			r.Post("/", h.Spendings.Create)
			r.Patch("/:id", h.Spendings.Update)
			r.Delete("/:id", h.Spendings.Delete)
		}},
		{"/calendar", func(r fiber.Router) {
			r.Get("/", h.Calendar.Month)
			r.Get("/summary", h.Calendar.Summary)
		}},
		{"/diet-meals", func(r fiber.Router) {
			r.Get("/", h.Diet.List)
			r.Post("/", h.Diet.Create)
			r.Patch("/:id", h.Diet.Update)
			r.Delete("/:id", h.Diet.Delete)
		}},
	}

	protected := middleware.JWTProtected(cfg)
	for _, m := range modules {
		m.register(api.Group(m.prefix, protected))
	}

	admin := api.Group("/admin", middleware.AdminSession(cfg), middleware.AdminRequired(db, cfg))
	admin.Put("/users/:id/challenge-start", h.Admin.SetUserChallengeStart)
	admin.Put("/challenge-start", h.Admin.SetAllChallengeStart)
}

func rateLimit(perMinute int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               perMinute,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
}
