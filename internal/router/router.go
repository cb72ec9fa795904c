package router

import (
	"strings"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/localnerve/orgportal/internal/config"
	"github.com/localnerve/orgportal/internal/handlers"
	"github.com/localnerve/orgportal/internal/middleware"
	"github.com/localnerve/orgportal/internal/services"
	"github.com/localnerve/orgportal/internal/storage"
	"github.com/localnerve/orgportal/internal/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Deps are the shared resources the routes are built over
type Deps struct {
	Config *config.Config
	DB     *gorm.DB
	Store  storage.Store
	Issuer *services.TokenIssuer

	// Prometheus, when set, is served at /metrics and observes every request.
	Prometheus *fiberprometheus.FiberPrometheus
	// Quiet disables the access log.
	Quiet bool
}

// New builds the fiber app with all routes mounted
func New(deps Deps) *fiber.App {
	cfg := deps.Config
	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(cfg.Debug),
		BodyLimit:             storage.MaxUploadSize + 1<<20,
		DisableStartupMessage: true,
	})

	// Global middleware
	app.Use(recover.New())
	if !deps.Quiet {
		app.Use(logger.New(logger.Config{Output: logrus.StandardLogger().Writer()}))
	}
	app.Use(compress.New())

	if deps.Prometheus != nil {
		deps.Prometheus.RegisterAt(app, "/metrics")
		app.Use(deps.Prometheus.Middleware)
	}

	app.Get("/swagger/*", swagger.HandlerDefault)

	health := &handlers.HealthHandler{Config: cfg, DB: deps.DB, Store: deps.Store}
	app.Get("/healthz", health.Health)

	files := &handlers.FileHandler{Store: deps.Store}
	app.Get("/storage/:category/:name", cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,HEAD"}), files.Serve)

	api := app.Group("/api", cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.AllowedOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Api-Version",
	}), middleware.VersionMiddleware())

	auth := middleware.Auth(deps.DB, deps.Issuer)
	officer := middleware.RequireOfficer()

	// Auth
	authHandler := &handlers.AuthHandler{DB: deps.DB, Issuer: deps.Issuer}
	login := []fiber.Handler{}
	if cfg.LoginRateLimit > 0 {
		login = append(login, limiter.New(limiter.Config{
			Max:        cfg.LoginRateLimit,
			Expiration: time.Minute,
			LimitReached: func(c *fiber.Ctx) error {
				return utils.ErrorResponse(c, "Too many login attempts, try again later.", fiber.StatusTooManyRequests, "throttled")
			},
		}))
	}
	api.Post("/auth/login", append(login, authHandler.Login)...)
	api.Get("/auth/me", auth, authHandler.Me)
	api.Post("/auth/logout", auth, authHandler.Logout)

	// Members
	members := &handlers.MemberHandler{DB: deps.DB, Store: deps.Store}
	api.Get("/members", auth, officer, members.ListMembers)
	api.Post("/members", auth, officer, members.CreateMember)
	api.Put("/members/me", auth, members.UpdateProfile)
	api.Post("/members/me/avatar", auth, members.UploadAvatar)
	api.Get("/members/:id", auth, members.GetMember)

	// Programs (public reads)
	programs := &handlers.ProgramHandler{DB: deps.DB}
	api.Get("/programs", programs.ListPrograms)
	api.Get("/programs/:id", programs.GetProgram)
	api.Post("/programs", auth, officer, programs.CreateProgram)
	api.Put("/programs/:id", auth, officer, programs.UpdateProgram)
	api.Delete("/programs/:id", auth, officer, programs.DeleteProgram)

	// Recruitment
	recruitment := &handlers.RecruitmentHandler{DB: deps.DB}
	rec := api.Group("/recruitment")
	rec.Get("/positions", recruitment.ListPositions)
	rec.Post("/positions", auth, officer, recruitment.CreatePosition)
	rec.Get("/positions/:id", recruitment.GetPosition)
	rec.Put("/positions/:id", auth, officer, recruitment.UpdatePosition)
	rec.Patch("/positions/:id", auth, officer, recruitment.UpdatePosition)
	rec.Delete("/positions/:id", auth, officer, recruitment.DeletePosition)
	rec.Get("/positions/:id/applicants", auth, officer, recruitment.ListApplicants)
	rec.Post("/apply", auth, recruitment.Apply)
	rec.Post("/applications/:id/select", auth, officer, recruitment.SelectApplicant)
	rec.Patch("/applications/:id/select", auth, officer, recruitment.SelectApplicant)
	rec.Get("/my-applications", auth, recruitment.MyApplications)
	rec.Get("/my-committee", auth, recruitment.MyCommittee)

	// Committee forms; fixed paths before /:id
	forms := &handlers.CommitteeFormHandler{DB: deps.DB}
	cf := api.Group("/committee-forms")
	cf.Get("/", forms.ListForms)
	cf.Post("/", auth, officer, forms.CreateForm)
	cf.Post("/register", auth, forms.Register)
	cf.Get("/my-registrations", auth, forms.MyRegistrations)
	cf.Put("/registrations/:id/status", auth, officer, forms.UpdateRegistrationStatus)
	cf.Patch("/registrations/:id/status", auth, officer, forms.UpdateRegistrationStatus)
	cf.Delete("/registrations/:id", auth, forms.DeleteRegistration)
	cf.Get("/:formId/registrations", auth, officer, forms.ListRegistrations)
	cf.Get("/:id", forms.GetForm)
	cf.Put("/:id", auth, officer, forms.UpdateForm)
	cf.Delete("/:id", auth, officer, forms.DeleteForm)

	// Attendance
	agendas := &handlers.AgendaHandler{DB: deps.DB}
	api.Get("/agendas", auth, agendas.ListAgendas)
	api.Post("/agendas", auth, officer, agendas.CreateAgenda)
	api.Get("/agendas/:id", auth, agendas.GetAgenda)
	api.Delete("/agendas/:id", auth, officer, agendas.DeleteAgenda)
	api.Post("/agendas/:id/token", auth, officer, agendas.RotateToken)
	api.Get("/agendas/:id/attendances", auth, officer, agendas.ListAttendances)
	api.Post("/attendance/scan", auth, agendas.Scan)
	api.Get("/attendance/me", auth, agendas.MyAttendances)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return utils.NotFoundResponse(c, "Resource not found")
	})

	return app
}
