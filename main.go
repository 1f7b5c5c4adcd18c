package main

import (
	"net/http"

	"timekeep/config"
	"timekeep/database"
	"timekeep/handlers"
	"timekeep/logger"
	"timekeep/middleware"
	"timekeep/models"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logger.Init(cfg.LogLevel)

	// Initialize JWT secret
	middleware.SetJWTSecret(cfg.JWTSecret)

	// Initialize database
	if err := database.Init(cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(cfg)
	employeeHandler := handlers.NewEmployeeHandler()
	timesheetHandler := handlers.NewTimesheetHandler()
	uploadHandler := handlers.NewUploadHandler()

	// Setup router
	router := chi.NewRouter()
	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)

	// Public routes
	router.Post("/login", authHandler.Login)

	// Protected routes
	router.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware)

		r.Post("/change-password", authHandler.ChangePassword)

		// Clock operations (all authenticated users; reviewers may act
		// for any employee)
		r.Post("/timesheets/clock-in", timesheetHandler.ClockIn)
		r.Post("/timesheets/clock-out", timesheetHandler.ClockOut)
		r.Post("/timesheets/breaks/start", timesheetHandler.StartBreak)
		r.Post("/timesheets/breaks/end", timesheetHandler.EndBreak)
		r.Post("/timesheets/submit", timesheetHandler.Submit)
		r.Get("/timesheets", timesheetHandler.List)
		r.Get("/timesheets/{id}", timesheetHandler.Get)
		r.Put("/timesheets/{id}", timesheetHandler.Update)

		// Admin and HR only routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(models.RoleAdmin, models.RoleHR))

			r.Post("/timesheets/{id}/approve", timesheetHandler.Approve)
			r.Post("/timesheets/{id}/reject", timesheetHandler.Reject)
			r.Get("/export/csv", timesheetHandler.ExportCSV)

			r.Get("/employees", employeeHandler.List)
			r.Post("/employees", employeeHandler.Create)
			r.Get("/employees/{id}", employeeHandler.Get)
			r.Put("/employees/{id}", employeeHandler.Update)
			r.Delete("/employees/{id}", employeeHandler.Delete)

			r.Post("/uploads/{kind}", uploadHandler.Create)
			r.Get("/uploads/{kind}/template.csv", uploadHandler.TemplateCSV)
			r.Get("/uploads/{kind}/template.xlsx", uploadHandler.TemplateXLSX)
			r.Get("/uploads/batches/{id}", uploadHandler.Get)
			r.Put("/uploads/batches/{id}/rows/{row}", uploadHandler.CorrectRow)
			r.Post("/uploads/batches/{id}/commit", uploadHandler.Commit)
		})

		// Admin only routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(models.RoleAdmin))
			r.Get("/users", authHandler.ListUsers)
			r.Post("/users", authHandler.CreateUser)
		})
	})

	log.Info().Str("port", cfg.ServerPort).Msg("server starting")
	if err := http.ListenAndServe(":"+cfg.ServerPort, router); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
