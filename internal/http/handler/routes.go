package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fitbook/internal/http/middleware"
	"fitbook/internal/model"
	"fitbook/internal/service"
)

// Services bundles what the routes depend on.
type Services struct {
	Auth     service.AuthService
	Sessions service.SessionService
	Bookings service.BookingService
	Profiles service.ProfileService
	// Metrics is exposed at /metrics when set.
	Metrics prometheus.Gatherer
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, db *sql.DB, svc Services) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", Liveness())
	if svc.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(svc.Metrics, promhttp.HandlerOpts{})))
	}

	authed := middleware.RequireAuth(svc.Auth)
	trainerOnly := middleware.RequireRole(model.RoleTrainer)

	a := app.Group("/auth")
	a.Post("/register", Register(svc.Auth))
	a.Post("/register/trainer", RegisterTrainer(svc.Auth))
	a.Get("/confirm", ConfirmEmail(svc.Auth))
	a.Post("/confirm", ConfirmEmail(svc.Auth))
	a.Post("/resend-confirmation", ResendConfirmation(svc.Auth))
	a.Post("/signin", SignIn(svc.Auth))
	a.Post("/signout", authed, SignOut(svc.Auth))
	a.Get("/me", authed, Me(svc.Auth))

	app.Get("/profile", authed, Profile(svc.Profiles))

	// /trainers/me/photo is registered before /trainers/:id so "me" never parses as an id.
	app.Put("/trainers/me/photo", authed, trainerOnly, UploadTrainerPhoto(svc.Profiles))
	app.Get("/trainers", ListTrainers(svc.Profiles))
	app.Get("/trainers/:id", GetTrainer(svc.Profiles))
	app.Get("/trainers/:id/photo", TrainerPhoto(svc.Profiles))

	s := app.Group("/sessions", authed)
	s.Get("/", ListSessions(svc.Sessions))
	s.Post("/", trainerOnly, CreateSession(svc.Sessions))
	s.Get("/mine", trainerOnly, MySessions(svc.Sessions))
	s.Patch("/:id/status", trainerOnly, UpdateSessionStatus(svc.Sessions))
	s.Post("/:id/bookings", BookSession(svc.Bookings))

	b := app.Group("/bookings", authed)
	b.Get("/", ListBookings(svc.Bookings))
	b.Post("/:id/confirm", trainerOnly, ConfirmBooking(svc.Bookings))
	b.Post("/:id/cancel", CancelBooking(svc.Bookings))
}
