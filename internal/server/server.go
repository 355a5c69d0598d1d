// Package server exposes the wodify client as a json over http api for the
// wodassist frontend.
//
// Every request carries the user's credentials and logs in again, nothing
// about a user is kept between requests.
package server

import (
	"context"
	"net/http"
	"wodassist-backend/internal/components/assert"
	"wodassist-backend/internal/components/telemetry"
	"wodassist-backend/internal/scrapers/wodify"
	"wodassist-backend/internal/workout"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// WodifyAPI is the part of *wodify.Client the server uses.
type WodifyAPI interface {
	Login(ctx context.Context, email, password string) (wodify.Session, error)
	GetCustomerDateTime(ctx context.Context, session wodify.Session) (wodify.CustomerDateTime, error)
	ListPrograms(ctx context.Context, session wodify.Session) ([]wodify.Program, error)
	ListClasses(ctx context.Context, session wodify.Session, date string) ([]wodify.Class, error)
	ListWorkoutComponents(ctx context.Context, session wodify.Session, date, programId string) ([]wodify.WorkoutComponent, error)
	ReserveClass(ctx context.Context, session wodify.Session, classId string) (wodify.ReservationStatus, error)
	SignInClass(ctx context.Context, session wodify.Session, classId string) (wodify.ReservationStatus, error)
	CancelReservation(ctx context.Context, session wodify.Session, classReservationId string) (wodify.ReservationStatus, error)
}

type Options struct {
	// ProgramAliases maps a user's gym program to the program workouts are
	// fetched for, workout.DEFAULT_PROGRAM_ALIASES is used when nil.
	ProgramAliases map[string]string
	// Metrics is served on /metrics when set.
	Metrics http.Handler
	Tel     telemetry.API
}

type Server struct {
	wodify  WodifyAPI
	aliases map[string]string
	tel     telemetry.API
}

func NewServer(api WodifyAPI, opts Options) Server {
	assert.NotNil(api, "wodify api")

	aliases := opts.ProgramAliases
	if aliases == nil {
		aliases = workout.DEFAULT_PROGRAM_ALIASES
	}
	tel := opts.Tel
	if tel == nil {
		tel = telemetry.SlogAPI{}
	}

	return Server{
		wodify:  api,
		aliases: aliases,
		tel:     telemetry.NewScopedAPI("server", tel),
	}
}

// NewRouter returns the http handler serving every route.
func NewRouter(api WodifyAPI, opts Options) http.Handler {
	s := NewServer(api, opts)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", s.Login)
		r.Post("/getPrograms", s.Programs)
		r.Post("/getClasses", s.Classes)
		r.Post("/getWorkouts", s.Workouts)
		r.Post("/getWorkoutCard", s.WorkoutCard)
		r.Post("/reserve", s.Reserve)
		r.Post("/signin", s.SignIn)
		r.Post("/cancelReservation", s.CancelReservation)
	})

	return r
}

// ProgramFor returns the program a user's workouts are fetched for.
func (s Server) ProgramFor(gymProgramId string) string {
	return workout.ProgramFor(s.aliases, gymProgramId)
}
