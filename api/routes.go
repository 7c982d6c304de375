package api

import (
	"fmt"
	"net/http"

	"github.com/garnizeh/carematch/internal/account"
	"github.com/garnizeh/carematch/internal/auth"
	"github.com/garnizeh/carematch/internal/config"
	"github.com/garnizeh/carematch/internal/db"
	"github.com/garnizeh/carematch/internal/marketplace"
	"github.com/garnizeh/carematch/internal/metrics"
	"github.com/garnizeh/carematch/internal/ratelimit"
	"github.com/garnizeh/carematch/internal/repository/sqlite"
	"github.com/garnizeh/carematch/internal/validation"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
)

// SetupRoutes builds the services from cfg and returns the router. Metrics are
// registered on reg and served from /metrics. A nil limiter disables rate
// limiting.
func SetupRoutes(cfg *config.Config, version, buildTime string, database *db.DB, reg *prometheus.Registry, limiter *ratelimit.Limiter) (*mux.Router, error) {
	repo := sqlite.New(database, logger)

	hasher, err := auth.NewHasher(cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hasher: %w", err)
	}
	codec, err := auth.NewCodec(auth.TokenConfig{
		Secret:     cfg.JWTSecret,
		Algorithm:  cfg.Algorithm(),
		DefaultTTL: cfg.TokenDuration,
	})
	if err != nil {
		return nil, fmt.Errorf("token codec: %w", err)
	}
	validator, err := validation.NewValidator()
	if err != nil {
		return nil, fmt.Errorf("validator: %w", err)
	}

	var rec metrics.Recorder = metrics.Nop{}
	if reg != nil {
		rec = metrics.NewCollector(reg)
	}
	sanitizer := validation.NewSanitizer()

	accounts := account.NewService(account.Deps{
		Accounts:          repo,
		Caregivers:        repo,
		Members:           repo,
		Addresses:         repo,
		Tx:                repo,
		Hasher:            hasher,
		Tokens:            codec,
		Sanitizer:         sanitizer,
		Metrics:           rec,
		Logger:            logger,
		MinPasswordLength: cfg.MinPasswordLength,
		SessionTTL:        cfg.SessionTokenDuration,
	})
	market := marketplace.NewService(marketplace.Deps{
		Caregivers:   repo,
		Members:      repo,
		Addresses:    repo,
		Jobs:         repo,
		Applications: repo,
		Appointments: repo,
		Sanitizer:    sanitizer,
		Logger:       logger,
	})
	resolver := auth.NewResolver(codec, repo, repo, repo)

	h := NewHandler(accounts, market, resolver, validator, rec)
	r := NewRouter(h, &SystemHandler{db: database.GetConn()}, version, buildTime, limiter)
	if reg != nil {
		r.Use(MetricsMiddleware(rec))
		r.Handle("/metrics", metrics.Handler(reg)).Methods("GET")
	}
	return r, nil
}

// NewRouter registers every endpoint on a fresh router.
func NewRouter(h *Handler, system *SystemHandler, version, buildTime string, limiter *ratelimit.Limiter) *mux.Router {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	limited := func(fn http.HandlerFunc) http.Handler {
		if limiter == nil {
			return fn
		}
		return limiter.Middleware(fn)
	}

	// Open endpoints
	r.HandleFunc("/version", system.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", system.HealthHandler).Methods("GET")
	r.Handle("/v1/auth/login", limited(h.Login)).Methods("POST")
	r.Handle("/v1/caregivers", limited(h.RegisterCaregiver)).Methods("POST")
	r.Handle("/v1/members", limited(h.RegisterMember)).Methods("POST")
	r.HandleFunc("/v1/caregivers", h.ListCaregivers).Methods("GET")
	r.HandleFunc("/v1/members", h.ListMembers).Methods("GET")

	// API v1 protected routes
	apiV1 := r.PathPrefix("/v1").Subrouter()
	apiV1.Use(BearerAuth)

	apiV1.HandleFunc("/users/me", h.Me).Methods("GET")
	apiV1.HandleFunc("/users/me", h.UpdateMe).Methods("PUT")
	apiV1.HandleFunc("/users/me", h.DeleteMe).Methods("DELETE")
	apiV1.HandleFunc("/users/me/jobs", h.MyJobs).Methods("GET")
	apiV1.HandleFunc("/users/me/job-applications", h.ApplicationsForMyJobs).Methods("GET")
	apiV1.HandleFunc("/users/me/applications", h.MyApplications).Methods("GET")
	apiV1.HandleFunc("/users/me/caregiver-appointments", h.CaregiverAppointments).Methods("GET")
	apiV1.HandleFunc("/users/me/member-appointments", h.MemberAppointments).Methods("GET")

	apiV1.HandleFunc("/caregivers/me", h.MyCaregiverProfile).Methods("GET")
	apiV1.HandleFunc("/caregivers/me", h.UpdateCaregiverProfile).Methods("PUT")
	apiV1.HandleFunc("/members/me", h.MyMemberProfile).Methods("GET")
	apiV1.HandleFunc("/members/me", h.UpdateMemberProfile).Methods("PUT")
	apiV1.HandleFunc("/members/me/address", h.GetAddress).Methods("GET")
	apiV1.HandleFunc("/members/me/address", h.CreateAddress).Methods("POST")
	apiV1.HandleFunc("/members/me/address", h.UpdateAddress).Methods("PUT")

	apiV1.HandleFunc("/jobs", h.ListJobs).Methods("GET")
	apiV1.HandleFunc("/jobs", h.CreateJob).Methods("POST")
	apiV1.HandleFunc("/jobs/{id:[0-9]+}", h.UpdateJob).Methods("PUT")
	apiV1.HandleFunc("/jobs/{id:[0-9]+}", h.DeleteJob).Methods("DELETE")

	apiV1.HandleFunc("/job-applications", h.Apply).Methods("POST")
	apiV1.HandleFunc("/job-applications/{job_id:[0-9]+}/{caregiver_id:[0-9]+}", h.Withdraw).Methods("DELETE")

	apiV1.HandleFunc("/appointments", h.CreateAppointment).Methods("POST")
	apiV1.HandleFunc("/appointments/{id:[0-9]+}/status/{status}", h.UpdateAppointmentStatus).Methods("PUT")

	return r
}
