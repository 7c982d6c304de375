// Package marketplace implements the profile, job, application, appointment and
// address operations. Every method takes an identity already resolved from a
// token; identifiers in request bodies are only compared against it.
package marketplace

import (
	"log/slog"

	"github.com/garnizeh/carematch/internal/auth"
	"github.com/garnizeh/carematch/internal/validation"
	"github.com/garnizeh/carematch/pkg/models"
	"github.com/garnizeh/carematch/pkg/repository"
)

type Deps struct {
	Caregivers   repository.CaregiverRepo
	Members      repository.MemberRepo
	Addresses    repository.AddressRepo
	Jobs         repository.JobRepo
	Applications repository.ApplicationRepo
	Appointments repository.AppointmentRepo

	Sanitizer *validation.Sanitizer
	Logger    *slog.Logger
}

type Service struct {
	Deps
}

func NewService(d Deps) *Service {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Sanitizer == nil {
		d.Sanitizer = validation.NewSanitizer()
	}
	return &Service{Deps: d}
}

var (
	jobGuard         = auth.Guard[models.Job]{Owner: func(j *models.Job) int64 { return j.MemberID }}
	applicationGuard = auth.Guard[models.JobApplication]{Owner: func(a *models.JobApplication) int64 { return a.CaregiverID }}
	addressGuard     = auth.Guard[models.Address]{Owner: func(a *models.Address) int64 { return a.MemberID }}
)
