package repository

import (
	"context"

	"github.com/garnizeh/carematch/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.
//
// Lookups return (nil, nil) when the record does not exist. Create methods that
// hit a uniqueness constraint return apperr.ErrEmailTaken (accounts) or
// apperr.ErrConflict (addresses, applications).

type AccountRepo interface {
	CreateAccount(ctx context.Context, a *models.Account) (int64, error)
	GetAccountByID(ctx context.Context, id int64) (*models.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	UpdateAccount(ctx context.Context, a *models.Account) error
	DeleteAccount(ctx context.Context, id int64) error
}

// CaregiverRepo lookups attach the owning Account.
type CaregiverRepo interface {
	CreateCaregiver(ctx context.Context, c *models.Caregiver) error
	GetCaregiver(ctx context.Context, accountID int64) (*models.Caregiver, error)
	ListCaregivers(ctx context.Context) ([]models.Caregiver, error)
	UpdateCaregiver(ctx context.Context, c *models.Caregiver) error
}

// MemberRepo lookups attach the owning Account.
type MemberRepo interface {
	CreateMember(ctx context.Context, m *models.Member) error
	GetMember(ctx context.Context, accountID int64) (*models.Member, error)
	ListMembers(ctx context.Context) ([]models.Member, error)
	UpdateMember(ctx context.Context, m *models.Member) error
}

type AddressRepo interface {
	CreateAddress(ctx context.Context, a *models.Address) error
	GetAddress(ctx context.Context, memberID int64) (*models.Address, error)
	UpdateAddress(ctx context.Context, a *models.Address) error
}

type JobRepo interface {
	CreateJob(ctx context.Context, j *models.Job) (int64, error)
	GetJob(ctx context.Context, id int64) (*models.Job, error)
	ListJobs(ctx context.Context) ([]models.Job, error)
	ListJobsByMember(ctx context.Context, memberID int64) ([]models.Job, error)
	UpdateJob(ctx context.Context, j *models.Job) error
	DeleteJob(ctx context.Context, id int64) error
}

type ApplicationRepo interface {
	CreateApplication(ctx context.Context, a *models.JobApplication) error
	GetApplication(ctx context.Context, caregiverID, jobID int64) (*models.JobApplication, error)
	ListApplicationsByCaregiver(ctx context.Context, caregiverID int64) ([]models.JobApplication, error)
	// ListApplicationsForMember returns applications to jobs owned by memberID.
	ListApplicationsForMember(ctx context.Context, memberID int64) ([]models.ApplicationForJob, error)
	DeleteApplication(ctx context.Context, caregiverID, jobID int64) error
}

type AppointmentRepo interface {
	CreateAppointment(ctx context.Context, a *models.Appointment) (int64, error)
	GetAppointment(ctx context.Context, id int64) (*models.Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, id int64, status string) error
	ListAppointmentsByCaregiver(ctx context.Context, caregiverID int64) ([]models.AppointmentView, error)
	ListAppointmentsByMember(ctx context.Context, memberID int64) ([]models.AppointmentView, error)
}

// TxRunner runs fn atomically. Repository calls made with the context passed to
// fn take part in the same unit of work.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
