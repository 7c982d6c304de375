package marketplace

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/garnizeh/carematch/internal/apperr"
	"github.com/garnizeh/carematch/internal/auth"
	"github.com/garnizeh/carematch/internal/validation"
	"github.com/garnizeh/carematch/pkg/models"
)

type AppointmentInput struct {
	CaregiverUserID int64   `json:"caregiver_user_id"`
	MemberUserID    int64   `json:"member_user_id"`
	AppointmentDate *string `json:"appointment_date"`
	AppointmentTime *string `json:"appointment_time"`
	WorkHours       *int    `json:"work_hours"`
	Status          *string `json:"status"`
}

// CreateAppointment books a caregiver on behalf of the actor.
func (s *Service) CreateAppointment(ctx context.Context, actor *models.Member, in AppointmentInput) (*models.Appointment, error) {
	if err := auth.CheckDeclared(actor.AccountID, in.MemberUserID); err != nil {
		return nil, fmt.Errorf("appointment: %w", err)
	}

	status := models.DefaultAppointmentStatus
	verr := &apperr.ValidationError{}
	validation.Field(verr, "appointment_date", validation.Date(in.AppointmentDate))
	validation.Field(verr, "appointment_time", validation.Clock(in.AppointmentTime))
	validation.Field(verr, "work_hours", validation.NonNegative(in.WorkHours))
	if in.Status != nil {
		status = strings.TrimSpace(*in.Status)
		validation.Field(verr, "status", validation.Status(status))
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	c, err := s.Caregivers.GetCaregiver(ctx, in.CaregiverUserID)
	if err != nil {
		return nil, apperr.Storage("get caregiver", err)
	}
	if c == nil {
		return nil, fmt.Errorf("caregiver: %w", apperr.ErrNotFound)
	}

	a := &models.Appointment{
		CaregiverID:     c.AccountID,
		MemberID:        actor.AccountID,
		AppointmentDate: in.AppointmentDate,
		AppointmentTime: in.AppointmentTime,
		WorkHours:       in.WorkHours,
		Status:          status,
	}
	if _, err := s.Appointments.CreateAppointment(ctx, a); err != nil {
		return nil, apperr.Storage("create appointment", err)
	}
	s.Logger.Info("appointment created", slog.Int64("appointment_id", a.ID), slog.Int64("member_id", actor.AccountID))
	return a, nil
}

// UpdateAppointmentStatus lets either participant set any non-empty status.
func (s *Service) UpdateAppointmentStatus(ctx context.Context, actor *models.Account, id int64, status string) (*models.Appointment, error) {
	status = strings.TrimSpace(status)
	if msg := validation.Status(status); msg != "" {
		return nil, apperr.Invalid("status", msg)
	}

	a, err := s.Appointments.GetAppointment(ctx, id)
	if err != nil {
		return nil, apperr.Storage("get appointment", err)
	}
	if a == nil {
		return nil, fmt.Errorf("appointment: %w", apperr.ErrNotFound)
	}
	if actor.ID != a.CaregiverID && actor.ID != a.MemberID {
		return nil, fmt.Errorf("appointment: %w", apperr.ErrForbidden)
	}

	if err := s.Appointments.UpdateAppointmentStatus(ctx, id, status); err != nil {
		return nil, apperr.Storage("update appointment status", err)
	}
	s.Logger.Info("appointment status changed", slog.Int64("appointment_id", id), slog.String("from", a.Status), slog.String("to", status))
	a.Status = status
	return a, nil
}

// CaregiverAppointments lists the actor's appointments with member contact and address.
func (s *Service) CaregiverAppointments(ctx context.Context, actor *models.Caregiver) ([]models.AppointmentView, error) {
	views, err := s.Appointments.ListAppointmentsByCaregiver(ctx, actor.AccountID)
	if err != nil {
		return nil, apperr.Storage("list appointments by caregiver", err)
	}
	return views, nil
}

// MemberAppointments lists the actor's appointments with caregiver contact.
func (s *Service) MemberAppointments(ctx context.Context, actor *models.Member) ([]models.AppointmentView, error) {
	views, err := s.Appointments.ListAppointmentsByMember(ctx, actor.AccountID)
	if err != nil {
		return nil, apperr.Storage("list appointments by member", err)
	}
	return views, nil
}
