package marketplace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/garnizeh/carematch/internal/apperr"
	"github.com/garnizeh/carematch/internal/auth"
	"github.com/garnizeh/carematch/pkg/models"
)

type ApplicationInput struct {
	CaregiverUserID int64 `json:"caregiver_user_id"`
	JobID           int64 `json:"job_id"`
}

// Apply records the actor's application to an existing job. Applying twice is a conflict.
func (s *Service) Apply(ctx context.Context, actor *models.Caregiver, in ApplicationInput) (*models.JobApplication, error) {
	if err := auth.CheckDeclared(actor.AccountID, in.CaregiverUserID); err != nil {
		return nil, fmt.Errorf("application: %w", err)
	}
	j, err := s.Jobs.GetJob(ctx, in.JobID)
	if err != nil {
		return nil, apperr.Storage("get job", err)
	}
	if j == nil {
		return nil, fmt.Errorf("job: %w", apperr.ErrNotFound)
	}

	a := &models.JobApplication{CaregiverID: actor.AccountID, JobID: j.ID}
	if err := s.Applications.CreateApplication(ctx, a); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return nil, fmt.Errorf("application: %w", apperr.ErrConflict)
		}
		return nil, apperr.Storage("create application", err)
	}
	s.Logger.Info("job application created", slog.Int64("job_id", j.ID), slog.Int64("caregiver_id", actor.AccountID))
	return a, nil
}

// Withdraw deletes an application. It reports NotFound before Forbidden.
func (s *Service) Withdraw(ctx context.Context, actor *models.Caregiver, jobID, caregiverID int64) error {
	a, err := s.Applications.GetApplication(ctx, caregiverID, jobID)
	if err != nil {
		return apperr.Storage("get application", err)
	}
	if err := applicationGuard.Check(actor.AccountID, a); err != nil {
		return fmt.Errorf("application: %w", err)
	}
	if err := s.Applications.DeleteApplication(ctx, a.CaregiverID, a.JobID); err != nil {
		return apperr.Storage("delete application", err)
	}
	return nil
}

// MyApplications lists the actor's own applications.
func (s *Service) MyApplications(ctx context.Context, actor *models.Caregiver) ([]models.JobApplication, error) {
	apps, err := s.Applications.ListApplicationsByCaregiver(ctx, actor.AccountID)
	if err != nil {
		return nil, apperr.Storage("list applications by caregiver", err)
	}
	return apps, nil
}

// ApplicationsForMyJobs lists applications to the actor's jobs with the
// applicants' profiles.
func (s *Service) ApplicationsForMyJobs(ctx context.Context, actor *models.Member) ([]models.ApplicationForJob, error) {
	apps, err := s.Applications.ListApplicationsForMember(ctx, actor.AccountID)
	if err != nil {
		return nil, apperr.Storage("list applications for member", err)
	}
	return apps, nil
}
