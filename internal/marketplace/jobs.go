package marketplace

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/garnizeh/carematch/internal/apperr"
	"github.com/garnizeh/carematch/internal/auth"
	"github.com/garnizeh/carematch/pkg/models"
)

type JobInput struct {
	MemberUserID           int64   `json:"member_user_id"`
	RequiredCaregivingType *string `json:"required_caregiving_type"`
	OtherRequirements      *string `json:"other_requirements"`
}

func (s *Service) cleanJob(in JobInput) (*string, *string) {
	ctype := in.RequiredCaregivingType
	if ctype != nil {
		t := strings.TrimSpace(*ctype)
		ctype = &t
	}
	return ctype, s.Sanitizer.Ptr(in.OtherRequirements)
}

// CreateJob posts a job owned by the actor. The posting date is set by storage.
func (s *Service) CreateJob(ctx context.Context, actor *models.Member, in JobInput) (*models.Job, error) {
	if err := auth.CheckDeclared(actor.AccountID, in.MemberUserID); err != nil {
		return nil, fmt.Errorf("job: %w", err)
	}
	ctype, reqs := s.cleanJob(in)
	j := &models.Job{MemberID: actor.AccountID, RequiredCaregivingType: ctype, OtherRequirements: reqs}
	if _, err := s.Jobs.CreateJob(ctx, j); err != nil {
		return nil, apperr.Storage("create job", err)
	}
	s.Logger.Info("job posted", slog.Int64("job_id", j.ID), slog.Int64("member_id", actor.AccountID))
	return j, nil
}

// ListJobs returns every posted job.
func (s *Service) ListJobs(ctx context.Context) ([]models.Job, error) {
	jobs, err := s.Jobs.ListJobs(ctx)
	if err != nil {
		return nil, apperr.Storage("list jobs", err)
	}
	return jobs, nil
}

// ListMyJobs returns the jobs the actor posted.
func (s *Service) ListMyJobs(ctx context.Context, actor *models.Member) ([]models.Job, error) {
	jobs, err := s.Jobs.ListJobsByMember(ctx, actor.AccountID)
	if err != nil {
		return nil, apperr.Storage("list jobs by member", err)
	}
	return jobs, nil
}

// UpdateJob edits a job. The job must exist and belong to the actor, and the
// payload must name the actor as owner. Fields absent from in are left as they are.
func (s *Service) UpdateJob(ctx context.Context, actor *models.Member, id int64, in JobInput) (*models.Job, error) {
	j, err := s.loadOwnedJob(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := auth.CheckDeclared(actor.AccountID, in.MemberUserID); err != nil {
		return nil, fmt.Errorf("job: %w", err)
	}

	ctype, reqs := s.cleanJob(in)
	if ctype != nil {
		j.RequiredCaregivingType = ctype
	}
	if reqs != nil {
		j.OtherRequirements = reqs
	}
	if err := s.Jobs.UpdateJob(ctx, j); err != nil {
		return nil, apperr.Storage("update job", err)
	}
	return j, nil
}

// DeleteJob removes an owned job along with its applications.
func (s *Service) DeleteJob(ctx context.Context, actor *models.Member, id int64) error {
	if _, err := s.loadOwnedJob(ctx, actor, id); err != nil {
		return err
	}
	if err := s.Jobs.DeleteJob(ctx, id); err != nil {
		return apperr.Storage("delete job", err)
	}
	s.Logger.Info("job deleted", slog.Int64("job_id", id), slog.Int64("member_id", actor.AccountID))
	return nil
}

func (s *Service) loadOwnedJob(ctx context.Context, actor *models.Member, id int64) (*models.Job, error) {
	j, err := s.Jobs.GetJob(ctx, id)
	if err != nil {
		return nil, apperr.Storage("get job", err)
	}
	if err := jobGuard.Check(actor.AccountID, j); err != nil {
		return nil, fmt.Errorf("job: %w", err)
	}
	return j, nil
}
