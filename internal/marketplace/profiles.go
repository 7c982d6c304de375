package marketplace

import (
	"context"
	"errors"
	"fmt"

	"github.com/garnizeh/carematch/internal/apperr"
	"github.com/garnizeh/carematch/internal/auth"
	"github.com/garnizeh/carematch/internal/validation"
	"github.com/garnizeh/carematch/pkg/models"
)

// CaregiverListing pairs c with its public account summary.
func CaregiverListing(c *models.Caregiver) models.CaregiverListing {
	l := models.CaregiverListing{Caregiver: *c}
	if c.Account != nil {
		l.User = models.NewProfile(c.Account, models.RoleCaregiver)
	}
	return l
}

// MemberListing pairs m with its public account summary.
func MemberListing(m *models.Member) models.MemberListing {
	l := models.MemberListing{Member: *m}
	if m.Account != nil {
		l.User = models.NewProfile(m.Account, models.RoleMember)
	}
	return l
}

func (s *Service) ListCaregivers(ctx context.Context) ([]models.CaregiverListing, error) {
	cs, err := s.Caregivers.ListCaregivers(ctx)
	if err != nil {
		return nil, apperr.Storage("list caregivers", err)
	}
	out := make([]models.CaregiverListing, 0, len(cs))
	for i := range cs {
		out = append(out, CaregiverListing(&cs[i]))
	}
	return out, nil
}

type CaregiverPatch struct {
	CaregiverUserID int64    `json:"caregiver_user_id"`
	Photo           *string  `json:"photo"`
	Gender          *string  `json:"gender"`
	CaregivingType  *string  `json:"caregiving_type"`
	HourlyRate      *float64 `json:"hourly_rate"`
}

// UpdateCaregiver changes the actor's own caregiver profile.
func (s *Service) UpdateCaregiver(ctx context.Context, actor *models.Caregiver, p CaregiverPatch) (*models.CaregiverListing, error) {
	if err := auth.CheckDeclared(actor.AccountID, p.CaregiverUserID); err != nil {
		return nil, fmt.Errorf("caregiver: %w", err)
	}
	verr := &apperr.ValidationError{}
	validation.Field(verr, "hourly_rate", validation.NonNegative(p.HourlyRate))
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	c := *actor
	if p.Photo != nil {
		c.Photo = p.Photo
	}
	if p.Gender != nil {
		c.Gender = p.Gender
	}
	if p.CaregivingType != nil {
		c.CaregivingType = p.CaregivingType
	}
	if p.HourlyRate != nil {
		c.HourlyRate = p.HourlyRate
	}
	if err := s.Caregivers.UpdateCaregiver(ctx, &c); err != nil {
		return nil, apperr.Storage("update caregiver", err)
	}
	l := CaregiverListing(&c)
	return &l, nil
}

func (s *Service) ListMembers(ctx context.Context) ([]models.MemberListing, error) {
	ms, err := s.Members.ListMembers(ctx)
	if err != nil {
		return nil, apperr.Storage("list members", err)
	}
	out := make([]models.MemberListing, 0, len(ms))
	for i := range ms {
		out = append(out, MemberListing(&ms[i]))
	}
	return out, nil
}

type MemberPatch struct {
	MemberUserID         int64   `json:"member_user_id"`
	HouseRules           *string `json:"house_rules"`
	DependentDescription *string `json:"dependent_description"`
}

// UpdateMember changes the actor's own member profile.
func (s *Service) UpdateMember(ctx context.Context, actor *models.Member, p MemberPatch) (*models.MemberListing, error) {
	if err := auth.CheckDeclared(actor.AccountID, p.MemberUserID); err != nil {
		return nil, fmt.Errorf("member: %w", err)
	}

	m := *actor
	if p.HouseRules != nil {
		m.HouseRules = s.Sanitizer.Ptr(p.HouseRules)
	}
	if p.DependentDescription != nil {
		m.DependentDescription = s.Sanitizer.Ptr(p.DependentDescription)
	}
	if err := s.Members.UpdateMember(ctx, &m); err != nil {
		return nil, apperr.Storage("update member", err)
	}
	l := MemberListing(&m)
	return &l, nil
}

type AddressInput struct {
	MemberUserID int64   `json:"member_user_id"`
	HouseNumber  *string `json:"house_number"`
	Street       *string `json:"street"`
	Town         *string `json:"town"`
}

// GetAddress returns the actor's address, or an empty one when none exists.
func (s *Service) GetAddress(ctx context.Context, actor *models.Member) (*models.Address, error) {
	a, err := s.Addresses.GetAddress(ctx, actor.AccountID)
	if err != nil {
		return nil, apperr.Storage("get address", err)
	}
	if a == nil {
		return &models.Address{MemberID: actor.AccountID}, nil
	}
	return a, nil
}

func (s *Service) CreateAddress(ctx context.Context, actor *models.Member, in AddressInput) (*models.Address, error) {
	if err := auth.CheckDeclared(actor.AccountID, in.MemberUserID); err != nil {
		return nil, fmt.Errorf("address: %w", err)
	}
	a := &models.Address{MemberID: actor.AccountID, HouseNumber: in.HouseNumber, Street: in.Street, Town: in.Town}
	if err := s.Addresses.CreateAddress(ctx, a); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return nil, fmt.Errorf("address: %w", apperr.ErrConflict)
		}
		return nil, apperr.Storage("create address", err)
	}
	return a, nil
}

// UpdateAddress changes the fields present in in; absent fields keep their values.
func (s *Service) UpdateAddress(ctx context.Context, actor *models.Member, in AddressInput) (*models.Address, error) {
	if err := auth.CheckDeclared(actor.AccountID, in.MemberUserID); err != nil {
		return nil, fmt.Errorf("address: %w", err)
	}
	existing, err := s.Addresses.GetAddress(ctx, actor.AccountID)
	if err != nil {
		return nil, apperr.Storage("get address", err)
	}
	if err := addressGuard.Check(actor.AccountID, existing); err != nil {
		return nil, fmt.Errorf("address: %w", err)
	}

	if in.HouseNumber != nil {
		existing.HouseNumber = in.HouseNumber
	}
	if in.Street != nil {
		existing.Street = in.Street
	}
	if in.Town != nil {
		existing.Town = in.Town
	}
	if err := s.Addresses.UpdateAddress(ctx, existing); err != nil {
		return nil, apperr.Storage("update address", err)
	}
	return existing, nil
}
