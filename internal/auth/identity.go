package auth

import (
	"context"
	"fmt"

	"github.com/garnizeh/carematch/internal/apperr"
	"github.com/garnizeh/carematch/pkg/models"
	"github.com/garnizeh/carematch/pkg/repository"
)

// TokenVerifier is the part of Codec the Resolver needs.
type TokenVerifier interface {
	Verify(token string) (Claims, error)
}

// Resolver turns bearer tokens into accounts and role profiles. It holds no
// per-request state; every call re-verifies the token.
type Resolver struct {
	tokens     TokenVerifier
	accounts   repository.AccountRepo
	caregivers repository.CaregiverRepo
	members    repository.MemberRepo
}

func NewResolver(tokens TokenVerifier, accounts repository.AccountRepo, caregivers repository.CaregiverRepo, members repository.MemberRepo) *Resolver {
	return &Resolver{tokens: tokens, accounts: accounts, caregivers: caregivers, members: members}
}

// ResolveAccount verifies token and loads the account named by its subject.
// A bad token and an unknown account fail the same way.
func (r *Resolver) ResolveAccount(ctx context.Context, token string) (*models.Account, error) {
	claims, err := r.tokens.Verify(token)
	if err != nil {
		return nil, apperr.ErrUnauthenticated
	}
	a, err := r.accounts.GetAccountByEmail(ctx, claims.Subject)
	if err != nil {
		return nil, apperr.Storage("get account by email", err)
	}
	if a == nil {
		return nil, apperr.ErrUnauthenticated
	}
	return a, nil
}

// ResolveCaregiver resolves the account and requires a caregiver profile.
func (r *Resolver) ResolveCaregiver(ctx context.Context, token string) (*models.Caregiver, error) {
	a, err := r.ResolveAccount(ctx, token)
	if err != nil {
		return nil, err
	}
	c, err := r.caregivers.GetCaregiver(ctx, a.ID)
	if err != nil {
		return nil, apperr.Storage("get caregiver", err)
	}
	if c == nil {
		return nil, apperr.ErrNotCaregiver
	}
	if c.Account == nil {
		c.Account = a
	}
	return c, nil
}

// ResolveMember resolves the account and requires a member profile.
func (r *Resolver) ResolveMember(ctx context.Context, token string) (*models.Member, error) {
	a, err := r.ResolveAccount(ctx, token)
	if err != nil {
		return nil, err
	}
	m, err := r.members.GetMember(ctx, a.ID)
	if err != nil {
		return nil, apperr.Storage("get member", err)
	}
	if m == nil {
		return nil, apperr.ErrNotMember
	}
	if m.Account == nil {
		m.Account = a
	}
	return m, nil
}

// RoleOf derives an account's role from which profile exists.
func RoleOf(ctx context.Context, caregivers repository.CaregiverRepo, members repository.MemberRepo, accountID int64) (models.Role, error) {
	c, err := caregivers.GetCaregiver(ctx, accountID)
	if err != nil {
		return "", apperr.Storage("get caregiver", err)
	}
	if c != nil {
		return models.RoleCaregiver, nil
	}
	m, err := members.GetMember(ctx, accountID)
	if err != nil {
		return "", apperr.Storage("get member", err)
	}
	if m != nil {
		return models.RoleMember, nil
	}
	return "", fmt.Errorf("account %d has no role profile: %w", accountID, apperr.ErrNotFound)
}
