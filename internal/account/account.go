// Package account implements registration, login and self-service account
// management for caregivers and members.
package account

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/garnizeh/carematch/internal/apperr"
	"github.com/garnizeh/carematch/internal/auth"
	"github.com/garnizeh/carematch/internal/metrics"
	"github.com/garnizeh/carematch/internal/validation"
	"github.com/garnizeh/carematch/pkg/models"
	"github.com/garnizeh/carematch/pkg/repository"
)

// TokenType is reported with every issued session.
const TokenType = "bearer"

// DefaultSessionTTL is the lifetime of tokens issued at login.
const DefaultSessionTTL = 30 * time.Minute

// PasswordHasher hashes and checks passwords. *auth.Hasher implements it.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) (bool, error)
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(claims auth.Claims, ttl time.Duration) (string, error)
}

type Deps struct {
	Accounts   repository.AccountRepo
	Caregivers repository.CaregiverRepo
	Members    repository.MemberRepo
	Addresses  repository.AddressRepo
	Tx         repository.TxRunner

	Hasher    PasswordHasher
	Tokens    TokenIssuer
	Sanitizer *validation.Sanitizer
	Metrics   metrics.Recorder
	Logger    *slog.Logger

	MinPasswordLength int
	SessionTTL        time.Duration
}

type Service struct {
	Deps
}

func NewService(d Deps) *Service {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Metrics == nil {
		d.Metrics = metrics.Nop{}
	}
	if d.Sanitizer == nil {
		d.Sanitizer = validation.NewSanitizer()
	}
	if d.MinPasswordLength <= 0 {
		d.MinPasswordLength = validation.DefaultMinPasswordLength
	}
	if d.SessionTTL <= 0 {
		d.SessionTTL = DefaultSessionTTL
	}
	return &Service{Deps: d}
}

// AccountInput holds the account fields shared by both registrations.
type AccountInput struct {
	Email              string  `json:"email"`
	GivenName          string  `json:"given_name"`
	Surname            string  `json:"surname"`
	City               *string `json:"city"`
	PhoneNumber        *string `json:"phone_number"`
	ProfileDescription *string `json:"profile_description"`
	Password           string  `json:"password"`
}

type CaregiverRegistration struct {
	AccountInput
	Photo          *string  `json:"photo"`
	Gender         *string  `json:"gender"`
	CaregivingType *string  `json:"caregiving_type"`
	HourlyRate     *float64 `json:"hourly_rate"`
}

type MemberRegistration struct {
	AccountInput
	HouseRules           *string `json:"house_rules"`
	DependentDescription *string `json:"dependent_description"`
	HouseNumber          *string `json:"house_number"`
	Street               *string `json:"street"`
	Town                 *string `json:"town"`
}

func (s *Service) validateAccount(in AccountInput, verr *apperr.ValidationError) {
	validation.Field(verr, "email", validation.Email(in.Email))
	validation.Field(verr, "given_name", validation.Required(in.GivenName))
	validation.Field(verr, "surname", validation.Required(in.Surname))
	validation.Field(verr, "password", validation.Password(in.Password, s.MinPasswordLength))
	validation.Field(verr, "phone_number", validation.Phone(in.PhoneNumber))
}

// createAccount checks email uniqueness and stores the account with an already
// computed hash. It must run inside the registration transaction.
func (s *Service) createAccount(ctx context.Context, in AccountInput, hash string) (*models.Account, error) {
	existing, err := s.Accounts.GetAccountByEmail(ctx, in.Email)
	if err != nil {
		return nil, apperr.Storage("get account by email", err)
	}
	if existing != nil {
		return nil, apperr.ErrEmailTaken
	}

	a := &models.Account{
		Email:              in.Email,
		GivenName:          strings.TrimSpace(in.GivenName),
		Surname:            strings.TrimSpace(in.Surname),
		City:               in.City,
		PhoneNumber:        in.PhoneNumber,
		ProfileDescription: s.Sanitizer.Ptr(in.ProfileDescription),
		PasswordHash:       hash,
	}
	id, err := s.Accounts.CreateAccount(ctx, a)
	if err != nil {
		if errors.Is(err, apperr.ErrEmailTaken) {
			return nil, apperr.ErrEmailTaken
		}
		return nil, apperr.Storage("create account", err)
	}
	a.ID = id
	return a, nil
}

// RegisterCaregiver creates an account and its caregiver profile atomically.
func (s *Service) RegisterCaregiver(ctx context.Context, in CaregiverRegistration) (*models.Profile, error) {
	verr := &apperr.ValidationError{}
	s.validateAccount(in.AccountInput, verr)
	validation.Field(verr, "hourly_rate", validation.NonNegative(in.HourlyRate))
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	// Hash before opening the transaction; the pool has a single connection.
	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	var acct *models.Account
	err = s.Tx.RunInTx(ctx, func(ctx context.Context) error {
		a, err := s.createAccount(ctx, in.AccountInput, hash)
		if err != nil {
			return err
		}
		c := &models.Caregiver{
			AccountID:      a.ID,
			Photo:          in.Photo,
			Gender:         in.Gender,
			CaregivingType: in.CaregivingType,
			HourlyRate:     in.HourlyRate,
		}
		if err := s.Caregivers.CreateCaregiver(ctx, c); err != nil {
			return apperr.Storage("create caregiver", err)
		}
		acct = a
		return nil
	})
	if err != nil {
		s.Logger.Info("caregiver registration rejected", slog.String("kind", apperr.Kind(err)))
		return nil, err
	}

	s.Metrics.RecordRegistration(string(models.RoleCaregiver))
	s.Logger.Info("caregiver registered", slog.Int64("user_id", acct.ID))
	return models.NewProfile(acct, models.RoleCaregiver), nil
}

// RegisterMember creates an account, its member profile and an address record
// atomically. The address is created even when every address field is empty.
func (s *Service) RegisterMember(ctx context.Context, in MemberRegistration) (*models.Profile, error) {
	verr := &apperr.ValidationError{}
	s.validateAccount(in.AccountInput, verr)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	// Hash before opening the transaction; the pool has a single connection.
	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	var acct *models.Account
	err = s.Tx.RunInTx(ctx, func(ctx context.Context) error {
		a, err := s.createAccount(ctx, in.AccountInput, hash)
		if err != nil {
			return err
		}
		m := &models.Member{
			AccountID:            a.ID,
			HouseRules:           s.Sanitizer.Ptr(in.HouseRules),
			DependentDescription: s.Sanitizer.Ptr(in.DependentDescription),
		}
		if err := s.Members.CreateMember(ctx, m); err != nil {
			return apperr.Storage("create member", err)
		}
		addr := &models.Address{
			MemberID:    a.ID,
			HouseNumber: in.HouseNumber,
			Street:      in.Street,
			Town:        in.Town,
		}
		if err := s.Addresses.CreateAddress(ctx, addr); err != nil {
			return apperr.Storage("create address", err)
		}
		acct = a
		return nil
	})
	if err != nil {
		s.Logger.Info("member registration rejected", slog.String("kind", apperr.Kind(err)))
		return nil, err
	}

	s.Metrics.RecordRegistration(string(models.RoleMember))
	s.Logger.Info("member registered", slog.Int64("user_id", acct.ID))
	return models.NewProfile(acct, models.RoleMember), nil
}

// Login checks the password and issues a session token. Every failure is
// apperr.ErrInvalidCredentials except storage faults.
func (s *Service) Login(ctx context.Context, email, password string) (*models.Session, error) {
	sess, err := s.login(ctx, email, password)
	if err != nil {
		s.Metrics.RecordLogin(metrics.LoginFailure)
		if errors.Is(err, apperr.ErrInvalidCredentials) {
			return nil, apperr.ErrInvalidCredentials
		}
		return nil, err
	}
	s.Metrics.RecordLogin(metrics.LoginSuccess)
	return sess, nil
}

func (s *Service) login(ctx context.Context, email, password string) (*models.Session, error) {
	a, err := s.Accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Storage("get account by email", err)
	}
	if a == nil {
		return nil, apperr.ErrInvalidCredentials
	}

	ok, err := s.Hasher.Verify(password, a.PasswordHash)
	if err != nil {
		s.Logger.Error("stored password hash unreadable", slog.Int64("user_id", a.ID), slog.Any("err", err))
		return nil, err
	}
	if !ok {
		return nil, apperr.ErrInvalidCredentials
	}

	role, err := auth.RoleOf(ctx, s.Caregivers, s.Members, a.ID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.ErrInvalidCredentials
		}
		return nil, err
	}

	tok, err := s.Tokens.Issue(auth.Claims{Subject: a.Email, Role: role}, s.SessionTTL)
	if err != nil {
		return nil, err
	}
	return &models.Session{AccessToken: tok, TokenType: TokenType, Role: role, UserID: a.ID}, nil
}

// Profile returns the role-tagged summary of a.
func (s *Service) Profile(ctx context.Context, a *models.Account) (*models.Profile, error) {
	role, err := auth.RoleOf(ctx, s.Caregivers, s.Members, a.ID)
	if err != nil {
		return nil, err
	}
	return models.NewProfile(a, role), nil
}

// AccountPatch lists the account fields a user may change. Nil leaves a field as is.
type AccountPatch struct {
	GivenName          *string `json:"given_name"`
	Surname            *string `json:"surname"`
	City               *string `json:"city"`
	PhoneNumber        *string `json:"phone_number"`
	ProfileDescription *string `json:"profile_description"`
}

// UpdateAccount applies p to the caller's own account.
func (s *Service) UpdateAccount(ctx context.Context, a *models.Account, p AccountPatch) (*models.Profile, error) {
	verr := &apperr.ValidationError{}
	if p.GivenName != nil {
		validation.Field(verr, "given_name", validation.Required(*p.GivenName))
	}
	if p.Surname != nil {
		validation.Field(verr, "surname", validation.Required(*p.Surname))
	}
	validation.Field(verr, "phone_number", validation.Phone(p.PhoneNumber))
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	updated := *a
	if p.GivenName != nil {
		updated.GivenName = strings.TrimSpace(*p.GivenName)
	}
	if p.Surname != nil {
		updated.Surname = strings.TrimSpace(*p.Surname)
	}
	if p.City != nil {
		updated.City = p.City
	}
	if p.PhoneNumber != nil {
		updated.PhoneNumber = p.PhoneNumber
	}
	if p.ProfileDescription != nil {
		updated.ProfileDescription = s.Sanitizer.Ptr(p.ProfileDescription)
	}

	if err := s.Accounts.UpdateAccount(ctx, &updated); err != nil {
		return nil, apperr.Storage("update account", err)
	}
	return s.Profile(ctx, &updated)
}

// DeleteAccount removes the caller's account and, through the storage
// cascade, everything it owns.
func (s *Service) DeleteAccount(ctx context.Context, a *models.Account) error {
	if err := s.Accounts.DeleteAccount(ctx, a.ID); err != nil {
		return apperr.Storage("delete account", err)
	}
	s.Logger.Info("account deleted", slog.Int64("user_id", a.ID))
	return nil
}
